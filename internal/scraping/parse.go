package scraping

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	numericChars = regexp.MustCompile(`[^\d.,]`)
	areaUnit     = regexp.MustCompile(`(?i)\s*m\s*[²2]\s*$`)
)

// ParseBRL parses a Brazilian formatted amount such as "R$ 1.250.000,00" or
// "650.000". Dots are thousands separators and a comma marks the cents.
func ParseBRL(s string) (float64, error) {
	cleaned := numericChars.ReplaceAllString(s, "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0, fmt.Errorf("no amount in %q", s)
	}
	return strconv.ParseFloat(cleaned, 64)
}

// ParseArea parses an area in m². A comma is always decimal; a lone dot is a
// thousands separator only when followed by exactly three digits.
func ParseArea(s string) (float64, error) {
	cleaned := numericChars.ReplaceAllString(areaUnit.ReplaceAllString(s, ""), "")
	cleaned = strings.TrimRight(cleaned, ".,")
	if cleaned == "" {
		return 0, fmt.Errorf("no area in %q", s)
	}

	switch {
	case strings.Contains(cleaned, ","):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case strings.Count(cleaned, ".") > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	case strings.Contains(cleaned, "."):
		if len(cleaned)-strings.LastIndex(cleaned, ".")-1 == 3 {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}
	return strconv.ParseFloat(cleaned, 64)
}

// parseCount reads a small integer such as a bedroom count, 0 when absent
func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Slug turns a place name into the URL form used by the listing sites,
// e.g. "Divinópolis" becomes "divinopolis".
func Slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}
	return strings.Join(strings.Fields(strings.ToLower(plain)), "-")
}
