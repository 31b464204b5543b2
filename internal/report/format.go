package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aluguelcompra/server/internal/models"
	"aluguelcompra/server/internal/simulation"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Format selects the output rendering of a report
type Format int

const (
	FormatText Format = iota
	FormatCSV
	FormatJSON
	FormatPDF
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "texto"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

// ParseFormat accepts the format names used on the command line
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "texto", "text", "txt", "":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "pdf":
		return FormatPDF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Report bundles everything a rendering needs
type Report struct {
	Listings    []models.Listing
	Result      *simulation.Result
	GeneratedAt time.Time
}

func New(listings []models.Listing, result *simulation.Result, generatedAt time.Time) *Report {
	return &Report{
		Listings:    listings,
		Result:      result,
		GeneratedAt: generatedAt,
	}
}

// Render produces the report in the requested format
func (r *Report) Render(f Format) ([]byte, error) {
	if r.Result == nil {
		return nil, errors.New("report has no simulation result")
	}

	switch f {
	case FormatText:
		return []byte(r.Text()), nil
	case FormatCSV:
		return r.CSV()
	case FormatJSON:
		return r.JSON()
	case FormatPDF:
		return r.PDF()
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
}
