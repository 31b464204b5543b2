package scraping

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"aluguelcompra/server/config"
	"aluguelcompra/server/internal/models"
)

// pageText returns the visible text of a page, one space between text nodes
// so that values from adjacent elements never run together.
func pageText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				b.WriteString(t)
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return b.String(), nil
}

func submatches(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

// at returns values[i] or "" past the end
func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

var (
	franciscoPrice    = regexp.MustCompile(`R\$\s*([\d.]+[.,]\d{2,3}(?:\.\d{3})*)`)
	franciscoArea     = regexp.MustCompile(`([\d.,]+)\s*m\s*[²2]`)
	franciscoBedrooms = regexp.MustCompile(`(?i)(\d+)\s*(?:quartos?|dorm)`)
	franciscoParking  = regexp.MustCompile(`(?i)(\d+)\s*vagas?`)
)

// FranciscoSource reads the Francisco Imóveis search result page. Cards carry
// no structured data, so values are paired by their order on the page.
type FranciscoSource struct {
	source       config.Source
	neighborhood string
	fetcher      *Fetcher
	logger       *logrus.Logger
}

func (s *FranciscoSource) Name() string {
	return s.source.Name
}

func (s *FranciscoSource) pageURL(kind models.ListingKind) string {
	purpose := "alugar"
	if kind == models.KindSale {
		purpose = "comprar"
	}
	return fmt.Sprintf("%s/imoveis/%s/casa/%s/%s/1/",
		strings.TrimRight(s.source.BaseURL, "/"), purpose, Slug(City), Slug(s.neighborhood))
}

func (s *FranciscoSource) Collect(ctx context.Context, kind models.ListingKind) ([]models.Listing, error) {
	body, err := s.fetcher.Get(ctx, s.pageURL(kind))
	if err != nil {
		return nil, err
	}
	text, err := pageText(body)
	if err != nil {
		return nil, err
	}

	listings := parseFranciscoText(text, kind, s.source.Name)
	s.logger.WithFields(logrus.Fields{
		"source":     s.source.Name,
		"kind":       kind.String(),
		"text_bytes": len(text),
		"listings":   len(listings),
	}).Debug("Parsed listing page")
	for i := range listings {
		listings[i].Neighborhood = s.neighborhood
	}
	return listings, nil
}

func parseFranciscoText(text string, kind models.ListingKind, sourceName string) []models.Listing {
	prices := submatches(franciscoPrice, text)
	areas := submatches(franciscoArea, text)
	bedrooms := submatches(franciscoBedrooms, text)
	parking := submatches(franciscoParking, text)

	n := min(len(prices), len(areas))
	listings := make([]models.Listing, 0, n)
	for i := 0; i < n; i++ {
		area, err := ParseArea(areas[i])
		if err != nil {
			continue
		}
		price, err := ParseBRL(prices[i])
		if err != nil {
			continue
		}
		if area <= 0 || price <= 0 {
			continue
		}
		listings = append(listings, models.NewListing(
			area, parseCount(at(bedrooms, i)), 0, parseCount(at(parking, i)), price, kind, sourceName, ""))
	}
	return listings
}

var (
	mgfPrice     = regexp.MustCompile(`R\$\s*([\d.]+)`)
	mgfArea      = regexp.MustCompile(`(\d+)\s*m\s*[²2]`)
	mgfBedrooms  = regexp.MustCompile(`(?i)(\d+)\s*quarto`)
	mgfBathrooms = regexp.MustCompile(`(?i)(\d+)\s*banheir`)
	mgfParking   = regexp.MustCompile(`(?i)(\d+)\s*vaga`)
)

// Plausible monthly rent and sale price bands for a house in the neighborhood.
// MGF pages also show fees and unrelated amounts that must not be taken as prices.
const (
	minRent      = 500
	maxRent      = 20000
	minSalePrice = 50000
)

// MGFSource reads the MGF Imóveis neighborhood page
type MGFSource struct {
	source       config.Source
	neighborhood string
	fetcher      *Fetcher
	logger       *logrus.Logger
}

func (s *MGFSource) Name() string {
	return s.source.Name
}

func (s *MGFSource) pageURL(kind models.ListingKind) string {
	return fmt.Sprintf("%s/%s/casa/mg-%s-%s",
		strings.TrimRight(s.source.BaseURL, "/"), kind.String(), Slug(City), Slug(s.neighborhood))
}

func (s *MGFSource) Collect(ctx context.Context, kind models.ListingKind) ([]models.Listing, error) {
	body, err := s.fetcher.Get(ctx, s.pageURL(kind))
	if err != nil {
		return nil, err
	}
	text, err := pageText(body)
	if err != nil {
		return nil, err
	}

	listings := parseMGFText(text, kind, s.source.Name)
	s.logger.WithFields(logrus.Fields{
		"source":     s.source.Name,
		"kind":       kind.String(),
		"text_bytes": len(text),
		"listings":   len(listings),
	}).Debug("Parsed listing page")
	for i := range listings {
		listings[i].Neighborhood = s.neighborhood
	}
	return listings, nil
}

func parseMGFText(text string, kind models.ListingKind, sourceName string) []models.Listing {
	prices := submatches(mgfPrice, text)
	areas := submatches(mgfArea, text)
	bedrooms := submatches(mgfBedrooms, text)
	bathrooms := submatches(mgfBathrooms, text)
	parking := submatches(mgfParking, text)

	// a page with prices but no areas still yields its first listing
	n := min(len(prices), max(len(areas), 1))
	listings := make([]models.Listing, 0, n)
	for i := 0; i < n; i++ {
		price, err := ParseBRL(prices[i])
		if err != nil {
			continue
		}
		var area float64
		if i < len(areas) {
			area, _ = ParseArea(areas[i])
		}

		plausible := price > minSalePrice
		if kind == models.KindRent {
			plausible = price > minRent && price < maxRent
		}
		if !plausible {
			continue
		}
		listings = append(listings, models.NewListing(
			area,
			parseCount(at(bedrooms, i)),
			parseCount(at(bathrooms, i)),
			parseCount(at(parking, i)),
			price,
			kind,
			sourceName,
			"",
		))
	}
	return listings
}
