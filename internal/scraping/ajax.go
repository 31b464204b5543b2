package scraping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"aluguelcompra/server/config"
	"aluguelcompra/server/internal/models"
)

const ajaxPath = "/imoveis/ajax/"

// looseString accepts JSON strings, numbers and null
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	*s = looseString(data)
	return nil
}

type ajaxItem struct {
	Type      looseString `json:"tipo"`
	Value     looseString `json:"valor"`
	Area      looseString `json:"areaprincipal"`
	Bedrooms  looseString `json:"numeroquartos"`
	Bathrooms looseString `json:"numerobanhos"`
	Parking   looseString `json:"numerovagas"`
	Address   looseString `json:"endereco"`
}

type ajaxResponse struct {
	List *[]ajaxItem `json:"lista"`
}

// AjaxSource queries the JSON listing endpoint shared by agencies running the
// same site platform (Ala Imóveis, Achei Imobiliária).
type AjaxSource struct {
	source       config.Source
	neighborhood string
	fetcher      *Fetcher
	logger       *logrus.Logger
}

func (s *AjaxSource) Name() string {
	return s.source.Name
}

func (s *AjaxSource) Collect(ctx context.Context, kind models.ListingKind) ([]models.Listing, error) {
	endpoint := strings.TrimRight(s.source.BaseURL, "/") + ajaxPath
	body, err := s.fetcher.PostForm(ctx, endpoint, ajaxForm(kind, s.source.NeighborhoodCodes))
	if err != nil {
		return nil, err
	}

	listings, err := parseAjaxListings(body, kind, s.source.Name, s.logger)
	if err != nil {
		return nil, err
	}
	for i := range listings {
		listings[i].Neighborhood = s.neighborhood
	}
	return listings, nil
}

// ajaxForm reproduces the search widget: all filters open except purpose and districts
func ajaxForm(kind models.ListingKind, neighborhoodCodes string) url.Values {
	form := url.Values{}
	form.Set("imovel[finalidade]", kind.String())
	form.Set("imovel[codigosbairros]", neighborhoodCodes)
	for _, field := range []string{
		"numeroquartos", "numerovagas", "numerobanhos", "numerosuite",
		"valorde", "valorate", "areade", "areaate",
		"codigocondominio", "destaque", "codigocidade", "codigoregiao",
	} {
		form.Set("imovel["+field+"]", "0")
	}
	form.Set("imovel[numeropagina]", "1")
	form.Set("imovel[pagina]", "1")
	form.Set("imovel[numeroregistros]", "50")
	form.Set("imovel[ordenacao]", "valordesc")
	form.Set("imovel[opcaoimovel]", "4")
	return form
}

// parseAjaxListings keeps the houses of a listing response. Items with an
// unreadable price are skipped.
func parseAjaxListings(body []byte, kind models.ListingKind, sourceName string, logger *logrus.Logger) ([]models.Listing, error) {
	var resp ajaxResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse listing response: %w", err)
	}
	if resp.List == nil {
		return nil, errors.New("listing response has no lista field")
	}

	listings := make([]models.Listing, 0, len(*resp.List))
	for _, item := range *resp.List {
		if !strings.Contains(string(item.Type), "Casa") {
			continue
		}

		price, err := ParseBRL(string(item.Value))
		if err != nil {
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"source": sourceName,
					"value":  string(item.Value),
				}).Debug("Skipping listing without price")
			}
			continue
		}

		var area float64
		if item.Area != "" {
			area, _ = ParseArea(string(item.Area))
		}

		listings = append(listings, models.NewListing(
			area,
			parseCount(string(item.Bedrooms)),
			parseCount(string(item.Bathrooms)),
			parseCount(string(item.Parking)),
			price,
			kind,
			sourceName,
			strings.TrimSpace(string(item.Address)),
		))
	}
	return listings, nil
}
