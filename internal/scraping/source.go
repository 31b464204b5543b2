package scraping

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"aluguelcompra/server/config"
	"aluguelcompra/server/internal/models"
)

// City is the municipality every source is queried for
const City = "Divinópolis"

// Source collects house listings of one kind from a single listing site
type Source interface {
	Name() string
	Collect(ctx context.Context, kind models.ListingKind) ([]models.Listing, error)
}

// NewSource builds the parser matching the source's platform
func NewSource(src config.Source, neighborhood string, fetcher *Fetcher, logger *logrus.Logger) (Source, error) {
	if logger == nil {
		logger = logrus.New()
	}
	switch src.Platform {
	case "ajax":
		return &AjaxSource{source: src, neighborhood: neighborhood, fetcher: fetcher, logger: logger}, nil
	case "francisco":
		return &FranciscoSource{source: src, neighborhood: neighborhood, fetcher: fetcher, logger: logger}, nil
	case "mgf":
		return &MGFSource{source: src, neighborhood: neighborhood, fetcher: fetcher, logger: logger}, nil
	}
	return nil, fmt.Errorf("unsupported platform %q for source %s", src.Platform, src.Name)
}
