package scraping

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"aluguelcompra/server/config"
	"aluguelcompra/server/internal/models"
)

// collectedKinds is the order in which each source is queried
var collectedKinds = []models.ListingKind{models.KindRent, models.KindSale}

// Manager runs every configured source, one request at a time
type Manager struct {
	logger  *logrus.Logger
	sources []Source
}

// NewManager builds the sources listed in config.SupportedSources
func NewManager(cfg *config.Config, logger *logrus.Logger) (*Manager, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	fetcher := NewFetcher(logger, OptionsFromConfig(cfg))
	sources := make([]Source, 0, len(config.SupportedSources))
	for _, src := range config.SupportedSources {
		s, err := NewSource(src, cfg.Scraping.Neighborhood, fetcher, logger)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return NewManagerWithSources(logger, sources...), nil
}

func NewManagerWithSources(logger *logrus.Logger, sources ...Source) *Manager {
	if logger == nil {
		logger = logrus.New()
	}
	return &Manager{logger: logger, sources: sources}
}

// SourceNames lists the sources in collection order
func (m *Manager) SourceNames() []string {
	names := make([]string, len(m.sources))
	for i, s := range m.sources {
		names[i] = s.Name()
	}
	return names
}

// CollectAll queries rentals then sales from every source. A failing source
// is logged and skipped; the result is whatever the others returned. A
// cancelled context stops the run early with the listings gathered so far.
func (m *Manager) CollectAll(ctx context.Context) []models.Listing {
	m.logger.WithField("sources", len(m.sources)).Info("Starting listing collection")

	var all []models.Listing
	for _, kind := range collectedKinds {
		for _, s := range m.sources {
			if ctx.Err() != nil {
				m.logger.WithError(ctx.Err()).Warn("Listing collection cancelled")
				return all
			}

			listings, err := s.Collect(ctx, kind)
			if err != nil {
				m.logger.WithError(err).WithFields(logrus.Fields{
					"source": s.Name(),
					"kind":   kind.String(),
				}).Error("Failed to collect listings")
				continue
			}

			m.logger.WithFields(logrus.Fields{
				"source": s.Name(),
				"kind":   kind.String(),
				"count":  len(listings),
			}).Info("Collected listings")
			all = append(all, listings...)
		}
	}

	m.logger.WithFields(logrus.Fields{
		"total": len(all),
		"rent":  len(models.FilterKind(all, models.KindRent)),
		"sale":  len(models.FilterKind(all, models.KindSale)),
	}).Info("Listing collection finished")
	return all
}
