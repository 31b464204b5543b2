package runner

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"aluguelcompra/server/internal/models"
	"aluguelcompra/server/internal/publish"
	"aluguelcompra/server/internal/report"
	"aluguelcompra/server/internal/simulation"
)

// Collector gathers the current listings of the neighborhood
type Collector interface {
	CollectAll(ctx context.Context) []models.Listing
}

// Notifier announces a finished run, e.g. to a chat
type Notifier interface {
	Enabled() bool
	NotifyRun(s *Snapshot) error
}

// Snapshot is the outcome of one collect, simulate and publish run
type Snapshot struct {
	Listings      []models.Listing
	Result        *simulation.Result
	GeneratedAt   time.Time
	PublishedPath string
}

// Report wraps the snapshot for rendering
func (s *Snapshot) Report() *report.Report {
	return report.New(s.Listings, s.Result, s.GeneratedAt)
}

// Runner executes the full pipeline: collect listings, simulate the
// configured scenario, publish the snapshot and notify. Collector, publisher
// and notifier are optional.
type Runner struct {
	logger    *logrus.Logger
	collector Collector
	engine    *simulation.Engine
	publisher *publish.Publisher
	notifier  Notifier
	params    simulation.Params
	now       func() time.Time

	mu     sync.RWMutex
	latest *Snapshot
}

type Option func(*Runner)

func WithCollector(c Collector) Option {
	return func(r *Runner) { r.collector = c }
}

func WithPublisher(p *publish.Publisher) Option {
	return func(r *Runner) { r.publisher = p }
}

func WithNotifier(n Notifier) Option {
	return func(r *Runner) { r.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

func New(engine *simulation.Engine, params simulation.Params, logger *logrus.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	r := &Runner{
		logger: logger,
		engine: engine,
		params: params,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Params returns the scenario simulated on each run
func (r *Runner) Params() simulation.Params {
	return r.params
}

// Run executes the pipeline once. Collection failures never fail the run;
// an invalid scenario or a publishing error does. Notification errors are
// only logged.
func (r *Runner) Run(ctx context.Context) (*Snapshot, error) {
	started := r.now()

	var listings []models.Listing
	if r.collector != nil {
		listings = r.collector.CollectAll(ctx)
	} else {
		r.logger.Info("No collector configured, skipping listing collection")
	}

	result, err := r.engine.Simulate(r.params)
	if err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}

	snapshot := &Snapshot{
		Listings:    listings,
		Result:      result,
		GeneratedAt: r.now(),
	}

	if r.publisher != nil {
		path, err := r.publisher.Publish(report.NewPayload(listings, result, snapshot.GeneratedAt))
		if err != nil {
			return nil, fmt.Errorf("failed to publish snapshot: %w", err)
		}
		snapshot.PublishedPath = path
	}

	r.mu.Lock()
	r.latest = snapshot
	r.mu.Unlock()

	if r.notifier != nil && r.notifier.Enabled() {
		if err := r.notifier.NotifyRun(snapshot); err != nil {
			r.logger.WithError(err).Error("Failed to send run notification")
		}
	}

	r.logger.WithFields(logrus.Fields{
		"listings": len(listings),
		"winner":   result.Winner().Scenario.String(),
		"duration": r.now().Sub(started).String(),
	}).Info("Run completed")
	return snapshot, nil
}

// Latest returns the last successful snapshot, or nil before the first run
func (r *Runner) Latest() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}
