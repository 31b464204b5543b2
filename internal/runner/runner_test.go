package runner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aluguelcompra/server/internal/models"
	"aluguelcompra/server/internal/publish"
	"aluguelcompra/server/internal/rates"
	"aluguelcompra/server/internal/simulation"
)

type staticCollector []models.Listing

func (c staticCollector) CollectAll(ctx context.Context) []models.Listing {
	return c
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *MockNotifier) NotifyRun(s *Snapshot) error {
	return m.Called(s).Error(0)
}

var fixedNow = time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)

func referenceParams() simulation.Params {
	return simulation.Params{
		Price:                     500000,
		InitialRent:               2000,
		DownPaymentFraction:       0.30,
		AnnualFinancingRate:       0.10,
		ExtraAmortizationFraction: 0.5,
	}
}

func testEngine(t *testing.T) *simulation.Engine {
	t.Helper()
	engine, err := simulation.NewEngine(rates.Default())
	require.NoError(t, err)
	return engine
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	listings := staticCollector{
		models.NewListing(180, 3, 2, 2, 650000, models.KindSale, "Ala Imóveis", ""),
	}
	notifier := &MockNotifier{}
	notifier.On("Enabled").Return(true)
	notifier.On("NotifyRun", mock.AnythingOfType("*runner.Snapshot")).Return(errors.New("telegram down")).Once()

	r := New(testEngine(t), referenceParams(), logrus.New(),
		WithCollector(listings),
		WithPublisher(publish.NewPublisher(dir, logrus.New())),
		WithNotifier(notifier),
		WithClock(func() time.Time { return fixedNow }),
	)
	assert.Nil(t, r.Latest())

	snapshot, err := r.Run(context.Background())

	// a failed notification does not fail the run
	require.NoError(t, err)
	assert.Len(t, snapshot.Listings, 1)
	assert.Equal(t, 121, snapshot.Result.Summary.PayoffMonths)
	assert.Equal(t, fixedNow, snapshot.GeneratedAt)
	assert.Equal(t, filepath.Join(dir, "data", "2026-03-14.json"), snapshot.PublishedPath)
	assert.Same(t, snapshot, r.Latest())
	notifier.AssertExpectations(t)
}

func TestRunner_RunWithoutOptionalParts(t *testing.T) {
	r := New(testEngine(t), referenceParams(), nil)

	snapshot, err := r.Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, snapshot.Listings)
	assert.Empty(t, snapshot.PublishedPath)
	assert.Equal(t, simulation.ScenarioBuyWithExtra, snapshot.Result.Winner().Scenario)
}

func TestRunner_DisabledNotifierIsSkipped(t *testing.T) {
	notifier := &MockNotifier{}
	notifier.On("Enabled").Return(false)

	_, err := New(testEngine(t), referenceParams(), logrus.New(), WithNotifier(notifier)).Run(context.Background())

	require.NoError(t, err)
	notifier.AssertNotCalled(t, "NotifyRun", mock.Anything)
}

func TestRunner_InvalidParamsFail(t *testing.T) {
	params := referenceParams()
	params.Price = 0

	r := New(testEngine(t), params, logrus.New())
	_, err := r.Run(context.Background())

	var verr *simulation.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "price", verr.Field)
	assert.Nil(t, r.Latest())
}

func TestSnapshot_Report(t *testing.T) {
	snapshot, err := New(testEngine(t), referenceParams(), logrus.New()).Run(context.Background())
	require.NoError(t, err)

	text := snapshot.Report().Text()
	assert.Contains(t, text, "RANKING PATRIMONIAL")
}
