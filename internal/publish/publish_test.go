package publish

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aluguelcompra/server/internal/models"
	"aluguelcompra/server/internal/report"
	"aluguelcompra/server/internal/simulation"
)

func testPayload(t *testing.T, now time.Time) report.Payload {
	t.Helper()
	result, err := simulation.Simulate(simulation.Params{
		Price:                     500000,
		InitialRent:               2000,
		DownPaymentFraction:       0.30,
		AnnualFinancingRate:       0.10,
		ExtraAmortizationFraction: 0.5,
	})
	require.NoError(t, err)

	listings := []models.Listing{
		models.NewListing(180, 3, 2, 2, 650000, models.KindSale, "Ala Imóveis", ""),
	}
	return report.NewPayload(listings, result, now)
}

func TestPublisher_Publish(t *testing.T) {
	dir := t.TempDir()
	p := NewPublisher(dir, logrus.New())

	path, err := p.Publish(testPayload(t, time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "2026-03-14.json"), path)
	assert.FileExists(t, path)

	dated, err := os.ReadFile(path)
	require.NoError(t, err)
	latest, err := os.ReadFile(filepath.Join(dir, "latest.json"))
	require.NoError(t, err)
	assert.Equal(t, dated, latest)
	assert.Contains(t, string(dated), "Ala Imóveis")

	history, err := p.History()
	require.NoError(t, err)
	assert.Equal(t, []HistoryEntry{{Date: "2026-03-14", File: "data/2026-03-14.json"}}, history)
}

func TestPublisher_HistoryNewestFirstAndRerunReplaces(t *testing.T) {
	dir := t.TempDir()
	p := NewPublisher(dir, logrus.New())

	day1 := time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	_, err := p.Publish(testPayload(t, day1))
	require.NoError(t, err)
	_, err = p.Publish(testPayload(t, day2))
	require.NoError(t, err)
	// re-run of the first day
	_, err = p.Publish(testPayload(t, day1.Add(3*time.Hour)))
	require.NoError(t, err)

	history, err := p.History()
	require.NoError(t, err)
	assert.Equal(t, []HistoryEntry{
		{Date: "2026-03-14", File: "data/2026-03-14.json"},
		{Date: "2026-03-15", File: "data/2026-03-15.json"},
	}, history)

	latest, err := p.Latest()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", latest.Date)
	assert.True(t, latest.GeneratedAt.Equal(day1.Add(3*time.Hour)))
}

func TestPublisher_CorruptHistoryIsReset(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.json"), []byte("{not json"), 0644))
	p := NewPublisher(dir, logrus.New())

	_, err := p.Publish(testPayload(t, time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	history, err := p.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "2026-03-14", history[0].Date)
}

func TestPublisher_LatestRoundTripsSimulation(t *testing.T) {
	dir := t.TempDir()
	p := NewPublisher(dir, logrus.New())
	payload := testPayload(t, time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC))

	_, err := p.Publish(payload)
	require.NoError(t, err)

	latest, err := p.Latest()
	require.NoError(t, err)
	assert.Equal(t, payload.Simulation, latest.Simulation)
	assert.Equal(t, payload.Summary, latest.Summary)

	restored, err := report.FromExport(latest.Simulation)
	require.NoError(t, err)
	assert.Equal(t, simulation.ScenarioBuyWithExtra, restored.Winner().Scenario)
}

func TestPublisher_Errors(t *testing.T) {
	p := NewPublisher(t.TempDir(), nil)

	_, err := p.Publish(report.Payload{})
	assert.Error(t, err)

	_, err = p.Latest()
	assert.Error(t, err)

	history, err := p.History()
	require.NoError(t, err)
	assert.Empty(t, history)
}
