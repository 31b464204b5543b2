package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"aluguelcompra/server/internal/report"
)

const (
	dataDir     = "data"
	latestFile  = "latest.json"
	historyFile = "history.json"
)

// HistoryEntry points at one dated snapshot, relative to the docs directory
type HistoryEntry struct {
	Date string `json:"date"`
	File string `json:"file"`
}

// Publisher maintains the static snapshot tree served to the dashboard:
// data/YYYY-MM-DD.json, latest.json and history.json (newest first).
type Publisher struct {
	docsDir string
	logger  *logrus.Logger
}

func NewPublisher(docsDir string, logger *logrus.Logger) *Publisher {
	if logger == nil {
		logger = logrus.New()
	}
	return &Publisher{docsDir: docsDir, logger: logger}
}

func (p *Publisher) DocsDir() string {
	return p.docsDir
}

// Publish writes the payload as the snapshot of its date and as latest.json,
// then records the date in history.json. Publishing the same date again
// replaces the earlier snapshot. It returns the path of the dated file.
func (p *Publisher) Publish(payload report.Payload) (string, error) {
	if payload.Date == "" {
		return "", errors.New("payload has no date")
	}

	data, err := report.EncodeJSON(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(p.docsDir, dataDir), 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	relPath := dataDir + "/" + payload.Date + ".json"
	datedPath := filepath.Join(p.docsDir, dataDir, payload.Date+".json")
	if err := writeFile(datedPath, data); err != nil {
		return "", err
	}
	p.logger.WithField("path", datedPath).Info("Saved snapshot")

	latestPath := filepath.Join(p.docsDir, latestFile)
	if err := writeFile(latestPath, data); err != nil {
		return "", err
	}
	p.logger.WithField("path", latestPath).Info("Updated latest snapshot")

	history := p.loadHistory()
	updated := make([]HistoryEntry, 0, len(history)+1)
	updated = append(updated, HistoryEntry{Date: payload.Date, File: relPath})
	for _, h := range history {
		if h.Date != payload.Date {
			updated = append(updated, h)
		}
	}

	encoded, err := report.EncodeJSON(updated)
	if err != nil {
		return "", fmt.Errorf("failed to encode history: %w", err)
	}
	historyPath := filepath.Join(p.docsDir, historyFile)
	if err := writeFile(historyPath, encoded); err != nil {
		return "", err
	}
	p.logger.WithFields(logrus.Fields{
		"path":    historyPath,
		"entries": len(updated),
	}).Info("Updated history")

	return datedPath, nil
}

// History returns the published dates, newest first
func (p *Publisher) History() ([]HistoryEntry, error) {
	data, err := os.ReadFile(filepath.Join(p.docsDir, historyFile))
	if errors.Is(err, fs.ErrNotExist) {
		return []HistoryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var history []HistoryEntry
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return history, nil
}

// Latest reads back the most recent snapshot
func (p *Publisher) Latest() (*report.Payload, error) {
	data, err := os.ReadFile(filepath.Join(p.docsDir, latestFile))
	if err != nil {
		return nil, err
	}

	var payload report.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse latest snapshot: %w", err)
	}
	return &payload, nil
}

// loadHistory starts over when history.json is missing or unreadable
func (p *Publisher) loadHistory() []HistoryEntry {
	history, err := p.History()
	if err != nil {
		p.logger.WithError(err).Warn("Discarding unreadable history")
		return nil
	}
	return history
}

// writeFile replaces path through a temporary file in the same directory
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
