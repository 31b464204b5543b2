package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"aluguelcompra/server/config"
	"aluguelcompra/server/internal/models"
	"aluguelcompra/server/internal/runner"
)

const defaultAPIBase = "https://api.telegram.org"

var printer = message.NewPrinter(language.BrazilianPortuguese)

type Service struct {
	logger   *logrus.Logger
	client   *http.Client
	botToken string
	chatID   string
	apiBase  string
}

func NewService(logger *logrus.Logger, botToken, chatID string) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		logger:   logger,
		client:   &http.Client{Timeout: 10 * time.Second},
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
	}
}

// NewServiceFromConfig reads the bot token and chat id from the configuration
func NewServiceFromConfig(cfg *config.Config, logger *logrus.Logger) *Service {
	return NewService(logger, cfg.Telegram.BotToken, cfg.Telegram.ChatID)
}

// SetAPIBase points the service at another Bot API endpoint
func (s *Service) SetAPIBase(base string) {
	s.apiBase = base
}

// Enabled reports whether both the bot token and the chat id are configured
func (s *Service) Enabled() bool {
	return s.botToken != "" && s.chatID != ""
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(text string) error {
	if s.botToken == "" {
		return errors.New("Telegram bot token is not configured")
	}
	if s.chatID == "" {
		return errors.New("Telegram chat ID is not configured")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(s.apiBase, "/"), s.botToken)
	payload := map[string]interface{}{
		"chat_id":    s.chatID,
		"text":       text,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	s.logger.WithField("chat_id", s.chatID).Info("Telegram message sent")
	return nil
}

// NotifyRun sends the ranking digest of a finished run
func (s *Service) NotifyRun(snapshot *runner.Snapshot) error {
	return s.SendMessage(FormatDigest(snapshot))
}

func brl(v float64) string {
	return printer.Sprintf("R$ %.0f", v)
}

// FormatDigest renders the HTML chat message summarizing a run
func FormatDigest(snapshot *runner.Snapshot) string {
	res := snapshot.Result
	sum := res.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "<b>🏠 Aluguel vs Compra - %s</b>\n", html.EscapeString(models.DefaultNeighborhood))
	fmt.Fprintf(&b, "%s\n\n", snapshot.GeneratedAt.Format("02/01/2006 15:04"))

	sales := models.ComputeMarketStats(models.FilterSales(snapshot.Listings))
	rentals := models.ComputeMarketStats(models.FilterKind(snapshot.Listings, models.KindRent))
	fmt.Fprintf(&b, "📊 %d imóveis coletados\n", len(snapshot.Listings))
	if sales.Count > 0 {
		fmt.Fprintf(&b, "💰 Mediana venda: %s (%d)\n", brl(sales.MedianPrice), sales.Count)
	}
	if rentals.Count > 0 {
		fmt.Fprintf(&b, "🔑 Mediana aluguel: %s/mês (%d)\n", brl(rentals.MedianPrice), rentals.Count)
	}

	fmt.Fprintf(&b, "\n🏦 Parcela: %s/mês", brl(sum.Installment))
	if sum.PaidOff {
		fmt.Fprintf(&b, " | quitado em %d meses", sum.PayoffMonths)
	}
	b.WriteString("\n")
	if sum.CrossoverYear > 0 {
		fmt.Fprintf(&b, "📈 Aluguel ultrapassa a parcela no ano %d\n", sum.CrossoverYear)
	}

	fmt.Fprintf(&b, "\n<b>🏆 Ranking em %d anos</b>\n", len(res.Years))
	for i, rs := range res.Ranking {
		fmt.Fprintf(&b, "%dº %s: %s\n", i+1, html.EscapeString(rs.Scenario.String()), brl(rs.Wealth))
	}
	return b.String()
}
