package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"aluguelcompra/server/internal/models"
	"aluguelcompra/server/internal/publish"
	"aluguelcompra/server/internal/report"
	"aluguelcompra/server/internal/runner"
	"aluguelcompra/server/internal/scheduler"
	"aluguelcompra/server/internal/simulation"
	"aluguelcompra/server/internal/telegram"
)

// Services are the components the API exposes. Scheduler, Publisher and
// Telegram may be nil when the feature is not configured.
type Services struct {
	Engine    *simulation.Engine
	Runner    *runner.Runner
	Scheduler *scheduler.Scheduler
	Publisher *publish.Publisher
	Telegram  *telegram.Service
}

type Handler struct {
	services Services
	logger   *logrus.Logger
}

// SimulationQuery holds the optional scenario overrides of a request
type SimulationQuery struct {
	Price             float64 `form:"preco"`
	Rent              float64 `form:"aluguel"`
	DownPayment       float64 `form:"entrada"`
	FinancingRate     float64 `form:"juros"`
	ExtraAmortization float64 `form:"amortizacao"`
}

func NewHandler(services Services, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		services: services,
		logger:   logger,
	}
}

// bindParams starts from the runner's scenario and applies the query overrides
func (h *Handler) bindParams(c *gin.Context) (simulation.Params, error) {
	defaults := h.services.Runner.Params()
	query := SimulationQuery{
		Price:             defaults.Price,
		Rent:              defaults.InitialRent,
		DownPayment:       defaults.DownPaymentFraction,
		FinancingRate:     defaults.AnnualFinancingRate,
		ExtraAmortization: defaults.ExtraAmortizationFraction,
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		return simulation.Params{}, err
	}

	return simulation.Params{
		Price:                     query.Price,
		InitialRent:               query.Rent,
		DownPaymentFraction:       query.DownPayment,
		AnnualFinancingRate:       query.FinancingRate,
		ExtraAmortizationFraction: query.ExtraAmortization,
	}, nil
}

// simulate answers 400 itself when the request is invalid
func (h *Handler) simulate(c *gin.Context) (*simulation.Result, bool) {
	params, err := h.bindParams(c)
	if err != nil {
		h.logger.WithError(err).Error("Failed to parse simulation parameters")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid simulation parameters"})
		return nil, false
	}

	result, err := h.services.Engine.Simulate(params)
	if err != nil {
		var verr *simulation.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
			return nil, false
		}
		h.logger.WithError(err).Error("Simulation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Simulation failed"})
		return nil, false
	}
	return result, true
}

func (h *Handler) latestListings() []models.Listing {
	if latest := h.services.Runner.Latest(); latest != nil {
		return latest.Listings
	}
	return nil
}

func (h *Handler) GetSimulation(c *gin.Context) {
	result, ok := h.simulate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report.ToExport(result))
}

func (h *Handler) GetReport(c *gin.Context) {
	format, err := report.ParseFormat(c.DefaultQuery("format", "texto"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, ok := h.simulate(c)
	if !ok {
		return
	}

	rep := report.New(h.latestListings(), result, timeNow())
	data, err := rep.Render(format)
	if err != nil {
		h.logger.WithError(err).WithField("format", format.String()).Error("Failed to render report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report"})
		return
	}

	if format == report.FormatCSV || format == report.FormatPDF {
		filename := fmt.Sprintf("relatorio-%s.%s", rep.GeneratedAt.Format(report.DateLayout), format.String())
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	c.Data(http.StatusOK, format.ContentType(), data)
}

func (h *Handler) GetListings(c *gin.Context) {
	latest := h.services.Runner.Latest()
	if latest == nil {
		c.JSON(http.StatusOK, gin.H{
			"generated_at": nil,
			"imoveis":      []models.ListingView{},
		})
		return
	}

	views := make([]models.ListingView, len(latest.Listings))
	for i, l := range latest.Listings {
		views[i] = l.View()
	}
	c.JSON(http.StatusOK, gin.H{
		"generated_at":    latest.GeneratedAt,
		"imoveis":         views,
		"mercado_venda":   models.ComputeMarketStats(models.FilterSales(latest.Listings)),
		"mercado_aluguel": models.ComputeMarketStats(models.FilterKind(latest.Listings, models.KindRent)),
	})
}

func (h *Handler) GetRates(c *gin.Context) {
	timeline := h.services.Engine.Timeline()
	policy, inflation := timeline.Averages()
	c.JSON(http.StatusOK, gin.H{
		"periodos":    timeline,
		"selic_media": policy,
		"ipca_medio":  inflation,
	})
}

func (h *Handler) GetHistory(c *gin.Context) {
	if h.services.Publisher == nil {
		c.JSON(http.StatusOK, []publish.HistoryEntry{})
		return
	}

	history, err := h.services.Publisher.History()
	if err != nil {
		h.logger.WithError(err).Error("Failed to read history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read history"})
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) GetLatest(c *gin.Context) {
	if h.services.Publisher == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Publishing is not configured"})
		return
	}

	payload, err := h.services.Publisher.Latest()
	if err != nil {
		h.logger.WithError(err).Warn("No published snapshot available")
		c.JSON(http.StatusNotFound, gin.H{"error": "No snapshot published yet"})
		return
	}
	c.JSON(http.StatusOK, payload)
}

// RunCollection triggers a full collect, simulate and publish run and waits for it
func (h *Handler) RunCollection(c *gin.Context) {
	if h.services.Scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheduler is not running"})
		return
	}

	err := h.services.Scheduler.RunNow(c.Request.Context())
	if errors.Is(err, scheduler.ErrJobRunning) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to run collection")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run collection"})
		return
	}

	latest := h.services.Runner.Latest()
	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"imoveis":      len(latest.Listings),
		"generated_at": latest.GeneratedAt,
		"vencedor":     latest.Result.Winner().Scenario.String(),
		"arquivo":      latest.PublishedPath,
	})
}

// TestTelegram sends the digest of the latest run, or of the default scenario
// without listings when nothing ran yet.
func (h *Handler) TestTelegram(c *gin.Context) {
	if h.services.Telegram == nil || !h.services.Telegram.Enabled() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Telegram is not configured"})
		return
	}

	snapshot := h.services.Runner.Latest()
	if snapshot == nil {
		result, err := h.services.Engine.Simulate(h.services.Runner.Params())
		if err != nil {
			h.logger.WithError(err).Error("Simulation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Simulation failed"})
			return
		}
		snapshot = &runner.Snapshot{Result: result, GeneratedAt: timeNow()}
	}

	if err := h.services.Telegram.NotifyRun(snapshot); err != nil {
		h.logger.WithError(err).Error("Failed to send test message")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Telegram message sent"})
}
