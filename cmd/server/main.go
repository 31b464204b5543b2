package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"aluguelcompra/server/config"
	"aluguelcompra/server/internal/api"
	"aluguelcompra/server/internal/publish"
	"aluguelcompra/server/internal/rates"
	"aluguelcompra/server/internal/runner"
	"aluguelcompra/server/internal/scheduler"
	"aluguelcompra/server/internal/scraping"
	"aluguelcompra/server/internal/simulation"
	"aluguelcompra/server/internal/telegram"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	timeline, err := rates.Load(cfg.Simulation.RatesFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load rate scenario")
	}
	engine, err := simulation.NewEngine(timeline)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize simulation engine")
	}

	params := simulation.ParamsFromConfig(cfg)
	if err := params.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid default simulation parameters")
	}

	manager, err := scraping.NewManager(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize scrapers")
	}
	logger.WithField("sources", manager.SourceNames()).Info("Scrapers initialized")

	notifier := telegram.NewServiceFromConfig(cfg, logger)
	if !notifier.Enabled() {
		logger.Info("Telegram is not configured, notifications disabled")
	}

	opts := []runner.Option{
		runner.WithCollector(manager),
		runner.WithNotifier(notifier),
	}

	var publisher *publish.Publisher
	if cfg.Publish.DocsDir != "" {
		publisher = publish.NewPublisher(cfg.Publish.DocsDir, logger)
		opts = append(opts, runner.WithPublisher(publisher))
		logger.Infof("Publishing snapshots to: %s", cfg.Publish.DocsDir)
	}

	pipeline := runner.New(engine, params, logger, opts...)

	sched := scheduler.NewScheduler(func(ctx context.Context) error {
		_, err := pipeline.Run(ctx)
		return err
	}, cfg.Server.ScheduleHour, cfg.Server.RunOnStartup, logger)
	sched.Start()

	handler := api.NewHandler(api.Services{
		Engine:    engine,
		Runner:    pipeline,
		Scheduler: sched,
		Publisher: publisher,
		Telegram:  notifier,
	}, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, handler, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	sched.Stop()
	logger.Info("Server stopped")
}
