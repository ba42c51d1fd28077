package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pooltablesquad/backoffice/internal/analytics"
	"github.com/pooltablesquad/backoffice/internal/auth"
	"github.com/pooltablesquad/backoffice/internal/config"
	"github.com/pooltablesquad/backoffice/internal/geocoding"
	"github.com/pooltablesquad/backoffice/internal/metrics"
	"github.com/pooltablesquad/backoffice/internal/pricing"
	"github.com/pooltablesquad/backoffice/internal/repository"
	"github.com/pooltablesquad/backoffice/internal/routing"
	"github.com/pooltablesquad/backoffice/internal/server"
	"github.com/pooltablesquad/backoffice/internal/service"
	"github.com/pooltablesquad/backoffice/internal/webhook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// main wires the back-office process: webhook ingestion, the dashboard API,
// the mileage calculator, and the background geocoding backfill.
func main() {
	// Cancelled on SIGINT/SIGTERM so everything shuts down gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(
		ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dtb.Close()

	repo := repository.NewRepository(dtb, logger)

	// One Maps Platform key serves both the geocoder and the route estimator.
	// The rate limits keep a burst of calculator traffic inside quota.
	rateLimit := 50
	mapsClient, err := geocoding.NewClient(cfg.MapsAPIKey, rateLimit)
	if err != nil {
		log.Fatalf("Failed to create Google Maps client: %v", err)
	}
	geocoder := geocoding.NewGoogleProvider(mapsClient, logger)
	router := routing.NewGoogleEstimator(cfg.MapsAPIKey, rateLimit, logger)

	calculator := pricing.NewCalculator(logger, repo, geocoder, router, appMetrics)

	webhookHandler := webhook.NewHandler(logger, repo, appMetrics)
	authHandler := auth.NewHandler(logger, repo, cfg.JWTSecret, cfg.Env == config.EnvProduction)
	forwarder := analytics.NewForwarder(cfg.MeasurementID, cfg.AnalyticsKey, logger)

	backfillWorkers := 4
	backfillInterval := 5 * time.Minute
	backfill := service.NewBackfillService(logger, repo, geocoder, appMetrics, backfillWorkers, backfillInterval)

	srv := server.New(logger, cfg, repo, calculator, appMetrics, webhookHandler, authHandler, forwarder, reg)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go backfill.Run(ctx)

	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", "port", cfg.Port)
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "HTTP server failed", "error", serveErr)
			stop()
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	<-ctx.Done()

	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP server cleanly", "error", err)
	}

	logger.Info("Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case config.EnvLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case config.EnvDevelopment:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case config.EnvProduction:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelWarn,
			}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelError,
			}),
		)

		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return logger
}
