package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paydirect/internal/bootstrap"
	"paydirect/internal/config"
	cronpkg "paydirect/internal/cron"
	"paydirect/internal/middleware"
	"paydirect/internal/payment"
	"paydirect/internal/repository"
	"paydirect/internal/router"
	"paydirect/internal/worldline"
)

func main() {
	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// --- Database ---
	db, err := config.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := bootstrap.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// --- Worldline gateway ---
	wlConfig := cfg.ActiveWorldline()
	wlClient := worldline.NewClient(wlConfig)
	webhooks := payment.NewWebhookURLBuilder(cfg.Webhook.BaseURL, cfg.Webhook.Namespace)
	gateway := payment.NewGateway(wlConfig, wlClient, webhooks, logger)

	logger.Info("Worldline gateway configured",
		zap.String("mode", cfg.Worldline.Mode),
		zap.String("api_host", wlConfig.APIHost))

	// --- Repositories ---
	payments := repository.NewPaymentRepository(db)

	// --- Webhook deduper (Redis with in-memory fallback) ---
	deduper, dedupeErr := middleware.NewWebhookDeduper(
		cfg.Redis.Addr,
		cfg.Redis.Pass,
		cfg.Redis.DB,
		time.Minute,
	)
	if dedupeErr != nil {
		logger.Warn("Redis unavailable for webhook dedup, using in-memory fallback", zap.Error(dedupeErr))
	}

	// --- Echo ---
	e := echo.New()
	e.HideBanner = true

	router.Setup(e, payments, gateway, webhooks, deduper, cfg.API.Key, logger)

	// --- Cron scheduler ---
	scheduler := cronpkg.New(cfg, payments, gateway, logger)
	scheduler.Start()

	// --- Start server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting paydirect server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	// Stop cron
	ctx := scheduler.Stop()
	<-ctx.Done()

	// Stop HTTP server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
