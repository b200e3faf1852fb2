package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitalstack/healthsync/internal/api"
	"github.com/vitalstack/healthsync/internal/clock"
	"github.com/vitalstack/healthsync/internal/config"
	"github.com/vitalstack/healthsync/internal/scheduler"
	"github.com/vitalstack/healthsync/internal/storage"
	"github.com/vitalstack/healthsync/internal/summary"
	"github.com/vitalstack/healthsync/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting HealthSync API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("provider", cfg.ProviderType),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := storage.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Health data provider
	prov, err := sync.NewHealthProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create health provider: %w", err)
	}

	// Sync service
	clk := clock.NewReal()
	coord := sync.NewCoordinator(clk, sync.Intervals{
		Hourly: cfg.HourlyInterval,
		Daily:  cfg.DailyInterval,
		Weekly: cfg.WeeklyInterval,
	})
	syncService := sync.NewService(prov, coord, clk, logger, sync.RetryConfig{
		Delay:      cfg.RetryDelay,
		MaxRetries: cfg.RetryMax,
	})

	// Daily summary scheduler
	store := storage.NewPGStore(pool)
	submitter := summary.NewClient(cfg.SummaryEndpoint)
	sched := scheduler.New(syncService, submitter, store, clk, logger, cfg.UserID)
	sched.Start(ctx)
	defer sched.Stop()

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		SyncService: syncService,
		Scheduler:   sched,
		DB:          pool,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
