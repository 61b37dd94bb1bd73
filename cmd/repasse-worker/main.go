package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"repasse/internal/amqp"
	"repasse/internal/cache"
	"repasse/internal/config"
	applog "repasse/internal/log"
	"repasse/internal/report"
	"repasse/internal/services"
	"repasse/internal/storage"
	"repasse/internal/upstream"
	"repasse/internal/worker"
)

func main() {
	// .env is for local development; absence is fine in containers
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting repasse-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SQLiteDBPath), 0o755); err != nil {
		logger.Error("Failed to create database directory", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
		logger.Error("Failed to run migrations", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	db, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer db.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	upstreamClient := upstream.NewClient(
		cfg.UpstreamBaseURL,
		cfg.UpstreamTimeout,
		logger,
		upstream.WithRetries(cfg.UpstreamRetries),
		upstream.WithCache(cache.NewLRUCache[upstream.FinancingData](cfg.CacheSize, cfg.CacheTTL)),
	)

	svc := services.NewReportService(
		upstreamClient,
		storage.NewRepository(db),
		report.NewEngine(logger),
		nil, // the worker consumes requests, it never publishes them
		cfg.RenderTimeout,
		logger,
	)

	w := worker.New(svc, amqpClient, cfg.ReportCacheDir, cfg.PrerenderTTL, cfg.SweepInterval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Worker running", "queue", cfg.AMQPQueue, "cache_dir", cfg.ReportCacheDir)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped")
}
