package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"repasse/internal/amqp"
	"repasse/internal/cache"
	"repasse/internal/config"
	apphttp "repasse/internal/http"
	applog "repasse/internal/log"
	"repasse/internal/report"
	"repasse/internal/services"
	"repasse/internal/storage"
	"repasse/internal/upstream"
)

func main() {
	// .env is for local development; absence is fine in containers
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

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
	repo := storage.NewRepository(db)

	upstreamClient := upstream.NewClient(
		cfg.UpstreamBaseURL,
		cfg.UpstreamTimeout,
		logger,
		upstream.WithRetries(cfg.UpstreamRetries),
		upstream.WithCache(cache.NewLRUCache[upstream.FinancingData](cfg.CacheSize, cfg.CacheTTL)),
	)

	engine := report.NewEngine(logger)

	// the broker is optional: without it overrides simply skip the
	// pre-render queue
	var publisher services.RequestPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, pre-render queue disabled", "error", err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	svc := services.NewReportService(upstreamClient, repo, engine, publisher, cfg.RenderTimeout, logger)
	srv := apphttp.NewServer(":"+cfg.Port, svc, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting repasse server", "port", cfg.Port, "upstream", cfg.UpstreamBaseURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped")
}
