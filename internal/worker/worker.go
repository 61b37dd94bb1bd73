// Package worker pre-renders reports requested over the queue and
// keeps a bounded on-disk cache of them for fast download.
package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"repasse/internal/amqp"
	"repasse/internal/log"
	"repasse/internal/report"
	"repasse/internal/services"
)

// ReportGenerator renders one report end to end.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, params services.GenerateParams) ([]byte, string, error)
}

// RequestConsumer delivers queued pre-render requests.
type RequestConsumer interface {
	ConsumeReportRequests(ctx context.Context, handler func(*amqp.ReportRequestMessage) error) error
}

type Worker struct {
	generator     ReportGenerator
	consumer      RequestConsumer
	cacheDir      string
	ttl           time.Duration
	sweepInterval time.Duration
	logger        *log.Logger
}

func New(generator ReportGenerator, consumer RequestConsumer, cacheDir string, ttl, sweepInterval time.Duration, logger *log.Logger) *Worker {
	return &Worker{
		generator:     generator,
		consumer:      consumer,
		cacheDir:      cacheDir,
		ttl:           ttl,
		sweepInterval: sweepInterval,
		logger:        logger.WithComponent("worker"),
	}
}

// Run consumes pre-render requests and sweeps expired cache entries
// until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.cacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.consumer.ConsumeReportRequests(ctx, w.Handle)
	})

	g.Go(func() error {
		ticker := time.NewTicker(w.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				removed, err := w.Sweep()
				if err != nil {
					w.logger.Error("cache sweep failed", "error", err)
					continue
				}
				if removed > 0 {
					w.logger.Info("swept expired reports", "removed", removed)
				}
			}
		}
	})

	return g.Wait()
}

// Handle renders one queued request and writes the PDF into the cache
// directory. The write goes through a temp file and rename so readers
// never see a partial document.
func (w *Worker) Handle(msg *amqp.ReportRequestMessage) error {
	kind := report.Kind(msg.Kind)
	if kind != report.KindSummary && kind != report.KindDetailed {
		kind = report.KindSummary
	}

	pdfBytes, filename, err := w.generator.GenerateReport(context.Background(), services.GenerateParams{
		CodigoIBGE:  msg.CodigoIBGE,
		Competencia: msg.Competencia,
		Kind:        kind,
	})
	if err != nil {
		return fmt.Errorf("pre-render report: %w", err)
	}

	finalPath := filepath.Join(w.cacheDir, filename)
	tmpPath := finalPath + ".tmp"
	if err := os.WriteFile(tmpPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("write report cache file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publish report cache file: %w", err)
	}

	w.logger.Info("cached pre-rendered report", "path", finalPath, "size", len(pdfBytes))
	return nil
}

// Sweep removes cached reports older than the TTL and any leftover
// temp files, returning how many entries were removed.
func (w *Worker) Sweep() (int, error) {
	entries, err := os.ReadDir(w.cacheDir)
	if err != nil {
		return 0, fmt.Errorf("read cache directory: %w", err)
	}

	cutoff := time.Now().Add(-w.ttl)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".pdf") && !strings.HasSuffix(name, ".tmp") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(w.cacheDir, name)); err != nil {
			w.logger.Warn("removing expired report failed", "file", name, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
