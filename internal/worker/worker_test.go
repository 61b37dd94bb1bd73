package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"repasse/internal/amqp"
	"repasse/internal/log"
	"repasse/internal/report"
	"repasse/internal/services"
)

type fakeGenerator struct {
	pdf        []byte
	err        error
	lastParams services.GenerateParams
}

func (f *fakeGenerator) GenerateReport(ctx context.Context, params services.GenerateParams) ([]byte, string, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, "", f.err
	}
	return f.pdf, report.Filename(params.CodigoIBGE, params.Competencia), nil
}

type noopConsumer struct{}

func (noopConsumer) ConsumeReportRequests(ctx context.Context, handler func(*amqp.ReportRequestMessage) error) error {
	<-ctx.Done()
	return ctx.Err()
}

func newWorker(t *testing.T, gen *fakeGenerator, ttl time.Duration) *Worker {
	t.Helper()
	return New(gen, noopConsumer{}, t.TempDir(), ttl, time.Hour, log.New(log.DefaultConfig()))
}

func TestHandleWritesCacheFile(t *testing.T) {
	gen := &fakeGenerator{pdf: []byte("%PDF-fake")}
	w := newWorker(t, gen, 24*time.Hour)

	msg := amqp.NewReportRequestMessage("317130", "202501", "summary")
	if err := w.Handle(msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	path := filepath.Join(w.cacheDir, "relatorio_317130_202501.pdf")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading cached report: %v", err)
	}
	if string(data) != "%PDF-fake" {
		t.Errorf("unexpected cached bytes: %q", data)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Error("temp file should not linger after a successful write")
	}
}

func TestHandleUnknownKindFallsBackToSummary(t *testing.T) {
	gen := &fakeGenerator{pdf: []byte("%PDF-fake")}
	w := newWorker(t, gen, 24*time.Hour)

	if err := w.Handle(amqp.NewReportRequestMessage("317130", "202501", "bogus")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if gen.lastParams.Kind != report.KindSummary {
		t.Errorf("expected summary kind, got %q", gen.lastParams.Kind)
	}
}

func TestHandlePropagatesGeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream down")}
	w := newWorker(t, gen, 24*time.Hour)

	if err := w.Handle(amqp.NewReportRequestMessage("317130", "202501", "summary")); err == nil {
		t.Fatal("expected error so the delivery is requeued")
	}
}

func TestSweepRemovesExpiredFiles(t *testing.T) {
	w := newWorker(t, &fakeGenerator{pdf: []byte("%PDF-fake")}, time.Hour)

	oldPath := filepath.Join(w.cacheDir, "relatorio_old.pdf")
	if err := os.WriteFile(oldPath, []byte("%PDF"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatalf("aging fixture: %v", err)
	}

	freshPath := filepath.Join(w.cacheDir, "relatorio_fresh.pdf")
	if err := os.WriteFile(freshPath, []byte("%PDF"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	removed, err := w.Sweep()
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removal, got %d", removed)
	}
	if _, err := os.Stat(oldPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("expired report should be gone")
	}
	if _, err := os.Stat(freshPath); err != nil {
		t.Errorf("fresh report should survive: %v", err)
	}
}

func TestSweepIgnoresForeignFiles(t *testing.T) {
	w := newWorker(t, &fakeGenerator{}, time.Hour)

	foreign := filepath.Join(w.cacheDir, "notes.txt")
	if err := os.WriteFile(foreign, []byte("keep"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(foreign, past, past); err != nil {
		t.Fatalf("aging fixture: %v", err)
	}

	removed, err := w.Sweep()
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected no removals, got %d", removed)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Errorf("foreign file should survive: %v", err)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	w := newWorker(t, &fakeGenerator{}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}
