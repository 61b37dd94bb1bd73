package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"repasse/internal/cache"
	"repasse/internal/log"
)

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func TestConsultFinancing(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query().Encode())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, testLogger())
	data, err := client.ConsultFinancing(context.Background(), "3171303", "202501")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.ResumosPlanosOrcamentarios) != 2 {
		t.Errorf("expected 2 budget summaries, got %d", len(data.ResumosPlanosOrcamentarios))
	}

	query := gotQuery.Load().(string)
	for _, want := range []string{
		"unidadeGeografica=MUNICIPIO",
		"coUf=31",
		"coMunicipio=317130",
		"nuParcelaInicio=202501",
		"nuParcelaFim=202501",
		"tipoRelatorio=COMPLETO",
	} {
		if !containsParam(query, want) {
			t.Errorf("query %q missing %q", query, want)
		}
	}
}

func containsParam(query, param string) bool {
	for start := 0; start+len(param) <= len(query); start++ {
		if query[start:start+len(param)] == param {
			return true
		}
	}
	return false
}

func TestConsultFinancingRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, testLogger(), WithRetries(3))
	if _, err := client.ConsultFinancing(context.Background(), "3171303", "202501"); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", calls.Load())
	}
}

func TestConsultFinancingDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, testLogger(), WithRetries(3))
	if _, err := client.ConsultFinancing(context.Background(), "3171303", "202501"); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if calls.Load() != 1 {
		t.Errorf("4xx responses must not be retried, got %d calls", calls.Load())
	}
}

func TestConsultFinancingEmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resumosPlanosOrcamentarios": [], "pagamentos": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, testLogger())
	_, err := client.ConsultFinancing(context.Background(), "3171303", "202501")
	if !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
}

func TestConsultFinancingUsesCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	lru := cache.NewLRUCache[FinancingData](8, time.Minute)
	client := NewClient(server.URL, 5*time.Second, testLogger(), WithCache(lru))

	for i := 0; i < 3; i++ {
		if _, err := client.ConsultFinancing(context.Background(), "3171303", "202501"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single upstream call with cache enabled, got %d", calls.Load())
	}
}

func TestValidateParams(t *testing.T) {
	tests := []struct {
		name        string
		codigoIBGE  string
		competencia string
		wantErr     bool
	}{
		{"valid", "317130", "202501", false},
		{"valid seven digits", "3171303", "202501", false},
		{"ibge too short", "31713", "202501", true},
		{"ibge not numeric", "31713a", "202501", true},
		{"competencia too short", "317130", "2025", true},
		{"competencia not numeric", "317130", "2025ab", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParams(tt.codigoIBGE, tt.competencia)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateParams(%q, %q) error = %v, wantErr %v", tt.codigoIBGE, tt.competencia, err, tt.wantErr)
			}
		})
	}
}
