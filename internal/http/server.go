// Package http exposes the report service over a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"repasse/internal/log"
	"repasse/internal/services"
	"repasse/internal/storage"
)

// ReportAPI is the slice of the service layer the handlers need.
type ReportAPI interface {
	GenerateReport(ctx context.Context, params services.GenerateParams) ([]byte, string, error)
	Financing(ctx context.Context, codigoIBGE, competencia string) (services.FinancingOverview, error)
	GetOverride(ctx context.Context, codigoIBGE, competencia string) (storage.LossOverride, error)
	SaveOverride(ctx context.Context, override storage.LossOverride) error
	DeleteOverride(ctx context.Context, codigoIBGE, competencia string) error
}

type Server struct {
	http.Server
	api          ReportAPI
	logger       *log.Logger
	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, api ReportAPI, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		api:    api,
		logger: logger.WithComponent("http"),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/relatorios/pdf", s.handleGenerateReport)
	mux.HandleFunc("GET /api/financiamento", s.handleFinancing)
	mux.HandleFunc("GET /api/municipios-editados/{ibge}/{competencia}", s.handleGetOverride)
	mux.HandleFunc("PUT /api/municipios-editados/{ibge}/{competencia}", s.handlePutOverride)
	mux.HandleFunc("DELETE /api/municipios-editados/{ibge}/{competencia}", s.handleDeleteOverride)

	return s
}

// Shutdown gracefully stops the server once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}
