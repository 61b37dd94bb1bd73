// Package services orchestrates upstream fetch, loss overrides,
// projection math and report rendering behind one API the transport
// layers share.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"repasse/internal/core"
	"repasse/internal/log"
	"repasse/internal/report"
	"repasse/internal/storage"
	"repasse/internal/upstream"
)

// FinancingFetcher fetches raw financing data for one municipality and
// competência.
type FinancingFetcher interface {
	ConsultFinancing(ctx context.Context, codigoIBGE, competencia string) (upstream.FinancingData, error)
}

// OverrideStore persists the edited monthly-loss lists.
type OverrideStore interface {
	Get(ctx context.Context, codigoIBGE, competencia string) (storage.LossOverride, error)
	Upsert(ctx context.Context, override storage.LossOverride) error
	Delete(ctx context.Context, codigoIBGE, competencia string) error
}

// Renderer turns a report request into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, req report.Request) ([]byte, error)
}

// RequestPublisher queues asynchronous pre-render requests. It is
// optional; a nil publisher disables queuing.
type RequestPublisher interface {
	PublishReportRequest(ctx context.Context, codigoIBGE, competencia, kind string) error
}

// ReportService is the application core behind the HTTP handlers and
// the worker.
type ReportService struct {
	upstream      FinancingFetcher
	overrides     OverrideStore
	renderer      Renderer
	publisher     RequestPublisher
	renderTimeout time.Duration
	logger        *log.Logger
}

func NewReportService(
	fetcher FinancingFetcher,
	overrides OverrideStore,
	renderer Renderer,
	publisher RequestPublisher,
	renderTimeout time.Duration,
	logger *log.Logger,
) *ReportService {
	return &ReportService{
		upstream:      fetcher,
		overrides:     overrides,
		renderer:      renderer,
		publisher:     publisher,
		renderTimeout: renderTimeout,
		logger:        logger.WithComponent("report-service"),
	}
}

// GenerateParams identifies one report to produce.
type GenerateParams struct {
	CodigoIBGE   string
	Competencia  string
	Municipality string
	UF           string
	Kind         report.Kind
}

// GenerateReport fetches the financing data, applies stored loss
// overrides, computes the projection and renders the PDF. It returns
// the document bytes and the suggested attachment filename. An upstream
// period with no data still yields a rendered report stating so.
func (s *ReportService) GenerateReport(ctx context.Context, params GenerateParams) ([]byte, string, error) {
	if err := upstream.ValidateParams(params.CodigoIBGE, params.Competencia); err != nil {
		return nil, "", err
	}
	if params.Kind == "" {
		params.Kind = report.KindSummary
	}

	ctx, cancel := context.WithTimeout(ctx, s.renderTimeout)
	defer cancel()

	data, err := s.upstream.ConsultFinancing(ctx, params.CodigoIBGE, params.Competencia)
	switch {
	case errors.Is(err, upstream.ErrEmptyPayload):
		s.logger.WarnContext(ctx, "no financing data, rendering empty report",
			"codigo_ibge", params.CodigoIBGE, "competencia", params.Competencia)
		data = upstream.FinancingData{}
	case err != nil:
		return nil, "", fmt.Errorf("fetch financing data: %w", err)
	}

	items := data.BudgetItems()
	summary := core.Summarize(items, s.lossesFor(ctx, params.CodigoIBGE, params.Competencia, len(items)))

	req := report.Request{
		Kind:         params.Kind,
		Municipality: params.Municipality,
		UF:           params.UF,
		Competencia:  params.Competencia,
		Summary:      summary,
		Projection:   core.Project(data.TeamCounts()),
	}
	if params.Kind == report.KindDetailed {
		req.Plans = data.PlanBreakdowns()
	}

	pdfBytes, err := s.renderer.Render(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("render report: %w", err)
	}
	return pdfBytes, report.Filename(params.CodigoIBGE, params.Competencia), nil
}

// lossesFor loads the override for one period, defaulting to zeros of
// the right length when none is stored.
func (s *ReportService) lossesFor(ctx context.Context, codigoIBGE, competencia string, n int) []float64 {
	override, err := s.overrides.Get(ctx, codigoIBGE, competencia)
	if errors.Is(err, storage.ErrNotFound) {
		return make([]float64, n)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "loading loss override failed, using zeros",
			"codigo_ibge", codigoIBGE, "competencia", competencia, "error", err)
		return make([]float64, n)
	}
	return override.MonthlyLosses
}

// FinancingOverview is the proxied upstream view with the computed
// figures attached.
type FinancingOverview struct {
	CodigoIBGE  string                             `json:"codigo_ibge"`
	Competencia string                             `json:"competencia"`
	Population  int                                `json:"populacao"`
	Items       []core.BudgetPlanSummaryItem       `json:"resumos"`
	Plans       []core.PlanBreakdown               `json:"detalhamento"`
	Summary     core.FinancialSummary              `json:"resumo_financeiro"`
	Projection  core.ClassificationProjectionTable `json:"projecao"`
}

// Financing returns the computed overview for one period.
func (s *ReportService) Financing(ctx context.Context, codigoIBGE, competencia string) (FinancingOverview, error) {
	if err := upstream.ValidateParams(codigoIBGE, competencia); err != nil {
		return FinancingOverview{}, err
	}

	data, err := s.upstream.ConsultFinancing(ctx, codigoIBGE, competencia)
	if err != nil {
		return FinancingOverview{}, fmt.Errorf("fetch financing data: %w", err)
	}

	items := data.BudgetItems()
	return FinancingOverview{
		CodigoIBGE:  codigoIBGE,
		Competencia: competencia,
		Population:  data.Population(),
		Items:       items,
		Plans:       data.PlanBreakdowns(),
		Summary:     core.Summarize(items, s.lossesFor(ctx, codigoIBGE, competencia, len(items))),
		Projection:  core.Project(data.TeamCounts()),
	}, nil
}

// GetOverride loads the stored loss override for one period.
func (s *ReportService) GetOverride(ctx context.Context, codigoIBGE, competencia string) (storage.LossOverride, error) {
	return s.overrides.Get(ctx, codigoIBGE, competencia)
}

// SaveOverride stores the edited loss list and queues a pre-render of
// the affected report. Queue failures are logged, never surfaced: the
// override write is the operation that matters.
func (s *ReportService) SaveOverride(ctx context.Context, override storage.LossOverride) error {
	if err := upstream.ValidateParams(override.CodigoIBGE, override.Competencia); err != nil {
		return err
	}
	if err := s.overrides.Upsert(ctx, override); err != nil {
		return fmt.Errorf("save loss override: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReportRequest(ctx, override.CodigoIBGE, override.Competencia, string(report.KindSummary)); err != nil {
			s.logger.WarnContext(ctx, "queueing pre-render failed",
				"codigo_ibge", override.CodigoIBGE, "competencia", override.Competencia, "error", err)
		}
	}
	return nil
}

// DeleteOverride removes the stored loss override for one period.
func (s *ReportService) DeleteOverride(ctx context.Context, codigoIBGE, competencia string) error {
	return s.overrides.Delete(ctx, codigoIBGE, competencia)
}
