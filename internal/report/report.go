package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"repasse/internal/core"
	"repasse/internal/log"
)

// Kind selects the report variant.
type Kind string

const (
	// KindSummary is the three-page projection report.
	KindSummary Kind = "summary"
	// KindDetailed appends the per-program payment breakdown pages.
	KindDetailed Kind = "detailed"
)

// Request carries everything one render needs. The engine itself holds
// no per-municipality state.
type Request struct {
	Kind         Kind
	Municipality string
	UF           string
	Competencia  string // AAAAMM
	Summary      core.FinancialSummary
	Projection   core.ClassificationProjectionTable
	Plans        []core.PlanBreakdown
}

// municipalityLabel renders "Município/UF" the way the report headings
// expect, defaulting when the name is absent.
func (r Request) municipalityLabel() string {
	label := r.Municipality
	if label == "" {
		label = "Município"
	}
	if r.UF != "" {
		label = label + "/" + strings.ToUpper(r.UF)
	}
	return label
}

// creationDate pins the document timestamp to the first day of the
// competência so repeated renders of the same period are byte-identical.
func (r Request) creationDate() time.Time {
	if len(r.Competencia) == 6 {
		year, errY := strconv.Atoi(r.Competencia[:4])
		month, errM := strconv.Atoi(r.Competencia[4:])
		if errY == nil && errM == nil && month >= 1 && month <= 12 {
			return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// minPDFSize rejects documents too small to hold the full layout; a
// truncated render must fall through to the fallback backend.
const minPDFSize = 1000

// Engine renders projection reports. The zero value is not usable;
// construct with NewEngine.
type Engine struct {
	style      Style
	rasterizer ChartRasterizer
	templates  fs.FS
	logger     *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithStyle replaces the default palette.
func WithStyle(style Style) Option {
	return func(e *Engine) { e.style = style }
}

// WithRasterizer installs an optional chart rasterizer.
func WithRasterizer(r ChartRasterizer) Option {
	return func(e *Engine) { e.rasterizer = r }
}

// WithTemplates replaces the embedded narrative templates, mostly for
// tests.
func WithTemplates(fsys fs.FS) Option {
	return func(e *Engine) { e.templates = fsys }
}

func NewEngine(logger *log.Logger, opts ...Option) *Engine {
	e := &Engine{
		style:     DefaultStyle(),
		templates: defaultTemplates(),
		logger:    logger.WithComponent("report"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render produces the PDF for one request. The rich backend is tried
// first; when it fails the fallback backend takes over, and only when
// both fail is an aggregated error returned. The result is always a
// complete document, never partial bytes.
func (e *Engine) Render(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	richBytes, richErr := e.renderRich(req)
	if richErr == nil {
		if err := validatePDF(richBytes); err == nil {
			return richBytes, nil
		} else {
			richErr = err
		}
	}
	e.logger.WarnContext(ctx, "rich report backend failed, using fallback",
		"municipio", req.Municipality, "competencia", req.Competencia, "error", richErr)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallbackBytes, fallbackErr := e.renderFallback(req)
	if fallbackErr == nil {
		if err := validatePDF(fallbackBytes); err == nil {
			return fallbackBytes, nil
		} else {
			fallbackErr = err
		}
	}

	return nil, errors.Join(
		fmt.Errorf("rich backend: %w", richErr),
		fmt.Errorf("fallback backend: %w", fallbackErr),
	)
}

func validatePDF(b []byte) error {
	if len(b) < minPDFSize {
		return fmt.Errorf("rendered document is too small (%d bytes)", len(b))
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		return errors.New("rendered document is not a PDF")
	}
	return nil
}

// Filename suggests the attachment name for one render.
func Filename(codigoIBGE, competencia string) string {
	return fmt.Sprintf("relatorio_%s_%s.pdf", codigoIBGE, competencia)
}
