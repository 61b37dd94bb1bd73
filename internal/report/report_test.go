package report

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"repasse/internal/core"
	"repasse/internal/log"
)

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func sampleRequest(kind Kind) Request {
	counts := core.MunicipalTeamCounts{
		Counts: map[core.TeamCategory]int{
			core.TeamESF:        10,
			core.TeamEAP30h:     2,
			core.TeamEMultiAmpl: 1,
			core.TeamESBComumI:  4,
		},
		TierEsfEap: core.TierBom,
		TierEmulti: core.TierBom,
	}
	return Request{
		Kind:         kind,
		Municipality: "Uberlândia",
		UF:           "mg",
		Competencia:  "202501",
		Summary: core.FinancialSummary{
			TotalMonthlyLoss:      150.0,
			TotalAnnualDifference: 1800.0,
			AnnualLossPercent:     10.0,
			TotalReceived:         1500.0,
		},
		Projection: core.Project(counts),
		Plans: []core.PlanBreakdown{
			{
				Name: "Atenção à Saúde Bucal", ShortName: "Saúde Bucal",
				FullValue: 20000, Effective: 20000, EffectivePercent: 100, Active: true,
			},
			{
				Name: "Equipes Multiprofissionais - eMulti", ShortName: "eMulti",
				FullValue: 30000, Discount: -5000, Effective: 25000,
				EffectivePercent: 83.3, HasDiscount: true, Active: true,
			},
		},
	}
}

func assertValidPDF(t *testing.T, b []byte) {
	t.Helper()
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatal("output is not a PDF document")
	}
	if len(b) < minPDFSize {
		t.Fatalf("output suspiciously small: %d bytes", len(b))
	}
}

func TestRenderSummary(t *testing.T) {
	engine := NewEngine(testLogger())
	out, err := engine.Render(context.Background(), sampleRequest(KindSummary))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValidPDF(t, out)
}

func TestRenderDetailed(t *testing.T) {
	engine := NewEngine(testLogger())
	out, err := engine.Render(context.Background(), sampleRequest(KindDetailed))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValidPDF(t, out)
}

func TestRenderDetailedWithoutPlans(t *testing.T) {
	req := sampleRequest(KindDetailed)
	req.Plans = nil

	engine := NewEngine(testLogger())
	out, err := engine.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("missing payment data must still render: %v", err)
	}
	assertValidPDF(t, out)
}

func TestRenderZeroFigures(t *testing.T) {
	req := sampleRequest(KindSummary)
	req.Summary = core.FinancialSummary{}
	req.Projection = core.Project(core.MunicipalTeamCounts{})

	engine := NewEngine(testLogger())
	out, err := engine.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("zero-valued request must render: %v", err)
	}
	assertValidPDF(t, out)
}

func TestRenderIsDeterministic(t *testing.T) {
	engine := NewEngine(testLogger())
	req := sampleRequest(KindSummary)

	first, err := engine.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := engine.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("renders of the same request must be byte-identical")
	}
}

func TestRenderFallsBackOnBrokenTemplates(t *testing.T) {
	engine := NewEngine(testLogger(), WithTemplates(fstest.MapFS{}))
	out, err := engine.Render(context.Background(), sampleRequest(KindSummary))
	if err != nil {
		t.Fatalf("fallback backend should have produced the report: %v", err)
	}
	assertValidPDF(t, out)
}

func TestRenderFallsBackOnMalformedTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"intro.tmpl": &fstest.MapFile{Data: []byte("{{.Broken")},
	}
	engine := NewEngine(testLogger(), WithTemplates(fsys))
	out, err := engine.Render(context.Background(), sampleRequest(KindSummary))
	if err != nil {
		t.Fatalf("fallback backend should have produced the report: %v", err)
	}
	assertValidPDF(t, out)
}

func TestRenderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(testLogger())
	if _, err := engine.Render(ctx, sampleRequest(KindSummary)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type pngRasterizer struct {
	calls int
}

func (r *pngRasterizer) RasterizeBarComparison(spec ChartSpec) ([]byte, error) {
	r.calls++
	img := image.NewRGBA(image.Rect(0, 0, spec.Width, spec.Height))
	for x := 0; x < spec.Width; x++ {
		for y := 0; y < spec.Height; y++ {
			img.Set(x, y, color.RGBA{R: 40, G: 116, B: 240, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type failingRasterizer struct{}

func (failingRasterizer) RasterizeBarComparison(ChartSpec) ([]byte, error) {
	return nil, errors.New("rasterizer unavailable")
}

func TestRenderWithRasterizer(t *testing.T) {
	raster := &pngRasterizer{}
	engine := NewEngine(testLogger(), WithRasterizer(raster))

	out, err := engine.Render(context.Background(), sampleRequest(KindSummary))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValidPDF(t, out)
	if raster.calls != 1 {
		t.Errorf("expected one rasterizer call, got %d", raster.calls)
	}
}

func TestRenderSurvivesRasterizerFailure(t *testing.T) {
	engine := NewEngine(testLogger(), WithRasterizer(failingRasterizer{}))
	out, err := engine.Render(context.Background(), sampleRequest(KindSummary))
	if err != nil {
		t.Fatalf("vector chart should cover rasterizer failure: %v", err)
	}
	assertValidPDF(t, out)
}

func TestFilename(t *testing.T) {
	if got := Filename("317130", "202501"); got != "relatorio_317130_202501.pdf" {
		t.Errorf("unexpected filename %q", got)
	}
}

func TestMunicipalityLabel(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"name and uf", Request{Municipality: "Uberlândia", UF: "mg"}, "Uberlândia/MG"},
		{"name only", Request{Municipality: "Uberlândia"}, "Uberlândia"},
		{"empty", Request{}, "Município"},
		{"uf only", Request{UF: "sp"}, "Município/SP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.municipalityLabel(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestMixWithWhite(t *testing.T) {
	base := RGB{100, 100, 100}
	if got := mixWithWhite(base, 0); got != base {
		t.Errorf("factor 0 must keep the color, got %+v", got)
	}
	if got := mixWithWhite(base, 1); got != (RGB{255, 255, 255}) {
		t.Errorf("factor 1 must yield white, got %+v", got)
	}
	if got := mixWithWhite(base, 2); got != (RGB{255, 255, 255}) {
		t.Errorf("factor must clamp to 1, got %+v", got)
	}
}
