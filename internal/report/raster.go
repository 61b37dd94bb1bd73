package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

// ChartSpec describes one bar-comparison chart for rasterization.
type ChartSpec struct {
	Current   float64
	Potential float64
	Width     int
	Height    int
}

// ChartRasterizer produces a PNG image for a chart spec. It is an
// optional capability: when the engine has none, charts are drawn with
// vector primitives only.
type ChartRasterizer interface {
	RasterizeBarComparison(spec ChartSpec) ([]byte, error)
}

// embedRasterChart writes the PNG to a render-scoped temp file, embeds
// it into the page and removes the file before returning. fpdf reads
// images by path, so the file must outlive the ImageOptions call but
// not the render.
func embedRasterChart(pdf *fpdf.Fpdf, png []byte, x, y, w, h float64) error {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("repasse-chart-%s.png", uuid.NewString()))
	if err := os.WriteFile(path, png, 0o600); err != nil {
		return fmt.Errorf("writing chart temp file: %w", err)
	}
	defer os.Remove(path)

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptions(path, opts)
	pdf.ImageOptions(path, x, y, w, h, false, opts, 0, "")
	if pdf.Err() {
		return fmt.Errorf("embedding chart image: %w", pdf.Error())
	}
	return nil
}
