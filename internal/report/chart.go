package report

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"repasse/internal/core"
)

// drawBarComparison draws the current-versus-potential bar pair with a
// growth arrow and a gridded axis labelled in millions. The current bar
// is scaled against the potential one; when the potential is zero both
// bars fall back to a fixed height so the chart never degenerates.
func drawBarComparison(pdf *fpdf.Fpdf, style Style, current, potential, xBase, yBase, maxHeight float64) {
	const barWidth = 35.0

	heightCurrent := maxHeight * core.SafeRatio(current, potential)
	heightPotential := maxHeight
	if potential <= 0 {
		heightCurrent = maxHeight / 2
		heightPotential = maxHeight / 2
	}

	bar1X := xBase
	bar2X := xBase + 95
	baseY := yBase + maxHeight

	pdf.SetFillColor(style.BarRed.R, style.BarRed.G, style.BarRed.B)
	pdf.Rect(bar1X, baseY-heightCurrent, barWidth, heightCurrent, "F")

	pdf.SetFillColor(style.BarBlue.R, style.BarBlue.G, style.BarBlue.B)
	pdf.Rect(bar2X, baseY-heightPotential, barWidth, heightPotential, "F")

	drawGrowthArrow(pdf, style, bar1X+barWidth+5, bar2X-5, baseY-(heightCurrent+heightPotential)/2)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	for i := 0; i <= 4; i++ {
		yPos := baseY - float64(i)*maxHeight/4
		tick := potential * float64(i) / 4
		pdf.SetXY(xBase-20, yPos-2)
		pdf.CellFormat(15, 4, core.FormatMillions(tick), "", 0, "R", false, 0, "")

		pdf.SetDrawColor(style.Grid.R, style.Grid.G, style.Grid.B)
		pdf.Line(xBase-5, yPos, xBase+150, yPos)
	}
}

// drawGrowthArrow draws the horizontal arrow between the two bars.
func drawGrowthArrow(pdf *fpdf.Fpdf, style Style, startX, endX, y float64) {
	pdf.SetDrawColor(style.BarBlue.R, style.BarBlue.G, style.BarBlue.B)
	pdf.Line(startX, y, endX, y)

	pdf.SetFillColor(style.BarBlue.R, style.BarBlue.G, style.BarBlue.B)
	pdf.Rect(endX-3, y-2, 3, 4, "F")
	pdf.Rect(endX-6, y-1, 3, 2, "F")
}

// drawUpArrow draws the small vertical increment arrow under the
// monthly-increase highlight.
func drawUpArrow(pdf *fpdf.Fpdf, style Style, x, y float64) {
	pdf.SetFillColor(style.BarBlue.R, style.BarBlue.G, style.BarBlue.B)
	pdf.Rect(x-1, y, 2, 15, "F")
	pdf.Rect(x-4, y-3, 8, 3, "F")
}

// drawProportionalPyramid stacks the monthly current, increment and
// potential figures as proportional horizontal bands, widest at the
// bottom. Zero-valued totals render all bands at equal width.
func drawProportionalPyramid(pdf *fpdf.Fpdf, style Style, current, increment, potential, x, y, width float64) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	type band struct {
		label string
		value float64
		color RGB
	}
	bands := []band{
		{"Acréscimo", increment, style.BarBlue},
		{"Recurso atual", current, style.BarRed},
		{"Recurso potencial", potential, style.Heading},
	}

	const bandHeight = 10.0
	const gap = 3.0

	for i, b := range bands {
		ratio := core.SafeRatio(b.value, potential)
		if potential <= 0 {
			ratio = 1.0 / float64(len(bands))
		}
		bandWidth := width * ratio
		if bandWidth < 8 {
			bandWidth = 8
		}
		bandX := x + (width-bandWidth)/2
		bandY := y + float64(i)*(bandHeight+gap)

		pdf.SetFillColor(b.color.R, b.color.G, b.color.B)
		pdf.Rect(bandX, bandY, bandWidth, bandHeight, "F")

		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetXY(bandX, bandY+2)
		label := fmt.Sprintf("%s: %s", b.label, core.FormatBRL(b.value, 0))
		if pdf.GetStringWidth(label) < bandWidth-4 {
			pdf.CellFormat(bandWidth, 6, tr(label), "", 0, "C", false, 0, "")
		} else {
			pdf.SetTextColor(style.Body.R, style.Body.G, style.Body.B)
			pdf.SetXY(bandX+bandWidth+2, bandY+2)
			pdf.CellFormat(40, 6, tr(b.label), "", 0, "L", false, 0, "")
		}
	}
}
