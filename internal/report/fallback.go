package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"repasse/internal/core"
)

// renderFallback produces the three-page report with direct drawing
// primitives and hardcoded prose only. It has no template, image or
// rasterizer dependencies and succeeds for any finite input.
func (e *Engine) renderFallback(req Request) ([]byte, error) {
	st := e.style
	s := req.Summary

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(req.creationDate())
	pdf.SetAutoPageBreak(true, st.PageBreak)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// page 1: heading, banner, key figures
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(st.Heading.R, st.Heading.G, st.Heading.B)
	title := fmt.Sprintf("Relatório de Projeção Financeira - Município de %s", req.municipalityLabel())
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(st.Body.R, st.Body.G, st.Body.B)
	pdf.CellFormat(0, 8, tr("Excelentíssimo(a) Senhor(a) Prefeito(a),"), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.MultiCell(0, 7, tr("Com o objetivo de oferecer uma visão estratégica sobre a evolução dos recursos do município, apresentamos a seguir uma análise detalhada com base no cenário atual e projeções futuras."), "", "L", false)
	pdf.Ln(15)

	bannerY := pdf.GetY()
	pdf.SetFillColor(st.BannerBg.R, st.BannerBg.G, st.BannerBg.B)
	pdf.SetDrawColor(st.BannerBg.R, st.BannerBg.G, st.BannerBg.B)
	pdf.SetX(10)
	pdf.CellFormat(190, 22, "", "", 1, "", true, 0, "")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(10, bannerY+6)
	pdf.CellFormat(190, 8, tr("QUANTO EU DEIXO DE RECEBER ANUALMENTE?"), "", 0, "C", false, 0, "")

	pdf.SetTextColor(st.AccentRed.R, st.AccentRed.G, st.AccentRed.B)
	pdf.SetFont("Helvetica", "B", 46)
	pdf.SetXY(10, bannerY+24)
	pdf.CellFormat(190, 16, tr(core.FormatPercentBR(s.AnnualLossPercent)), "", 0, "C", false, 0, "")
	pdf.Ln(42)

	figures := []struct {
		label string
		value float64
	}{
		{"Perda mensal", s.TotalMonthlyLoss},
		{"Diferença anual", s.TotalAnnualDifference},
		{"Recebimento atual", s.TotalReceived},
		{"Potencial mensal", s.MonthlyPotential()},
	}
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(st.Body.R, st.Body.G, st.Body.B)
	for _, f := range figures {
		pdf.CellFormat(80, 9, tr(f.label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(80, 9, tr(core.FormatBRL(f.value, 2)), "1", 1, "R", false, 0, "")
	}

	// page 2: annual comparison and monthly figures
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(st.Heading.R, st.Heading.G, st.Heading.B)
	pdf.Ln(10)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Comparativo de Recursos - Atenção Básica %s", req.municipalityLabel())), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(51, 51, 51)
	titleY := pdf.GetY()
	pdf.SetXY(25, titleY)
	pdf.CellFormat(80, 8, tr("Recurso Atenção Básica atual"), "", 0, "C", false, 0, "")
	pdf.SetXY(105, titleY)
	pdf.CellFormat(80, 8, tr("Recurso Atenção Básica potencial"), "", 0, "C", false, 0, "")
	pdf.Ln(15)

	pdf.SetFont("Helvetica", "B", 14)
	valueY := pdf.GetY()
	pdf.SetTextColor(st.BarRed.R, st.BarRed.G, st.BarRed.B)
	pdf.SetXY(25, valueY)
	pdf.CellFormat(80, 10, tr(core.FormatBRL(s.AnnualReceived(), 0)), "", 0, "C", false, 0, "")
	pdf.SetTextColor(st.BarBlue.R, st.BarBlue.G, st.BarBlue.B)
	pdf.SetXY(105, valueY)
	pdf.CellFormat(80, 10, tr(core.FormatBRL(s.AnnualPotential(), 0)), "", 0, "C", false, 0, "")
	pdf.Ln(20)

	drawBarComparison(pdf, st, s.AnnualReceived(), s.AnnualPotential(), 40, pdf.GetY(), 60)
	pdf.Ln(80)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(st.Heading.R, st.Heading.G, st.Heading.B)
	pdf.CellFormat(0, 10, "Mensal", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	monthlyY := pdf.GetY()
	cols := []struct {
		label string
		value float64
		color RGB
		x     float64
	}{
		{"Recurso Atual", s.TotalReceived, st.BarRed, 10},
		{"Recurso Potencial", s.MonthlyPotential(), RGB{0, 0, 0}, 73},
		{"Acréscimo", s.TotalMonthlyLoss, st.BarBlue, 136},
	}
	for _, col := range cols {
		pdf.SetXY(col.x, monthlyY)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(col.color.R, col.color.G, col.color.B)
		pdf.CellFormat(63, 8, tr(col.label), "", 0, "C", false, 0, "")
		pdf.SetXY(col.x, monthlyY+8)
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(63, 10, tr(core.FormatBRL(col.value, 0)), "", 0, "C", false, 0, "")
	}
	pdf.SetY(monthlyY + 25)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(st.BarBlue.R, st.BarBlue.G, st.BarBlue.B)
	pdf.CellFormat(0, 10, tr("Acréscimo Mensal de Receita"), "", 1, "C", false, 0, "")
	pdf.Line(50, pdf.GetY()-2, 160, pdf.GetY()-2)
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, tr(core.FormatBRL(s.TotalMonthlyLoss, 0)), "", 1, "C", false, 0, "")
	drawUpArrow(pdf, st, 105, pdf.GetY()+5)

	// page 3: impact and closing
	pdf.AddPage()
	pdf.Ln(15)
	pdf.SetTextColor(st.AccentRed.R, st.AccentRed.G, st.AccentRed.B)
	pdf.SetFont("Helvetica", "B", 42)
	pdf.CellFormat(0, 18, tr(core.FormatPercentBR(s.AnnualLossPercent)), "", 1, "C", false, 0, "")

	pdf.SetTextColor(14, 98, 175)
	pdf.SetFont("Helvetica", "B", 36)
	pdf.Ln(4)
	pdf.CellFormat(0, 16, "=", "", 1, "C", false, 0, "")

	const boxWidth, boxHeight = 160.0, 42.0
	xStart := (st.PageWidth - boxWidth) / 2
	yStart := pdf.GetY() + 6
	pdf.SetFillColor(st.BoxShadow.R, st.BoxShadow.G, st.BoxShadow.B)
	pdf.Rect(xStart+3, yStart+3, boxWidth, boxHeight, "F")
	pdf.SetFillColor(255, 255, 255)
	pdf.Rect(xStart, yStart, boxWidth, boxHeight, "F")
	pdf.SetTextColor(14, 98, 175)
	pdf.SetFont("Helvetica", "B", 34)
	pdf.SetXY(xStart, yStart+10)
	pdf.CellFormat(boxWidth, 18, tr(core.FormatBRL(s.TotalAnnualDifference, 0)), "", 0, "C", false, 0, "")
	pdf.SetY(yStart + boxHeight + 20)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(st.Green.R, st.Green.G, st.Green.B)
	pdf.CellFormat(0, 10, tr("MAIS RECURSO E UMA MELHOR QUALIDADE DE SAÚDE PARA A POPULAÇÃO!"), "", 1, "C", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(st.Heading.R, st.Heading.G, st.Heading.B)
	pdf.CellFormat(0, 10, tr("Considerações Finais"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(st.Body.R, st.Body.G, st.Body.B)
	pdf.MultiCell(0, 6, tr("O acompanhamento constante desses indicadores permitirá à administração tomar decisões mais assertivas, equilibrando gastos e planejando investimentos futuros com segurança."), "", "L", false)
	pdf.Ln(8)
	pdf.MultiCell(0, 6, tr("Estamos à disposição para auxiliar na interpretação dos dados e na definição de ações estratégicas para maximizar esse crescimento."), "", "L", false)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr("Atenciosamente,"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, tr("Mais Gestor"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Alysson Ribeiro"), "", 1, "L", false, 0, "")

	if req.Kind == KindDetailed {
		e.fallbackDetailPage(pdf, tr, req)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("assembling fallback report: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing fallback report: %w", err)
	}
	return buf.Bytes(), nil
}

// fallbackDetailPage prints the per-program breakdown as a plain table.
func (e *Engine) fallbackDetailPage(pdf *fpdf.Fpdf, tr func(string) string, req Request) {
	st := e.style
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(st.Heading.R, st.Heading.G, st.Heading.B)
	pdf.CellFormat(0, 10, tr("Detalhamento por Programa"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	if len(req.Plans) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(st.Body.R, st.Body.G, st.Body.B)
		pdf.MultiCell(0, 7, tr("Dados de pagamento não disponíveis para esta competência."), "", "L", false)
		return
	}

	colWidths := []float64{56, 40, 30, 40, 20}
	headers := []string{"Programa", "Integral", "Desconto", "Efetivo", "%"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(st.Heading.R, st.Heading.G, st.Heading.B)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(st.Grid.R, st.Grid.G, st.Grid.B)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 9, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(st.Body.R, st.Body.G, st.Body.B)
	for _, plan := range req.Plans {
		pdf.CellFormat(colWidths[0], 8, tr(plan.ShortName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, tr(core.FormatBR(plan.FullValue, 0)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, tr(core.FormatBR(plan.Discount, 0)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, tr(core.FormatBR(plan.Effective, 0)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 8, tr(core.FormatBR(plan.EffectivePercent, 1)), "1", 1, "R", false, 0, "")
	}
}
