package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"repasse/internal/core"
)

// renderRich produces the full template-driven document: highlight
// page, infographic page, conclusion page and, for the detailed kind,
// the per-program breakdown.
func (e *Engine) renderRich(req Request) ([]byte, error) {
	text, err := loadNarrative(e.templates, req)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(req.creationDate())
	pdf.SetAutoPageBreak(true, e.style.PageBreak)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	e.richPageHighlight(pdf, tr, req, text)
	e.richPageInfographics(pdf, tr, req)
	e.richPageConclusion(pdf, tr, req, text)
	if req.Kind == KindDetailed {
		e.richPageDetail(pdf, tr, req)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("assembling rich report: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing rich report: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Engine) richPageHighlight(pdf *fpdf.Fpdf, tr func(string) string, req Request, text narrative) {
	st := e.style
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
	pdf.MultiCell(0, 7, tr(text.Intro), "", "L", false)
	pdf.Ln(15)

	// highlight banner with the annual loss percentage underneath
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
	pdf.CellFormat(190, 16, tr(core.FormatPercentBR(req.Summary.AnnualLossPercent)), "", 0, "C", false, 0, "")
	pdf.Ln(38)

	e.drawFinancialCards(pdf, tr, req.Summary)
}

type cardData struct {
	title      string
	value      string
	descricao  string
	detalhe    string
	tag        string
	icon       string
	theme      RGB
	valueColor RGB
	ratio      float64
	indicador  string
}

// drawFinancialCards lays the three metric cards in one row: monthly
// loss, annual difference, current transfer.
func (e *Engine) drawFinancialCards(pdf *fpdf.Fpdf, tr func(string) string, s core.FinancialSummary) {
	st := e.style

	potencialMensal := s.MonthlyPotential()
	potencialAnual := s.AnnualPotential()

	ratioLoss := core.SafeRatio(s.TotalMonthlyLoss, potencialMensal)
	ratioYear := core.SafeRatio(s.TotalAnnualDifference, potencialAnual)
	ratioActual := core.SafeRatio(s.TotalReceived, potencialMensal)

	cards := []cardData{
		{
			title:      "PERDA MENSAL",
			value:      core.FormatBRL(s.TotalMonthlyLoss, 0),
			descricao:  "recursos que poderiam melhorar a saúde",
			detalhe:    fmt.Sprintf("Equivalente a %s por ano", core.FormatBRL(s.TotalAnnualDifference, 0)),
			tag:        "Oportunidade",
			icon:       "!",
			theme:      st.CardLossTheme,
			valueColor: st.CardLossValue,
			ratio:      ratioLoss,
			indicador:  fmt.Sprintf("%d%% do potencial mensal", int(ratioLoss*100+0.5)),
		},
		{
			title:      "DIFERENÇA ANUAL",
			value:      core.FormatBRL(s.TotalAnnualDifference, 0),
			descricao:  "valor total perdido no ano",
			detalhe:    fmt.Sprintf("Impacto de %s do orçamento anual", core.FormatPercentBR(s.AnnualLossPercent)),
			tag:        "Visão anual",
			icon:       "+",
			theme:      st.CardYearTheme,
			valueColor: st.CardYearValue,
			ratio:      ratioYear,
			indicador:  fmt.Sprintf("%d%% do potencial anual", int(ratioYear*100+0.5)),
		},
		{
			title:      "RECEBIMENTO ATUAL",
			value:      core.FormatBRL(s.TotalReceived, 0),
			descricao:  "recursos mensais atuais",
			detalhe:    fmt.Sprintf("Potencial com ajuste: %s", core.FormatBRL(potencialMensal, 0)),
			tag:        "Cenário atual",
			icon:       "$",
			theme:      st.CardActualTheme,
			valueColor: st.CardActualValue,
			ratio:      ratioActual,
			indicador:  fmt.Sprintf("%d%% do potencial mensal", int(ratioActual*100+0.5)),
		},
	}

	const (
		gapX           = 6.0
		headerHeight   = 22.0
		shadowOffset   = 2.4
		innerPadding   = 2.0
		progressHeight = 5.0
	)
	available := st.PageWidth - 2*st.Margin
	cardWidth := (available - gapX*float64(len(cards)-1)) / float64(len(cards))
	cardHeight := st.CardHeight
	currentY := pdf.GetY() + 12

	for i, card := range cards {
		cardX := st.Margin + float64(i)*(cardWidth+gapX)
		cardY := currentY

		// soft shadow, tinted base, white body
		pdf.SetFillColor(st.Shadow.R, st.Shadow.G, st.Shadow.B)
		pdf.Rect(cardX+shadowOffset, cardY+shadowOffset, cardWidth, cardHeight, "F")

		base := mixWithWhite(card.theme, 0.85)
		pdf.SetFillColor(base.R, base.G, base.B)
		pdf.Rect(cardX, cardY, cardWidth, cardHeight, "F")

		innerX := cardX + innerPadding
		innerY := cardY + innerPadding
		innerW := cardWidth - 2*innerPadding
		innerH := cardHeight - 2*innerPadding

		pdf.SetFillColor(255, 255, 255)
		pdf.Rect(innerX, innerY, innerW, innerH, "F")

		border := mixWithWhite(card.theme, 0.6)
		pdf.SetDrawColor(border.R, border.G, border.B)
		pdf.SetLineWidth(0.4)
		pdf.Rect(innerX, innerY, innerW, innerH, "D")

		pdf.SetFillColor(card.theme.R, card.theme.G, card.theme.B)
		pdf.Rect(innerX, innerY, innerW, headerHeight, "F")

		// tag badge on the header strip
		tag := tr(card.tag)
		tagW := pdf.GetStringWidth(tag) + 6
		tagX := innerX + innerW - tagW - 4
		tagY := innerY + 4
		badge := mixWithWhite(card.theme, 0.75)
		pdf.SetFillColor(badge.R, badge.G, badge.B)
		pdf.Rect(tagX, tagY, tagW, 7, "F")
		pdf.SetTextColor(card.theme.R, card.theme.G, card.theme.B)
		pdf.SetFont("Helvetica", "B", 7)
		pdf.SetXY(tagX, tagY+1)
		pdf.CellFormat(tagW, 5, tag, "", 0, "C", false, 0, "")

		// icon disc
		const iconDiameter = 14.0
		iconX := innerX + 6
		iconY := innerY + (headerHeight-iconDiameter)/2
		disc := mixWithWhite(card.theme, 0.55)
		pdf.SetFillColor(disc.R, disc.G, disc.B)
		pdf.Circle(iconX+iconDiameter/2, iconY+iconDiameter/2, iconDiameter/2, "F")

		pdf.SetTextColor(card.theme.R, card.theme.G, card.theme.B)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetXY(iconX, iconY+3)
		pdf.CellFormat(iconDiameter, 8, card.icon, "", 0, "C", false, 0, "")

		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetXY(innerX+iconDiameter+14, innerY+6)
		pdf.CellFormat(innerW-iconDiameter-40, 8, tr(card.title), "", 0, "L", false, 0, "")

		bodyStart := innerY + headerHeight
		bodyX := innerX + 12
		bodyW := innerW - 24

		pdf.SetTextColor(card.valueColor.R, card.valueColor.G, card.valueColor.B)
		pdf.SetFont("Helvetica", "B", 17)
		pdf.SetXY(bodyX, bodyStart+6)
		pdf.CellFormat(bodyW, 10, tr(card.value), "", 0, "L", false, 0, "")

		pdf.SetTextColor(st.Muted.R, st.Muted.G, st.Muted.B)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(bodyX, bodyStart+22)
		pdf.CellFormat(bodyW, 6, tr(card.descricao), "", 0, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(bodyX, bodyStart+30)
		pdf.CellFormat(bodyW, 6, tr(card.detalhe), "", 0, "L", false, 0, "")

		progressY := bodyStart + 40
		pdf.SetFillColor(st.Track.R, st.Track.G, st.Track.B)
		pdf.Rect(bodyX, progressY, bodyW, progressHeight, "F")
		if fill := bodyW * card.ratio; fill > 0 {
			pdf.SetFillColor(card.theme.R, card.theme.G, card.theme.B)
			pdf.Rect(bodyX, progressY, fill, progressHeight, "F")
		}

		pdf.SetTextColor(st.Muted.R, st.Muted.G, st.Muted.B)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(bodyX, progressY+progressHeight+1)
		pdf.CellFormat(bodyW, 6, tr(card.indicador), "", 0, "L", false, 0, "")
	}

	pdf.SetY(currentY + cardHeight)
	pdf.Ln(8)
	pdf.SetLineWidth(0.2)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
}

func (e *Engine) richPageInfographics(pdf *fpdf.Fpdf, tr func(string) string, req Request) {
	st := e.style
	pdf.AddPage()

	s := req.Summary
	atualMensal := s.TotalReceived
	acrescimoMensal := s.TotalMonthlyLoss
	potencialMensal := s.MonthlyPotential()
	atualAnual := s.AnnualReceived()
	potencialAnual := s.AnnualPotential()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(st.Heading.R, st.Heading.G, st.Heading.B)
	pdf.Ln(10)
	header := fmt.Sprintf("Comparativo de Recursos - Atenção Básica %s", req.municipalityLabel())
	pdf.CellFormat(0, 10, tr(header), "", 1, "C", false, 0, "")
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
	pdf.CellFormat(80, 10, tr(core.FormatBRL(atualAnual, 0)), "", 0, "C", false, 0, "")
	pdf.SetTextColor(st.BarBlue.R, st.BarBlue.G, st.BarBlue.B)
	pdf.SetXY(105, valueY)
	pdf.CellFormat(80, 10, tr(core.FormatBRL(potencialAnual, 0)), "", 0, "C", false, 0, "")
	pdf.Ln(20)

	chartY := pdf.GetY()
	if !e.embedRasterComparison(pdf, atualAnual, potencialAnual, chartY) {
		drawBarComparison(pdf, st, atualAnual, potencialAnual, 40, chartY, 60)
	}
	pdf.Ln(80)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(st.Heading.R, st.Heading.G, st.Heading.B)
	pdf.CellFormat(0, 10, "Mensal", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	const colWidth = 63.0
	currentY := pdf.GetY()
	monthlyCols := []struct {
		label string
		value float64
		color RGB
		x     float64
	}{
		{"Recurso Atual", atualMensal, st.BarRed, 10},
		{"Recurso Potencial", potencialMensal, RGB{0, 0, 0}, 73},
		{"Acréscimo", acrescimoMensal, st.BarBlue, 136},
	}
	for _, col := range monthlyCols {
		pdf.SetXY(col.x, currentY)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(col.color.R, col.color.G, col.color.B)
		pdf.CellFormat(colWidth, 8, tr(col.label), "", 0, "C", false, 0, "")
		pdf.SetXY(col.x, currentY+8)
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(colWidth, 10, tr(core.FormatBRL(col.value, 0)), "", 0, "C", false, 0, "")
	}
	pdf.SetY(currentY + 22)

	drawProportionalPyramid(pdf, st, atualMensal, acrescimoMensal, potencialMensal, 30, pdf.GetY(), 150)
	pdf.Ln(45)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(st.BarBlue.R, st.BarBlue.G, st.BarBlue.B)
	pdf.CellFormat(0, 10, tr("Acréscimo Mensal de Receita"), "", 1, "C", false, 0, "")
	underlineY := pdf.GetY() - 2
	pdf.Line(50, underlineY, 160, underlineY)
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, tr(core.FormatBRL(acrescimoMensal, 0)), "", 1, "C", false, 0, "")
	drawUpArrow(pdf, st, 105, pdf.GetY()+5)
}

// embedRasterComparison tries the optional rasterizer; it reports
// whether a raster chart was embedded so the caller can fall back to
// vector drawing.
func (e *Engine) embedRasterComparison(pdf *fpdf.Fpdf, current, potential, y float64) bool {
	if e.rasterizer == nil {
		return false
	}
	png, err := e.rasterizer.RasterizeBarComparison(ChartSpec{
		Current:   current,
		Potential: potential,
		Width:     600,
		Height:    260,
	})
	if err != nil {
		e.logger.Warn("chart rasterizer failed, drawing vector chart", "error", err)
		return false
	}
	if err := embedRasterChart(pdf, png, 20, y, 170, 65); err != nil {
		e.logger.Warn("embedding raster chart failed, drawing vector chart", "error", err)
		return false
	}
	return true
}

func (e *Engine) richPageConclusion(pdf *fpdf.Fpdf, tr func(string) string, req Request, text narrative) {
	st := e.style
	pdf.AddPage()
	pdf.Ln(15)

	s := req.Summary
	pdf.SetTextColor(st.AccentRed.R, st.AccentRed.G, st.AccentRed.B)
	pdf.SetFont("Helvetica", "B", 42)
	pdf.CellFormat(0, 18, tr(core.FormatPercentBR(s.AnnualLossPercent)), "", 1, "C", false, 0, "")

	pdf.SetTextColor(14, 98, 175)
	pdf.SetFont("Helvetica", "B", 36)
	pdf.Ln(4)
	pdf.CellFormat(0, 16, "=", "", 1, "C", false, 0, "")

	// boxed annual difference
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
	pdf.SetY(yStart + boxHeight + 15)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(st.Green.R, st.Green.G, st.Green.B)
	pdf.CellFormat(0, 10, tr(text.Lema), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	e.drawScenarioTable(pdf, tr, req.Projection)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(st.Heading.R, st.Heading.G, st.Heading.B)
	pdf.CellFormat(0, 10, tr("Considerações Finais"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(st.Body.R, st.Body.G, st.Body.B)
	pdf.MultiCell(0, 6, tr(text.Consideracoes), "", "L", false)
	pdf.Ln(4)
	pdf.MultiCell(0, 6, tr(text.Apoio), "", "L", false)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr("Atenciosamente,"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	for _, line := range text.Assinatura {
		pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}
}

// drawScenarioTable renders the per-tier monthly and annual projection
// table between the motivational message and the considerations.
func (e *Engine) drawScenarioTable(pdf *fpdf.Fpdf, tr func(string) string, table core.ClassificationProjectionTable) {
	if len(table.Rows) == 0 {
		return
	}
	st := e.style

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(st.Heading.R, st.Heading.G, st.Heading.B)
	pdf.CellFormat(0, 10, tr("Cenários de Financiamento"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	colWidths := []float64{40, 70, 70}
	headers := []string{"Classificação", "Valor Mensal", "Valor Anual"}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(st.Heading.R, st.Heading.G, st.Heading.B)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(st.Grid.R, st.Grid.G, st.Grid.B)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 9, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(st.Body.R, st.Body.G, st.Body.B)
	for _, row := range table.Rows {
		pdf.CellFormat(colWidths[0], 8, tr(string(row.Tier)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, tr(core.FormatBRL(row.Total, 2)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, tr(core.FormatBRL(row.Total*12, 2)), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func (e *Engine) richPageDetail(pdf *fpdf.Fpdf, tr func(string) string, req Request) {
	st := e.style
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(st.Heading.R, st.Heading.G, st.Heading.B)
	pdf.CellFormat(0, 10, tr("Detalhamento por Programa"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(st.Muted.R, st.Muted.G, st.Muted.B)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Competência %s", req.Competencia)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	if len(req.Plans) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(st.Body.R, st.Body.G, st.Body.B)
		pdf.MultiCell(0, 7, tr("Dados de pagamento não disponíveis para esta competência."), "", "L", false)
		return
	}

	for _, plan := range req.Plans {
		e.drawPlanRow(pdf, tr, plan)
	}

	e.drawCompositionBars(pdf, tr, req.Plans)
	e.drawDiscountAnalysis(pdf, tr, req.Plans)
}

func (e *Engine) drawPlanRow(pdf *fpdf.Fpdf, tr func(string) string, plan core.PlanBreakdown) {
	st := e.style

	theme := st.CardActualTheme
	switch {
	case !plan.Active:
		theme = st.Muted
	case plan.HasDiscount && plan.EffectivePercent < 50:
		theme = st.CardLossTheme
	case plan.HasDiscount:
		theme = st.CardYearTheme
	}

	const rowHeight = 24.0
	if pdf.GetY()+rowHeight > 270 {
		pdf.AddPage()
	}
	x := st.Margin
	y := pdf.GetY()
	w := st.PageWidth - 2*st.Margin

	base := mixWithWhite(theme, 0.88)
	pdf.SetFillColor(base.R, base.G, base.B)
	pdf.Rect(x, y, w, rowHeight, "F")
	pdf.SetFillColor(theme.R, theme.G, theme.B)
	pdf.Rect(x, y, 2.5, rowHeight, "F")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(st.Body.R, st.Body.G, st.Body.B)
	pdf.SetXY(x+6, y+3)
	pdf.CellFormat(70, 6, tr(plan.ShortName), "", 0, "L", false, 0, "")

	status := "Ativo"
	switch {
	case !plan.Active:
		status = "Sem credenciamento"
	case plan.HasDiscount:
		status = "Desconto aplicado"
	case plan.EffectivePercent >= 100:
		status = "100% recebido"
	}
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(theme.R, theme.G, theme.B)
	pdf.SetXY(x+w-50, y+3)
	pdf.CellFormat(44, 6, tr(status), "", 0, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(st.Muted.R, st.Muted.G, st.Muted.B)
	pdf.SetXY(x+6, y+10)
	values := fmt.Sprintf("Integral: %s", core.FormatBRL(plan.FullValue, 0))
	if plan.HasDiscount {
		values += fmt.Sprintf("   Desconto: %s", core.FormatBRL(plan.Discount, 0))
	}
	values += fmt.Sprintf("   Efetivo: %s", core.FormatBRL(plan.Effective, 0))
	pdf.CellFormat(w-12, 6, tr(values), "", 0, "L", false, 0, "")

	// effectivation progress
	progressY := y + 18
	progressW := w - 12
	pdf.SetFillColor(st.Track.R, st.Track.G, st.Track.B)
	pdf.Rect(x+6, progressY, progressW, 3, "F")
	fill := progressW * core.SafeRatio(plan.EffectivePercent, 100)
	if fill > 0 {
		pdf.SetFillColor(theme.R, theme.G, theme.B)
		pdf.Rect(x+6, progressY, fill, 3, "F")
	}

	pdf.SetY(y + rowHeight + 4)
}

// drawCompositionBars shows each active plan's share of the effective
// monthly transfer.
func (e *Engine) drawCompositionBars(pdf *fpdf.Fpdf, tr func(string) string, plans []core.PlanBreakdown) {
	st := e.style

	total := 0.0
	for _, p := range plans {
		if p.Active {
			total += p.Effective
		}
	}
	if total <= 0 {
		return
	}

	if pdf.GetY() > 220 {
		pdf.AddPage()
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(st.Heading.R, st.Heading.G, st.Heading.B)
	pdf.CellFormat(0, 9, tr("Composição do Repasse"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	palette := []RGB{st.BarBlue, st.CardActualTheme, st.CardYearTheme, st.CardLossTheme, st.Heading, st.Green}
	x := st.Margin
	trackW := st.PageWidth - 2*st.Margin - 85

	colorIndex := 0
	for _, p := range plans {
		if !p.Active || p.Effective <= 0 {
			continue
		}
		pct := p.Effective / total * 100

		y := pdf.GetY()
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(st.Body.R, st.Body.G, st.Body.B)
		pdf.SetXY(x, y)
		pdf.CellFormat(38, 7, tr(p.ShortName), "", 0, "L", false, 0, "")

		color := palette[colorIndex%len(palette)]
		colorIndex++
		pdf.SetFillColor(st.Track.R, st.Track.G, st.Track.B)
		pdf.Rect(x+40, y+1, trackW, 5, "F")
		pdf.SetFillColor(color.R, color.G, color.B)
		pdf.Rect(x+40, y+1, trackW*pct/100, 5, "F")

		pdf.SetTextColor(st.Muted.R, st.Muted.G, st.Muted.B)
		pdf.SetXY(x+42+trackW, y)
		pdf.CellFormat(42, 7, tr(core.FormatBRL(p.Effective, 0)), "", 0, "R", false, 0, "")
		pdf.SetY(y + 8)
	}

	y := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(st.Body.R, st.Body.G, st.Body.B)
	pdf.SetXY(x, y)
	pdf.CellFormat(38, 7, "TOTAL", "", 0, "L", false, 0, "")
	pdf.SetXY(x+42+trackW, y)
	pdf.CellFormat(42, 7, tr(core.FormatBRL(total, 0)), "", 0, "R", false, 0, "")
	pdf.SetY(y + 10)
}

// drawDiscountAnalysis summarizes plans with applied discounts and the
// recoverable amount; silent when no discounts exist.
func (e *Engine) drawDiscountAnalysis(pdf *fpdf.Fpdf, tr func(string) string, plans []core.PlanBreakdown) {
	st := e.style

	var withDiscount []core.PlanBreakdown
	totalDiscount := 0.0
	for _, p := range plans {
		if p.HasDiscount {
			withDiscount = append(withDiscount, p)
			if p.Discount < 0 {
				totalDiscount += -p.Discount
			}
		}
	}
	if len(withDiscount) == 0 {
		return
	}

	if pdf.GetY() > 230 {
		pdf.AddPage()
	}
	pdf.Ln(4)

	names := make([]string, len(withDiscount))
	for i, p := range withDiscount {
		names[i] = p.ShortName
	}

	x := st.Margin
	y := pdf.GetY()
	w := st.PageWidth - 2*st.Margin

	base := mixWithWhite(st.CardYearTheme, 0.85)
	pdf.SetFillColor(base.R, base.G, base.B)
	pdf.Rect(x, y, w, 28, "F")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(st.CardYearValue.R, st.CardYearValue.G, st.CardYearValue.B)
	pdf.SetXY(x+4, y+3)
	pdf.CellFormat(w-8, 7, tr("Análise de Descontos Identificados"), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(st.Body.R, st.Body.G, st.Body.B)
	pdf.SetXY(x+4, y+11)
	line := fmt.Sprintf("Programas com desconto: %s", joinNames(names))
	pdf.CellFormat(w-8, 6, tr(line), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(x+4, y+18)
	totals := fmt.Sprintf("Valor total perdido: %s/mês = %s/ano",
		core.FormatBRL(totalDiscount, 0), core.FormatBRL(totalDiscount*12, 0))
	pdf.CellFormat(w-8, 6, tr(totals), "", 0, "L", false, 0, "")

	pdf.SetY(y + 32)
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
