package upstream

import (
	"repasse/internal/core"
)

var planShortNames = map[string]string{
	"Equipes de Saúde da Família - eSF e equipes de Atenção Primária - eAP": "eSF/eAP",
	"Atenção à Saúde Bucal":            "Saúde Bucal",
	"Equipes Multiprofissionais - eMulti": "eMulti",
	"Agentes Comunitários de Saúde":       "ACS",
	"Demais programas, serviços e equipes da Atenção Primária à Saúde": "Demais",
	"Componente per capita de base populacional":                       "Per Capita",
}

func shortPlanName(full string) string {
	if short, ok := planShortNames[full]; ok {
		return short
	}
	if len([]rune(full)) > 20 {
		return string([]rune(full)[:20])
	}
	return full
}

// BudgetItems flattens the budget-plan summaries into the shape the
// financial calculator consumes.
func (d FinancingData) BudgetItems() []core.BudgetPlanSummaryItem {
	items := make([]core.BudgetPlanSummaryItem, 0, len(d.ResumosPlanosOrcamentarios))
	for _, plano := range d.ResumosPlanosOrcamentarios {
		label := strOrEmpty(plano.DsPlanoOrcamentario)
		if label == "" {
			label = "Sem descrição"
		}
		items = append(items, core.BudgetPlanSummaryItem{
			PlanLabel:       label,
			MonthlyTransfer: floatOrZero(plano.VlEfetivoRepasse),
			EquityStratum:   strOrEmpty(plano.DsFaixaIndiceEquidadeEsfEap),
			Population:      intOrZero(plano.QtPopulacao),
		})
	}
	return items
}

// TeamCounts extracts the homologated team counts and classification
// tiers from the first payment record. Payments beyond the first repeat
// the same municipal aggregates, so only one is read.
func (d FinancingData) TeamCounts() core.MunicipalTeamCounts {
	counts := core.MunicipalTeamCounts{
		Counts:     map[core.TeamCategory]int{},
		TierEsfEap: core.TierOtimo,
		TierEmulti: core.TierOtimo,
	}
	if len(d.Pagamentos) == 0 {
		return counts
	}
	pg := d.Pagamentos[0]

	counts.Counts[core.TeamESF] = intOrZero(pg.QtEsfHomologado)
	counts.Counts[core.TeamEAP30h] = intOrZero(pg.QtEapCredenciadas)
	counts.Counts[core.TeamEMultiAmpl] = intOrZero(pg.QtEmultiPagas)
	counts.Counts[core.TeamESBComumI] = intOrZero(pg.QtSbPagamentoModalidadeI)

	if tier, err := core.ParseTier(strOrEmpty(pg.DsClassificacaoQualidadeEsfEap)); err == nil {
		counts.TierEsfEap = tier
	}
	if tier, err := core.ParseTier(strOrEmpty(pg.DsClassificacaoQualidadeEmulti)); err == nil {
		counts.TierEmulti = tier
	}
	return counts
}

// PlanBreakdowns computes the per-program detail rows shown on the
// detailed report variant.
func (d FinancingData) PlanBreakdowns() []core.PlanBreakdown {
	rows := make([]core.PlanBreakdown, 0, len(d.ResumosPlanosOrcamentarios))
	for _, plano := range d.ResumosPlanosOrcamentarios {
		name := strOrEmpty(plano.DsPlanoOrcamentario)
		if name == "" {
			name = "Sem descrição"
		}
		full := floatOrZero(plano.VlIntegral)
		effective := floatOrZero(plano.VlEfetivoRepasse)

		pct := 0.0
		if full > 0 {
			pct = effective / full * 100.0
		}

		rows = append(rows, core.PlanBreakdown{
			Name:             name,
			ShortName:        shortPlanName(name),
			FullValue:        full,
			Adjustment:       floatOrZero(plano.VlAjuste),
			Discount:         floatOrZero(plano.VlDesconto),
			Effective:        effective,
			EffectivePercent: pct,
			HasDiscount:      floatOrZero(plano.VlDesconto) < 0,
			Active:           effective > 0,
		})
	}
	return rows
}

// Population returns the largest population figure reported across the
// budget-plan lines, zero when absent.
func (d FinancingData) Population() int {
	max := 0
	for _, plano := range d.ResumosPlanosOrcamentarios {
		if n := intOrZero(plano.QtPopulacao); n > max {
			max = n
		}
	}
	return max
}
