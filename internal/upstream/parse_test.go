package upstream

import (
	"encoding/json"
	"testing"

	"repasse/internal/core"
)

const samplePayload = `{
	"resumosPlanosOrcamentarios": [
		{
			"dsPlanoOrcamentario": "Equipes de Saúde da Família - eSF e equipes de Atenção Primária - eAP",
			"vlIntegral": 120000.0,
			"vlAjuste": 500.0,
			"vlDesconto": -2000.0,
			"vlEfetivoRepasse": 118500.0,
			"dsFaixaIndiceEquidadeEsfEap": "Faixa 2",
			"qtPopulacao": 35000
		},
		{
			"dsPlanoOrcamentario": "Atenção à Saúde Bucal",
			"vlEfetivoRepasse": 20000.0,
			"vlIntegral": 20000.0,
			"unexpectedField": {"nested": true}
		}
	],
	"pagamentos": [
		{
			"coMunicipio": "317130",
			"qtEsfHomologado": 12,
			"qtEapCredenciadas": 3,
			"qtEmultiPagas": 2,
			"qtSbPagamentoModalidadeI": 5,
			"dsClassificacaoQualidadeEsfEap": "Bom",
			"dsClassificacaoQualidadeEmulti": "Regular"
		}
	]
}`

func decodeSample(t *testing.T) FinancingData {
	t.Helper()
	var data FinancingData
	if err := json.Unmarshal([]byte(samplePayload), &data); err != nil {
		t.Fatalf("decoding sample payload: %v", err)
	}
	return data
}

func TestBudgetItems(t *testing.T) {
	data := decodeSample(t)
	items := data.BudgetItems()

	if len(items) != 2 {
		t.Fatalf("expected 2 budget items, got %d", len(items))
	}
	if items[0].MonthlyTransfer != 118500.0 {
		t.Errorf("expected monthly transfer 118500, got %f", items[0].MonthlyTransfer)
	}
	if items[0].EquityStratum != "Faixa 2" {
		t.Errorf("unexpected equity stratum %q", items[0].EquityStratum)
	}
	if items[0].Population != 35000 {
		t.Errorf("unexpected population %d", items[0].Population)
	}
	if items[1].EquityStratum != "" || items[1].Population != 0 {
		t.Errorf("missing optionals should read as zero values, got %+v", items[1])
	}
}

func TestTeamCounts(t *testing.T) {
	data := decodeSample(t)
	counts := data.TeamCounts()

	want := map[core.TeamCategory]int{
		core.TeamESF:        12,
		core.TeamEAP30h:     3,
		core.TeamEMultiAmpl: 2,
		core.TeamESBComumI:  5,
	}
	for cat, n := range want {
		if counts.Counts[cat] != n {
			t.Errorf("category %s: expected %d, got %d", cat, n, counts.Counts[cat])
		}
	}
	if counts.TierEsfEap != core.TierBom {
		t.Errorf("expected eSF/eAP tier Bom, got %s", counts.TierEsfEap)
	}
	if counts.TierEmulti != core.TierRegular {
		t.Errorf("expected eMulti tier Regular, got %s", counts.TierEmulti)
	}
}

func TestTeamCountsNoPayments(t *testing.T) {
	var data FinancingData
	counts := data.TeamCounts()

	if len(counts.Counts) != 0 {
		t.Errorf("expected empty counts, got %v", counts.Counts)
	}
	if counts.TierEsfEap != core.TierOtimo || counts.TierEmulti != core.TierOtimo {
		t.Errorf("missing classification should default to the best tier")
	}
}

func TestPlanBreakdowns(t *testing.T) {
	data := decodeSample(t)
	rows := data.PlanBreakdowns()

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	first := rows[0]
	if first.ShortName != "eSF/eAP" {
		t.Errorf("expected short name eSF/eAP, got %q", first.ShortName)
	}
	if !first.HasDiscount {
		t.Error("negative vlDesconto should flag a discount")
	}
	if !first.Active {
		t.Error("positive effective transfer should flag the plan active")
	}
	wantPct := 118500.0 / 120000.0 * 100.0
	if diff := first.EffectivePercent - wantPct; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected effective percent %f, got %f", wantPct, first.EffectivePercent)
	}

	second := rows[1]
	if second.HasDiscount {
		t.Error("zero discount should not flag a discount")
	}
	if second.EffectivePercent != 100.0 {
		t.Errorf("expected 100%% effectivation, got %f", second.EffectivePercent)
	}
}

func TestShortPlanNameTruncatesUnknown(t *testing.T) {
	long := "Programa municipal de expansão da atenção primária"
	short := shortPlanName(long)
	if got := len([]rune(short)); got != 20 {
		t.Errorf("expected 20-rune truncation, got %d runes (%q)", got, short)
	}
}

func TestPopulation(t *testing.T) {
	data := decodeSample(t)
	if got := data.Population(); got != 35000 {
		t.Errorf("expected population 35000, got %d", got)
	}
	var empty FinancingData
	if got := empty.Population(); got != 0 {
		t.Errorf("expected zero population for empty payload, got %d", got)
	}
}
