package core

import (
	"strings"
	"testing"
)

func TestProjectSingleESF(t *testing.T) {
	counts := MunicipalTeamCounts{
		Counts:     map[TeamCategory]int{TeamESF: 2},
		TierEsfEap: TierBom,
	}

	table := Project(counts)

	tests := []struct {
		tier ClassificationTier
		want float64
	}{
		{TierOtimo, 2 * (8000 + 8000)},
		{TierBom, 2 * (6000 + 6000)},
		{TierSuficiente, 2 * (4000 + 4000)},
		{TierRegular, 2 * (2000 + 2000)},
	}
	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			row := table.ByTier(tt.tier)
			if !almostEqual(row.Total, tt.want) {
				t.Errorf("Total(%s) = %v, want %v", tt.tier, row.Total, tt.want)
			}
			if !strings.Contains(row.Breakdown, "eSF: 2x") {
				t.Errorf("Breakdown(%s) = %q, want eSF contribution", tt.tier, row.Breakdown)
			}
		})
	}
}

func TestProjectMixedCategories(t *testing.T) {
	counts := MunicipalTeamCounts{
		Counts: map[TeamCategory]int{
			TeamESF:        3,
			TeamEAP30h:     1,
			TeamEMultiAmpl: 2,
			TeamESBComumI:  1,
		},
		TierEsfEap: TierBom,
		TierEmulti: TierSuficiente,
	}

	table := Project(counts)

	// eMulti and eSB have no linkage subsidy, only quality.
	wantOtimo := 3*(8000+8000) + 1*(4000+4000) + 2*9000 + 1*2449.0
	row := table.ByTier(TierOtimo)
	if !almostEqual(row.Total, wantOtimo) {
		t.Errorf("Total(Ótimo) = %v, want %v", row.Total, wantOtimo)
	}

	// The reported tiers do not restrict the hypothetical: every present
	// category contributes to every tier.
	wantRegular := 3*(2000+2000) + 1*(1000+1000) + 2*2250 + 1*612.25
	row = table.ByTier(TierRegular)
	if !almostEqual(row.Total, wantRegular) {
		t.Errorf("Total(Regular) = %v, want %v", row.Total, wantRegular)
	}
}

func TestProjectNoTeams(t *testing.T) {
	table := Project(MunicipalTeamCounts{Counts: map[TeamCategory]int{}})

	if len(table.Rows) != 4 {
		t.Fatalf("len(Rows) = %d, want 4", len(table.Rows))
	}
	for _, row := range table.Rows {
		if row.Total != 0 {
			t.Errorf("Total(%s) = %v, want 0", row.Tier, row.Total)
		}
		if row.Breakdown != "Nenhuma equipe" {
			t.Errorf("Breakdown(%s) = %q, want %q", row.Tier, row.Breakdown, "Nenhuma equipe")
		}
	}
}

func TestProjectNilCountsMap(t *testing.T) {
	table := Project(MunicipalTeamCounts{})
	if got := table.MonthlyPotential(); got != 0 {
		t.Errorf("MonthlyPotential() = %v, want 0", got)
	}
}

func TestProjectMonotonicAcrossTiers(t *testing.T) {
	counts := MunicipalTeamCounts{Counts: map[TeamCategory]int{}}
	for _, cat := range ReferenceCategories() {
		counts.Counts[cat] = 1
	}

	table := Project(counts)
	tiers := Tiers()
	for i := 1; i < len(tiers); i++ {
		better := table.ByTier(tiers[i-1]).Total
		worse := table.ByTier(tiers[i]).Total
		if better < worse {
			t.Errorf("Total(%s) = %v < Total(%s) = %v", tiers[i-1], better, tiers[i], worse)
		}
	}
}
