package core

import "testing"

func TestLookupUnknownPairReturnsZero(t *testing.T) {
	tests := []struct {
		name string
		cat  TeamCategory
		tier ClassificationTier
	}{
		{"unknown category", TeamCategory("eXX futuro"), TierBom},
		{"unknown tier", TeamESF, ClassificationTier("Excelente")},
		{"linkage-less category", TeamEMultiAmpl, TierOtimo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.name != "linkage-less category" {
				if got := QualityValue(tt.cat, tt.tier); got != 0 {
					t.Errorf("QualityValue(%s, %s) = %v, want 0", tt.cat, tt.tier, got)
				}
			}
			if got := LinkageValue(tt.cat, tt.tier); tt.name == "linkage-less category" && got != 0 {
				t.Errorf("LinkageValue(%s, %s) = %v, want 0", tt.cat, tt.tier, got)
			}
		})
	}
}

func TestReferenceValuesOrderedPerCategory(t *testing.T) {
	tiers := Tiers()
	for _, cat := range ReferenceCategories() {
		for i := 1; i < len(tiers); i++ {
			better := TeamMonthlyValue(cat, tiers[i-1])
			worse := TeamMonthlyValue(cat, tiers[i])
			if better < worse {
				t.Errorf("%s: value(%s) = %v < value(%s) = %v", cat, tiers[i-1], better, tiers[i], worse)
			}
		}
	}
}

func TestTeamMonthlyValueCombinesComponents(t *testing.T) {
	if got := TeamMonthlyValue(TeamESF, TierOtimo); got != 16000 {
		t.Errorf("TeamMonthlyValue(eSF, Ótimo) = %v, want 16000", got)
	}
	// Oral-health teams receive quality only.
	if got := TeamMonthlyValue(TeamESBComumI, TierOtimo); got != 2449 {
		t.Errorf("TeamMonthlyValue(eSB Comum I, Ótimo) = %v, want 2449", got)
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    ClassificationTier
		wantErr bool
	}{
		{"Ótimo", TierOtimo, false},
		{"otimo", TierOtimo, false},
		{" BOM ", TierBom, false},
		{"Suficiente", TierSuficiente, false},
		{"regular", TierRegular, false},
		{"Péssimo", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTier(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTier(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTier(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
