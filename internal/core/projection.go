package core

import (
	"fmt"
	"strings"
)

// Short labels used in breakdown strings.
var breakdownLabels = map[TeamCategory]string{
	TeamESF:          "eSF",
	TeamEAP20h:       "eAP 20h",
	TeamEAP30h:       "eAP",
	TeamEMultiAmpl:   "eMulti",
	TeamEMultiCompl:  "eMulti Compl.",
	TeamEMultiEstr:   "eMulti Estrat.",
	TeamESBComumI:    "eSB",
	TeamESBComumII:   "eSB II",
	TeamESBQuilombI:  "eSB Quil. I",
	TeamESBQuilombII: "eSB Quil. II",
	TeamESB20h:       "eSB 20h",
	TeamESB30h:       "eSB 30h",
}

// Project answers, for every classification tier, "what would this
// municipality receive per month if every one of its teams were rated at
// that tier". Every present category contributes to every tier,
// regardless of the tier it actually reported: the actual current amount
// is a different number, reported by Summarize from upstream transfer
// values, and the two can legitimately diverge when upstream lags the
// reference tables.
func Project(counts MunicipalTeamCounts) ClassificationProjectionTable {
	table := ClassificationProjectionTable{Rows: make([]TierProjection, 0, 4)}

	for _, tier := range Tiers() {
		var total float64
		var parts []string

		for _, cat := range ReferenceCategories() {
			n := counts.Counts[cat]
			if n <= 0 {
				continue
			}
			contribution := float64(n) * TeamMonthlyValue(cat, tier)
			total += contribution
			parts = append(parts, fmt.Sprintf("%s: %dx%s", breakdownLabels[cat], n, FormatBRL(contribution, 0)))
		}

		breakdown := "Nenhuma equipe"
		if len(parts) > 0 {
			breakdown = strings.Join(parts, " | ")
		}

		table.Rows = append(table.Rows, TierProjection{
			Tier:      tier,
			Total:     total,
			Breakdown: breakdown,
		})
	}

	return table
}
