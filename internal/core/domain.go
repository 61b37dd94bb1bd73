package core

import (
	"errors"
	"strings"
)

// ClassificationTier is one of the four ordered quality ratings a
// primary-care team can receive from the federal financing program.
// The order matters for best/worst-case narrative, not for aggregation.
const (
	TierOtimo      ClassificationTier = "Ótimo"
	TierBom        ClassificationTier = "Bom"
	TierSuficiente ClassificationTier = "Suficiente"
	TierRegular    ClassificationTier = "Regular"
)

// Team categories recognized by the reference tables. Quantities for
// categories outside this set are ignored by the projection, never an error.
const (
	TeamESF          TeamCategory = "eSF"
	TeamEAP20h       TeamCategory = "eAP 20h"
	TeamEAP30h       TeamCategory = "eAP 30h"
	TeamEMultiAmpl   TeamCategory = "eMULTI Ampl."
	TeamEMultiCompl  TeamCategory = "eMULTI Compl."
	TeamEMultiEstr   TeamCategory = "eMULTI Estrat."
	TeamESBComumI    TeamCategory = "eSB Comum I"
	TeamESBComumII   TeamCategory = "eSB Comum II"
	TeamESBQuilombI  TeamCategory = "eSB Quil. Assent. I"
	TeamESBQuilombII TeamCategory = "eSB Quil. Assent. II"
	TeamESB20h       TeamCategory = "eSB 20h"
	TeamESB30h       TeamCategory = "eSB 30h"
)

type (
	ClassificationTier string

	TeamCategory string

	// MunicipalTeamCounts is the per municipality-period snapshot of
	// homologated team quantities plus the tiers actually reported.
	// Absent categories count as zero.
	MunicipalTeamCounts struct {
		Counts map[TeamCategory]int

		// Reported quality tiers. eSF and eAP share a single tier per
		// municipality-period; eMulti may report its own.
		TierEsfEap ClassificationTier
		TierEmulti ClassificationTier
	}

	// BudgetPlanSummaryItem is one upstream-reported line: a budget-plan
	// label and the amount actually transferred that month. Order follows
	// the upstream response and carries no meaning beyond display.
	BudgetPlanSummaryItem struct {
		PlanLabel       string
		MonthlyTransfer float64
		EquityStratum   string
		Population      int
	}

	// FinancialSummary aggregates the caller-edited monthly losses
	// against the amounts actually received.
	FinancialSummary struct {
		TotalMonthlyLoss      float64
		TotalAnnualDifference float64
		AnnualLossPercent     float64
		TotalReceived         float64
	}

	// TierProjection is one row of the projection table: the monthly
	// total if every team in the municipality were rated at Tier.
	TierProjection struct {
		Tier      ClassificationTier
		Total     float64
		Breakdown string
	}

	// ClassificationProjectionTable holds one TierProjection per tier,
	// ordered best to worst.
	ClassificationProjectionTable struct {
		Rows []TierProjection
	}

	// PlanBreakdown is the per-budget-plan detail used by the detailed
	// report variant.
	PlanBreakdown struct {
		Name             string
		ShortName        string
		FullValue        float64
		Adjustment       float64
		Discount         float64
		Effective        float64
		EffectivePercent float64
		HasDiscount      bool
		Active           bool
	}
)

var ErrUnknownTier = errors.New("unknown classification tier")

// Tiers lists the classification tiers from best to worst.
func Tiers() []ClassificationTier {
	return []ClassificationTier{TierOtimo, TierBom, TierSuficiente, TierRegular}
}

// ParseTier normalizes an upstream tier label. Upstream sometimes sends
// labels without accents or with stray casing.
func ParseTier(s string) (ClassificationTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ótimo", "otimo":
		return TierOtimo, nil
	case "bom":
		return TierBom, nil
	case "suficiente":
		return TierSuficiente, nil
	case "regular":
		return TierRegular, nil
	}
	return "", ErrUnknownTier
}

// ByTier returns the projection row for the given tier, or a zero row
// when the tier is not present.
func (t ClassificationProjectionTable) ByTier(tier ClassificationTier) TierProjection {
	for _, row := range t.Rows {
		if row.Tier == tier {
			return row
		}
	}
	return TierProjection{Tier: tier}
}

// MonthlyPotential is the monthly amount the municipality would receive
// with every team at the best tier.
func (t ClassificationProjectionTable) MonthlyPotential() float64 {
	return t.ByTier(TierOtimo).Total
}
