package core

// Summarize computes the aggregate financial figures from the upstream
// budget-plan lines and the caller-edited monthly losses.
//
// Losses align to items by position. The loss list comes from free-form
// user edits that can fall out of sync with upstream data between report
// regenerations, so a length mismatch is normalized silently: shorter
// lists are padded with zeros at the tail, longer lists truncated.
// Whether losses should instead be keyed by budget-plan label is an open
// question with the system owner; the positional behavior is kept for
// compatibility.
//
// The function is total: any input, including empty slices, yields a
// fully defined summary. The percentage is zero when nothing was
// received, never a division by zero.
func Summarize(items []BudgetPlanSummaryItem, losses []float64) FinancialSummary {
	aligned := make([]float64, len(items))
	copy(aligned, losses)

	var totalReceived, totalLoss float64
	for i, item := range items {
		totalReceived += item.MonthlyTransfer
		totalLoss += aligned[i]
	}

	annualDifference := totalLoss * 12
	annualReceived := totalReceived * 12

	var percent float64
	if annualReceived != 0 {
		percent = annualDifference / annualReceived * 100
	}

	return FinancialSummary{
		TotalMonthlyLoss:      totalLoss,
		TotalAnnualDifference: annualDifference,
		AnnualLossPercent:     percent,
		TotalReceived:         totalReceived,
	}
}

// MonthlyPotential is the monthly amount the municipality would receive
// with the edited losses recovered.
func (s FinancialSummary) MonthlyPotential() float64 {
	return s.TotalReceived + s.TotalMonthlyLoss
}

// AnnualReceived is the received amount annualized.
func (s FinancialSummary) AnnualReceived() float64 {
	return s.TotalReceived * 12
}

// AnnualPotential is the potential amount annualized.
func (s FinancialSummary) AnnualPotential() float64 {
	return s.AnnualReceived() + s.TotalAnnualDifference
}
