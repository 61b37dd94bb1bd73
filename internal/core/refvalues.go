package core

// Monthly reference values per team and tier, as published by the federal
// financing program. Two independent components exist: the linkage
// ("vínculo e acompanhamento") subsidy, paid only to eSF/eAP teams, and
// the quality subsidy, paid to every category.
//
// The tables are fixed at compile time and never mutated; lookups for
// pairs outside the tables return zero so that upstream data evolving
// ahead of the tables can never abort the pipeline.

var linkageValues = map[TeamCategory]map[ClassificationTier]float64{
	TeamESF: {
		TierOtimo: 8000, TierBom: 6000, TierSuficiente: 4000, TierRegular: 2000,
	},
	TeamEAP30h: {
		TierOtimo: 4000, TierBom: 3000, TierSuficiente: 2000, TierRegular: 1000,
	},
	TeamEAP20h: {
		TierOtimo: 3000, TierBom: 2250, TierSuficiente: 1500, TierRegular: 750,
	},
}

var qualityValues = map[TeamCategory]map[ClassificationTier]float64{
	TeamESF: {
		TierOtimo: 8000, TierBom: 6000, TierSuficiente: 4000, TierRegular: 2000,
	},
	TeamEAP30h: {
		TierOtimo: 4000, TierBom: 3000, TierSuficiente: 2000, TierRegular: 1000,
	},
	TeamEAP20h: {
		TierOtimo: 3000, TierBom: 2250, TierSuficiente: 1500, TierRegular: 750,
	},
	TeamEMultiAmpl: {
		TierOtimo: 9000, TierBom: 6750, TierSuficiente: 4500, TierRegular: 2250,
	},
	TeamEMultiCompl: {
		TierOtimo: 6000, TierBom: 4500, TierSuficiente: 3000, TierRegular: 1500,
	},
	TeamEMultiEstr: {
		TierOtimo: 3000, TierBom: 2250, TierSuficiente: 1500, TierRegular: 750,
	},
	TeamESBComumI: {
		TierOtimo: 2449, TierBom: 1836.75, TierSuficiente: 1224.50, TierRegular: 612.25,
	},
	TeamESBComumII: {
		TierOtimo: 3267, TierBom: 2450.25, TierSuficiente: 1633.50, TierRegular: 816.75,
	},
	TeamESBQuilombI: {
		TierOtimo: 3673.50, TierBom: 2755.13, TierSuficiente: 1836.75, TierRegular: 918.38,
	},
	TeamESBQuilombII: {
		TierOtimo: 4900.50, TierBom: 3675.38, TierSuficiente: 2450.25, TierRegular: 1225.13,
	},
	TeamESB20h: {
		TierOtimo: 2449, TierBom: 1836.75, TierSuficiente: 1224.50, TierRegular: 612.25,
	},
	TeamESB30h: {
		TierOtimo: 3267, TierBom: 2450.25, TierSuficiente: 1633.50, TierRegular: 816.75,
	},
}

// LinkageValue returns the monthly linkage subsidy for one team of the
// given category at the given tier. Categories without a linkage
// component (eMulti, oral health) yield zero.
func LinkageValue(cat TeamCategory, tier ClassificationTier) float64 {
	return lookupValue(linkageValues, cat, tier)
}

// QualityValue returns the monthly quality subsidy for one team of the
// given category at the given tier.
func QualityValue(cat TeamCategory, tier ClassificationTier) float64 {
	return lookupValue(qualityValues, cat, tier)
}

// TeamMonthlyValue is the combined monthly subsidy (linkage + quality)
// for a single team.
func TeamMonthlyValue(cat TeamCategory, tier ClassificationTier) float64 {
	return LinkageValue(cat, tier) + QualityValue(cat, tier)
}

// ReferenceCategories lists every category present in the quality table,
// in a fixed display order.
func ReferenceCategories() []TeamCategory {
	return []TeamCategory{
		TeamESF, TeamEAP20h, TeamEAP30h,
		TeamEMultiAmpl, TeamEMultiCompl, TeamEMultiEstr,
		TeamESBComumI, TeamESBComumII,
		TeamESBQuilombI, TeamESBQuilombII,
		TeamESB20h, TeamESB30h,
	}
}

func lookupValue(table map[TeamCategory]map[ClassificationTier]float64, cat TeamCategory, tier ClassificationTier) float64 {
	byTier, ok := table[cat]
	if !ok {
		return 0
	}
	return byTier[tier]
}
