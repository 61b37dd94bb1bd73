// Package report renders the municipal financing projection report as a
// multi-page PDF. A rich template-driven backend is tried first; a
// plain fallback backend guarantees a readable document when the rich
// path cannot run.
package report

// RGB is a 24-bit color.
type RGB struct {
	R, G, B int
}

// Style carries the report palette and page metrics. It is immutable
// once passed to NewEngine.
type Style struct {
	Heading   RGB // section titles
	Body      RGB // running text
	Muted     RGB // secondary labels
	BannerBg  RGB // highlight banner background
	AccentRed RGB // big percentage figures
	BarRed    RGB // current-scenario bar
	BarBlue   RGB // potential-scenario bar and arrows
	Green     RGB // motivational message
	Shadow    RGB // card drop shadow
	BoxShadow RGB // highlight box shadow
	Grid      RGB // chart grid lines
	Track     RGB // progress bar track

	CardLossTheme   RGB
	CardLossValue   RGB
	CardYearTheme   RGB
	CardYearValue   RGB
	CardActualTheme RGB
	CardActualValue RGB

	PageWidth  float64
	Margin     float64
	PageBreak  float64
	CardHeight float64
}

// DefaultStyle returns the standard palette.
func DefaultStyle() Style {
	return Style{
		Heading:   RGB{14, 53, 102},
		Body:      RGB{51, 65, 85},
		Muted:     RGB{117, 128, 138},
		BannerBg:  RGB{136, 19, 19},
		AccentRed: RGB{172, 16, 16},
		BarRed:    RGB{220, 53, 69},
		BarBlue:   RGB{40, 116, 240},
		Green:     RGB{40, 167, 69},
		Shadow:    RGB{226, 231, 240},
		BoxShadow: RGB{207, 213, 225},
		Grid:      RGB{200, 200, 200},
		Track:     RGB{237, 242, 250},

		CardLossTheme:   RGB{231, 76, 60},
		CardLossValue:   RGB{192, 57, 43},
		CardYearTheme:   RGB{243, 156, 18},
		CardYearValue:   RGB{211, 133, 10},
		CardActualTheme: RGB{46, 204, 113},
		CardActualValue: RGB{39, 174, 96},

		PageWidth:  210,
		Margin:     12,
		PageBreak:  18,
		CardHeight: 72,
	}
}

// mixWithWhite lightens a color toward white. factor 0 keeps the color,
// factor 1 yields pure white.
func mixWithWhite(c RGB, factor float64) RGB {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	mix := func(v int) int {
		return v + int(float64(255-v)*factor)
	}
	return RGB{mix(c.R), mix(c.G), mix(c.B)}
}
