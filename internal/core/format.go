// Package core holds the pure financial domain: reference value tables,
// the classification projection, the financial summary and the Brazilian
// numeric formatting shared by every report backend.
package core

import (
	"fmt"
	"strings"
)

// FormatBR renders a number in the Brazilian convention: full stop as
// thousands separator, comma as decimal separator (1.234.567,89). The
// convention is fixed regardless of host locale.
func FormatBR(value float64, decimals int) string {
	negative := value < 0
	if negative {
		value = -value
	}

	formatted := fmt.Sprintf("%.*f", decimals, value)

	intPart := formatted
	fracPart := ""
	if i := strings.IndexByte(formatted, '.'); i >= 0 {
		intPart, fracPart = formatted[:i], formatted[i+1:]
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	n := len(intPart)
	for i, c := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// FormatBRL renders a currency amount with the R$ prefix.
func FormatBRL(value float64, decimals int) string {
	return "R$ " + FormatBR(value, decimals)
}

// FormatPercentBR renders a percentage with two decimals, e.g. "12,34%".
func FormatPercentBR(value float64) string {
	return FormatBR(value, 2) + "%"
}

// FormatMillions renders a value as millions with one decimal, for chart
// axis tick labels ("2,4mi").
func FormatMillions(value float64) string {
	return FormatBR(value/1e6, 1) + "mi"
}

// SanitizeLatin1 reduces text to the repertoire of the standard PDF core
// fonts. Unsupported runes are dropped rather than failing the render: a
// single odd glyph in a municipality name must never abort a report.
func SanitizeLatin1(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= 0xFF {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SafeRatio returns value/total clamped to [0, 1], with zero for an
// empty or negative total.
func SafeRatio(value, total float64) float64 {
	if total <= 0 {
		return 0
	}
	ratio := value / total
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}
