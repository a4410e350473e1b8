package i18n

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders a BRL amount with two decimals using the number
// separators of lang: "R$ 1,234.50" in English, "R$ 1.234,50" in Portuguese.
func FormatCurrency(lang string, amount decimal.Decimal) string {
	group, point := ",", "."
	if Normalize(lang) == Portuguese {
		group, point = ".", ","
	}

	fixed := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.Round(2).IsNegative() {
		b.WriteString("-")
	}
	b.WriteString("R$ ")
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(group)
		}
		b.WriteRune(digit)
	}
	b.WriteString(point)
	b.WriteString(frac)
	return b.String()
}
