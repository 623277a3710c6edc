// Package money formats monetary values for API responses. Amounts are
// carried as arbitrary-precision decimals and rendered per-currency, with
// Ugandan shillings as the house default.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Dash is the display placeholder for values that cannot be computed.
const Dash = "—"

var printer = message.NewPrinter(language.MustParse("en-UG"))

// Format renders amount with the ISO code prefix and locale digit grouping,
// rounded to the currency's cash scale (zero fraction digits for UGX).
func Format(unit currency.Unit, amount decimal.Decimal) string {
	scale, _ := currency.Cash.Rounding(unit)
	rounded := amount.Round(int32(scale))
	if scale == 0 {
		return printer.Sprintf("%s %d", unit.String(), rounded.IntPart())
	}
	f, _ := rounded.Float64()
	return printer.Sprintf("%s %.2f", unit.String(), f)
}

// FormatUGX renders amount as Ugandan shillings.
func FormatUGX(amount decimal.Decimal) string {
	return Format(currency.MustParseISO("UGX"), amount)
}

// FormatPercent renders num/den as a percentage with one fractional digit.
// A zero or negative denominator yields the display placeholder rather than
// a division artifact.
func FormatPercent(num, den decimal.Decimal) string {
	if den.LessThanOrEqual(decimal.Zero) {
		return Dash
	}
	pct := num.Div(den).Mul(decimal.NewFromInt(100))
	return pct.StringFixed(1) + "%"
}
