package payroll

import (
	"strings"

	"go-payroll/internal/company"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPayslipMoney is the frozen payslip format: symbol followed by the
// amount with exactly two decimals, no grouping, independent of locale.
func FormatPayslipMoney(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}

var displayPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatDisplayMoney is the on-screen format. USD shows grouped cents
// ("$1,234.50"); RWF has no minor unit and shows grouped whole francs
// ("RWF 1,235"). The amount never passes through float64: the whole part is
// grouped by the locale printer and the fraction comes from StringFixed.
// Whole parts beyond int64 are printed ungrouped.
func FormatDisplayMoney(currency company.Currency, amount decimal.Decimal) string {
	scale := int32(2)
	if currency == company.CurrencyRWF {
		scale = 0
	}
	rounded := amount.Round(scale)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	fixed := rounded.StringFixed(scale)
	whole, fraction, _ := strings.Cut(fixed, ".")

	if w := rounded.Truncate(0).BigInt(); w.IsInt64() {
		whole = displayPrinter.Sprintf("%d", w.Int64())
	}
	if fraction != "" {
		whole += "." + fraction
	}
	return sign + currency.Symbol() + whole
}
