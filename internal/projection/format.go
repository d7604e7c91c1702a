package projection

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatCHF renders d as a Swiss franc amount, e.g. "CHF 1,225.50".
func FormatCHF(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprintf("%v %v", currency.CHF, number.Decimal(f, number.Scale(2)))
}

// FormatFloatCHF is FormatCHF for a raw ledger amount.
func FormatFloatCHF(v float64) string {
	return FormatCHF(amount(v))
}
