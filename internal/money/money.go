// Package money adds and formats the float amounts stored in budget documents.
package money

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Accumulator sums amounts in decimal so the total is independent of insertion order.
// The zero value is ready to use.
type Accumulator struct {
	total decimal.Decimal
}

// Add ignores non-finite values; decimal cannot represent them.
func (a *Accumulator) Add(amount float64) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return
	}

	a.total = a.total.Add(decimal.NewFromFloat(amount))
}

func (a *Accumulator) Float64() float64 {
	return a.total.InexactFloat64()
}

// Sum returns the exact decimal sum of amounts as a float64.
func Sum(amounts ...float64) float64 {
	var acc Accumulator
	for _, a := range amounts {
		acc.Add(a)
	}

	return acc.Float64()
}

// Add returns a+b computed in decimal.
func Add(a, b float64) float64 {
	return Sum(a, b)
}

var printer = message.NewPrinter(language.English)

// Format renders an amount with grouping and at most two fraction digits, prefixed by the currency symbol:
// Format("GH₵", 1500) == "GH₵1,500".
func Format(currency string, amount float64) string {
	return currency + printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))
}
