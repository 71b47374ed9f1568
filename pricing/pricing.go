// Package pricing derives subtotals, tax and totals from cart lines.
//
// Everything here is a pure function over the lines it is handed; the
// package holds no state and talks to no store. All arithmetic is
// integer-only on Money minor units. Tax rounding happens exactly once
// per result: per-line values round at the line boundary, cart-level tax
// accumulates exact basis-point numerators across lines and rounds a
// single time, so per-line rounding error never compounds.
package pricing

import (
	"github.com/xraph/till/cart"
	"github.com/xraph/till/types"
)

// Totals is the priced summary of a line set.
type Totals struct {
	Subtotal types.Money `json:"subtotal"`
	Tax      types.Money `json:"tax"`
	Total    types.Money `json:"total"`
}

// LineSubtotal returns price × quantity for one line.
func LineSubtotal(l *cart.Line) types.Money {
	return l.Price.Multiply(int64(l.Quantity))
}

// LineTax returns the tax on one line, rounded half-up at the line
// boundary.
func LineTax(l *cart.Line) types.Money {
	return l.TaxRate.Apply(LineSubtotal(l))
}

// Subtotal sums the line subtotals. Currency follows the lines; an
// empty set yields a zero value in the given currency.
func Subtotal(lines []*cart.Line, currency string) types.Money {
	sum := types.Zero(currency)
	for _, l := range lines {
		sum = sum.Add(LineSubtotal(l))
	}
	return sum
}

// Tax sums the exact per-line tax numerators and rounds once at the end.
func Tax(lines []*cart.Line, currency string) types.Money {
	var numerator int64
	for _, l := range lines {
		numerator += LineSubtotal(l).Amount * l.TaxRate.BasisPoints()
	}
	return types.Money{
		Amount:   divRoundHalfUp(numerator, 10000),
		Currency: currency,
	}
}

// Total returns subtotal plus tax.
func Total(lines []*cart.Line, currency string) types.Money {
	return Subtotal(lines, currency).Add(Tax(lines, currency))
}

// Compute prices a full line set in one pass over the three results.
func Compute(lines []*cart.Line, currency string) Totals {
	sub := Subtotal(lines, currency)
	tax := Tax(lines, currency)
	return Totals{
		Subtotal: sub,
		Tax:      tax,
		Total:    sub.Add(tax),
	}
}

// divRoundHalfUp divides n by d rounding half away from zero. d must be
// positive.
func divRoundHalfUp(n, d int64) int64 {
	if n >= 0 {
		return (n + d/2) / d
	}
	return -((-n + d/2) / d)
}
