package types

import "fmt"

// TaxRate is a tax percentage expressed in basis points so that rate
// arithmetic stays integer-only alongside Money. 1% = 100 basis points,
// so 10% = TaxRate(1000) and 8.25% = TaxRate(825).
type TaxRate int64

// Percent creates a TaxRate from a whole percentage (10 -> 10%).
func Percent(pct int64) TaxRate { return TaxRate(pct * 100) }

// BasisPoints creates a TaxRate from basis points (825 -> 8.25%).
func BasisPoints(bps int64) TaxRate { return TaxRate(bps) }

// BasisPoints returns the rate in basis points.
func (r TaxRate) BasisPoints() int64 { return int64(r) }

// Valid reports whether the rate lies in the 0–100% range.
func (r TaxRate) Valid() bool { return r >= 0 && r <= 10000 }

// Apply computes the tax on an amount, rounding half-up to the smallest
// currency unit. Rounding happens exactly once, at this boundary.
func (r TaxRate) Apply(m Money) Money {
	return Money{
		Amount:   divRoundHalfUp(m.Amount*int64(r), 10000),
		Currency: m.Currency,
	}
}

// String formats the rate as a percentage, dropping trailing zero cents:
// "10%" for Percent(10), "8.25%" for BasisPoints(825).
func (r TaxRate) String() string {
	whole := int64(r) / 100
	frac := int64(r) % 100
	if frac < 0 {
		frac = -frac
	}
	if frac == 0 {
		return fmt.Sprintf("%d%%", whole)
	}
	if frac%10 == 0 {
		return fmt.Sprintf("%d.%d%%", whole, frac/10)
	}
	return fmt.Sprintf("%d.%02d%%", whole, frac)
}

// divRoundHalfUp divides n by d rounding half away from zero.
// d must be positive.
func divRoundHalfUp(n, d int64) int64 {
	if n >= 0 {
		return (n + d/2) / d
	}
	return -((-n + d/2) / d)
}
