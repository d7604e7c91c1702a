// Package projection derives the donor-facing totals from the ledger and the
// distance driven so far. Everything here is pure and never fails.
package projection

import (
	"math"

	"github.com/shopspring/decimal"

	"flabi/internal/domain"
)

// Totals are the three derived numbers shown on the donate section.
type Totals struct {
	PerKmRate  decimal.Decimal
	Fixed      decimal.Decimal
	Kilometers decimal.Decimal
	Projected  decimal.Decimal
}

// Display is the rendering of Totals with exactly two decimals.
type Display struct {
	PerKmRate  string `json:"total_per_km"`
	Fixed      string `json:"total_fixed"`
	Kilometers string `json:"km"`
	Projected  string `json:"projected_total"`
}

// Compute sums the ledger and projects the total for km kilometers.
// Negative or non-finite km counts as zero.
func Compute(pledges []domain.PerKmPledge, donations []domain.FixedDonation, km float64) Totals {
	rate := TotalPerKmRate(pledges)
	fixed := TotalFixed(donations)
	dist := amount(km)
	return Totals{
		PerKmRate:  rate,
		Fixed:      fixed,
		Kilometers: dist,
		Projected:  dist.Mul(rate).Add(fixed),
	}
}

// TotalPerKmRate sums AmountPerKm over all pledges.
func TotalPerKmRate(pledges []domain.PerKmPledge) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range pledges {
		sum = sum.Add(amount(p.AmountPerKm))
	}
	return sum
}

// TotalFixed sums Amount over all fixed donations.
func TotalFixed(donations []domain.FixedDonation) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range donations {
		sum = sum.Add(amount(d.Amount))
	}
	return sum
}

// amount maps malformed values (NaN, Inf, negative) to zero.
func amount(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// Display renders t with two decimals each.
func (t Totals) Display() Display {
	return Display{
		PerKmRate:  Fixed2(t.PerKmRate),
		Fixed:      Fixed2(t.Fixed),
		Kilometers: Fixed2(t.Kilometers),
		Projected:  Fixed2(t.Projected),
	}
}

// Fixed2 renders d rounded half away from zero to two decimals.
func Fixed2(d decimal.Decimal) string {
	return d.StringFixed(2)
}
