// Package pricing contains the pure computation core of the transaction
// engine: unit/quantity conversion, discount eligibility, custom blend
// pricing and totals composition. Everything here is deterministic and
// side-effect free; amounts are int64 cents so repeated recomputation is
// bit-stable.
package pricing

import "math"

// Cents converts a decimal currency amount to cents, rounding half away
// from zero. Credit lines carry negative amounts, so the sign matters.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Decimal converts cents back to a decimal currency amount
func Decimal(cents int64) float64 {
	return float64(cents) / 100
}

// roundCents rounds an intermediate float cent value to whole cents,
// half away from zero
func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
