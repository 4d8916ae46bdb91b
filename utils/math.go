package utils

import "math"

// Round rounds a number to 2 decimal places for monetary calculations
func Round(num float64) float64 {
	return math.Round(num*MoneyPrecision) / MoneyPrecision
}

// IsFiniteAmount reports whether a value is usable as a money amount.
func IsFiniteAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// WithinTolerance reports whether two monetary values agree within
// MoneyTolerance. Used for sum invariants (commission+net==amount,
// group percentages==100).
func WithinTolerance(a, b float64) bool {
	return math.Abs(a-b) <= MoneyTolerance
}
