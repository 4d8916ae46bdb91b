package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidateRequired checks if a string field is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ValidatePositive checks if a number is positive
func ValidatePositive(value float64, fieldName string) error {
	if value <= 0 {
		return NewValidationError(fmt.Sprintf("%s must be positive", fieldName))
	}
	return nil
}

// ValidateNonNegative checks if a number is non-negative
func ValidateNonNegative(value float64, fieldName string) error {
	if value < 0 {
		return NewValidationError(fmt.Sprintf("%s cannot be negative", fieldName))
	}
	return nil
}

// ValidateNotEmpty checks if a slice is not empty
func ValidateNotEmpty[T any](slice []T, fieldName string) error {
	if len(slice) == 0 {
		return NewValidationError(fmt.Sprintf("%s cannot be empty", fieldName))
	}
	return nil
}

// ValidateAmount checks that a value is a finite, positive money amount.
func ValidateAmount(value float64, fieldName string) error {
	if !IsFiniteAmount(value) {
		return NewValidationError(fmt.Sprintf("%s must be a finite number", fieldName))
	}
	return ValidatePositive(value, fieldName)
}

// ValidateCommissionRate checks that a commission rate is finite, within
// [MinCommissionRate, MaxCommissionRate] and carries at most 2 decimal
// places. Rates like 12.345 are rejected rather than silently rounded.
func ValidateCommissionRate(rate float64) error {
	if !IsFiniteAmount(rate) {
		return NewValidationError("InvalidRate: commission rate must be a finite number")
	}
	if rate < MinCommissionRate || rate > MaxCommissionRate {
		return NewValidationError(fmt.Sprintf("InvalidRate: commission rate must be between %g and %g", MinCommissionRate, MaxCommissionRate))
	}
	d := decimal.NewFromFloat(rate)
	if !d.Equal(d.Round(2)) {
		return NewValidationError("InvalidRate: commission rate must have at most 2 decimal places")
	}
	return nil
}

// ValidateDistributionPercentages checks that a set of group percentages
// sums to exactly 100 within MoneyTolerance and that every percentage is
// positive.
func ValidateDistributionPercentages(percentages []float64) error {
	if len(percentages) == 0 {
		return NewValidationError("at least one distribution group is required")
	}
	var total float64
	for i, pct := range percentages {
		if !IsFiniteAmount(pct) || pct <= 0 {
			return NewValidationError(fmt.Sprintf("group %d percentage must be positive", i+1))
		}
		total += pct
	}
	if !WithinTolerance(total, FullDistributionPercent) {
		return NewValidationError(fmt.Sprintf("distribution group percentages must sum to 100, got %.2f", total))
	}
	return nil
}

// ValidatePayoutMonth checks a YYYY-MM month key.
func ValidatePayoutMonth(month string) error {
	if _, err := ParsePayoutMonth(month); err != nil {
		return NewValidationError(fmt.Sprintf("invalid payout month %q, expected YYYY-MM", month))
	}
	return nil
}
