package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCommissionRate(t *testing.T) {
	assert.NoError(t, ValidateCommissionRate(0))
	assert.NoError(t, ValidateCommissionRate(10))
	assert.NoError(t, ValidateCommissionRate(12.5))
	assert.NoError(t, ValidateCommissionRate(12.55))
	assert.NoError(t, ValidateCommissionRate(50))

	assert.Error(t, ValidateCommissionRate(-0.01))
	assert.Error(t, ValidateCommissionRate(50.01))
	assert.Error(t, ValidateCommissionRate(math.NaN()))
	assert.Error(t, ValidateCommissionRate(math.Inf(1)))

	// More than 2 decimal places is rejected, never silently rounded
	err := ValidateCommissionRate(12.345)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at most 2 decimal places")
}

func TestValidateDistributionPercentages(t *testing.T) {
	assert.NoError(t, ValidateDistributionPercentages([]float64{60, 25, 15}))
	assert.NoError(t, ValidateDistributionPercentages([]float64{100}))
	assert.NoError(t, ValidateDistributionPercentages([]float64{33.33, 33.33, 33.34}))

	assert.Error(t, ValidateDistributionPercentages(nil))
	assert.Error(t, ValidateDistributionPercentages([]float64{60, 25}))
	assert.Error(t, ValidateDistributionPercentages([]float64{60, 25, 15, 10}))
	assert.Error(t, ValidateDistributionPercentages([]float64{110, -10}))
	assert.Error(t, ValidateDistributionPercentages([]float64{0, 100}))
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(0.01, "amount"))
	assert.NoError(t, ValidateAmount(1000, "amount"))

	assert.Error(t, ValidateAmount(0, "amount"))
	assert.Error(t, ValidateAmount(-5, "amount"))
	assert.Error(t, ValidateAmount(math.NaN(), "amount"))
}

func TestValidatePayoutMonth(t *testing.T) {
	assert.NoError(t, ValidatePayoutMonth("2026-07"))
	assert.NoError(t, ValidatePayoutMonth("2026-12"))

	assert.Error(t, ValidatePayoutMonth(""))
	assert.Error(t, ValidatePayoutMonth("2026-13"))
	assert.Error(t, ValidatePayoutMonth("2026/07"))
	assert.Error(t, ValidatePayoutMonth("July 2026"))
	assert.Error(t, ValidatePayoutMonth("2026-07-01"))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 41.67, Round(41.666))
	assert.Equal(t, 41.66, Round(41.664))
	assert.Equal(t, 100.0, Round(99.999))
	assert.Equal(t, 0.0, Round(0.001))
	assert.Equal(t, -2.35, Round(-2.346))
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(100.0, 100.0))
	assert.True(t, WithinTolerance(100.0, 100.01))
	assert.False(t, WithinTolerance(100.0, 100.02))
}
