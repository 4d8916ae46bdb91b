package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommissionService_CalculateCommission(t *testing.T) {
	service := NewCommissionService()

	// 10% of 1000 = 100 commission, 900 net
	result, err := service.CalculateCommission(1000, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1000.0, result.Amount)
	assert.Equal(t, 100.0, result.CommissionAmount)
	assert.Equal(t, 900.0, result.NetAmount)
}

func TestCommissionService_CalculateCommission_ZeroRate(t *testing.T) {
	service := NewCommissionService()

	result, err := service.CalculateCommission(500, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, result.CommissionAmount)
	assert.Equal(t, 500.0, result.NetAmount)
}

func TestCommissionService_CalculateCommission_RoundingRemainder(t *testing.T) {
	service := NewCommissionService()

	// 12.5% of 333.33 = 41.66625, rounds to 41.67; net absorbs the
	// remainder so commission + net equals the gross amount exactly.
	result, err := service.CalculateCommission(333.33, 12.5)
	assert.NoError(t, err)
	assert.Equal(t, 41.67, result.CommissionAmount)
	assert.Equal(t, 291.66, result.NetAmount)
	assert.InDelta(t, result.Amount, result.CommissionAmount+result.NetAmount, 0.001)
}

func TestCommissionService_CalculateCommission_InvalidAmount(t *testing.T) {
	service := NewCommissionService()

	_, err := service.CalculateCommission(0, 10)
	assert.Error(t, err)

	_, err = service.CalculateCommission(-50, 10)
	assert.Error(t, err)
}

func TestCommissionService_CalculateCommission_InvalidRate(t *testing.T) {
	service := NewCommissionService()

	// Above the maximum
	_, err := service.CalculateCommission(1000, 50.01)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "InvalidRate")

	// Negative
	_, err = service.CalculateCommission(1000, -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "InvalidRate")

	// More than 2 decimal places
	_, err = service.CalculateCommission(1000, 12.345)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at most 2 decimal places")
}

func TestCommissionService_CalculateCommission_Deterministic(t *testing.T) {
	service := NewCommissionService()

	first, err := service.CalculateCommission(1234.56, 7.25)
	assert.NoError(t, err)
	second, err := service.CalculateCommission(1234.56, 7.25)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}
