package services

import (
	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// CommissionService handles platform commission calculation
type CommissionService struct{}

// NewCommissionService creates a new commission service
func NewCommissionService() *CommissionService {
	return &CommissionService{}
}

// CalculateCommission splits a gross tip amount into the platform
// commission and the recipient's net amount. Pure and deterministic:
// identical inputs always produce identical outputs. Both outputs are
// rounded to 2 decimal places and the net amount absorbs the rounding
// remainder so commission + net always equals the rounded gross amount.
func (s *CommissionService) CalculateCommission(amount, rate float64) (*models.CommissionBreakdown, error) {
	if err := utils.ValidateAmount(amount, "amount"); err != nil {
		return nil, err
	}
	if err := utils.ValidateCommissionRate(rate); err != nil {
		return nil, err
	}

	grossAmount := utils.Round(amount)
	commission := utils.Round(grossAmount * rate / 100)
	net := utils.Round(grossAmount - commission)

	return &models.CommissionBreakdown{
		Amount:           grossAmount,
		Rate:             rate,
		CommissionAmount: commission,
		NetAmount:        net,
	}, nil
}
