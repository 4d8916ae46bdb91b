package services

import (
	"fmt"
	"log"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// PayoutGenerationService persists pending payout records from a monthly
// calculation, guarded against duplicate generation for the same period.
type PayoutGenerationService struct {
	payoutStore PayoutStore
	waiterStore WaiterStore
}

// NewPayoutGenerationService creates a new payout generation service
func NewPayoutGenerationService(payoutStore PayoutStore, waiterStore WaiterStore) *PayoutGenerationService {
	return &PayoutGenerationService{
		payoutStore: payoutStore,
		waiterStore: waiterStore,
	}
}

// GeneratePayoutRecords inserts one pending payout per qualifying entry of
// a calculation. Refused with DuplicatePayoutPeriod when records already
// exist for the restaurant and month. Inserts are best effort: a failed
// insert is reported per item and does not roll back earlier successes.
func (s *PayoutGenerationService) GeneratePayoutRecords(calculation *models.PayoutCalculation) (*models.GenerationResult, error) {
	if calculation == nil {
		return nil, utils.NewValidationError("calculation is required")
	}
	if err := utils.ValidateRequired(calculation.RestaurantID, "restaurantId"); err != nil {
		return nil, err
	}
	if err := utils.ValidatePayoutMonth(calculation.Month); err != nil {
		return nil, err
	}

	exists, err := s.payoutStore.HasPayoutsForMonth(calculation.RestaurantID, calculation.Month)
	if err != nil {
		return nil, utils.NewInternalError("Failed to check existing payouts")
	}
	if exists {
		return nil, utils.NewDuplicatePayoutPeriodError(calculation.RestaurantID, calculation.Month)
	}

	result := &models.GenerationResult{
		RestaurantID: calculation.RestaurantID,
		Month:        calculation.Month,
	}

	for _, entry := range calculation.Entries {
		if !entry.MeetsMinimum {
			continue
		}

		payout := &models.Payout{
			RestaurantID:  calculation.RestaurantID,
			WaiterID:      entry.WaiterID,
			PayoutType:    entry.PayoutType,
			GroupName:     entry.GroupName,
			Amount:        entry.NetAmount,
			PayoutMonth:   calculation.Month,
			RecipientName: entry.RecipientName,
		}
		if entry.WaiterID != "" {
			if waiter, err := s.waiterStore.GetWaiterByID(entry.WaiterID); err == nil {
				payout.RecipientAccount = utils.NormalizePhoneNumber(waiter.Phone)
			}
		}

		if err := s.payoutStore.CreatePayout(payout); err != nil {
			log.Printf("GeneratePayoutRecords: failed to create payout for %s: %v", entry.RecipientName, err)
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: %v", entry.RecipientName, err))
			continue
		}
		result.Created++
		result.TotalAmount = utils.Round(result.TotalAmount + payout.Amount)
	}

	log.Printf("GeneratePayoutRecords: created %d payout records for restaurant %s month %s (total %s)",
		result.Created, calculation.RestaurantID, calculation.Month, utils.FormatCurrency(result.TotalAmount))
	return result, nil
}
