package services

import (
	"sort"
	"time"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// PayoutCalculationService computes per-recipient monthly payout totals.
// The calculation is side-effect free: re-running it for the same month
// before records are generated always returns the same totals for the
// same underlying completed-tip data.
type PayoutCalculationService struct {
	tipStore            TipStore
	waiterStore         WaiterStore
	distributionService *DistributionService
}

// NewPayoutCalculationService creates a new payout calculation service
func NewPayoutCalculationService(tipStore TipStore, waiterStore WaiterStore, distributionService *DistributionService) *PayoutCalculationService {
	return &PayoutCalculationService{
		tipStore:            tipStore,
		waiterStore:         waiterStore,
		distributionService: distributionService,
	}
}

// CalculateMonthlyPayouts aggregates a restaurant's completed tips for a
// calendar month into per-recipient net amounts. Entries below the
// minimum threshold are included in the result with MeetsMinimum=false
// but are never persisted as payout records.
func (s *PayoutCalculationService) CalculateMonthlyPayouts(restaurantID, month string, minimumThreshold float64) (*models.PayoutCalculation, error) {
	if err := utils.ValidateRequired(restaurantID, "restaurantId"); err != nil {
		return nil, err
	}
	if err := utils.ValidatePayoutMonth(month); err != nil {
		return nil, err
	}
	if err := utils.ValidateNonNegative(minimumThreshold, "minimumThreshold"); err != nil {
		return nil, err
	}
	if minimumThreshold == 0 {
		minimumThreshold = utils.DefaultMinimumPayout
	}

	start, end, err := utils.MonthWindow(month)
	if err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	waiterSummaries, err := s.tipStore.GetWaiterTipSummaries(restaurantID, start, end)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve waiter tips")
	}

	groupSummaries, err := s.tipStore.GetGroupDistributionSummaries(restaurantID, start, end)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve pooled tip distributions")
	}

	membersByGroup, err := s.waiterStore.GetActiveWaitersByGroup(restaurantID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve active waiters")
	}

	// Group entries carry net shares only, so the commission withheld on
	// pooled tips has to be summed separately.
	pooledCommission, err := s.tipStore.GetPooledTipCommission(restaurantID, start, end)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve pooled tip commission")
	}

	var entries []models.CalculatedPayoutEntry

	for _, summary := range waiterSummaries {
		name := summary.WaiterID
		if waiter, err := s.waiterStore.GetWaiterByID(summary.WaiterID); err == nil {
			name = waiter.Name
		}
		entries = append(entries, models.CalculatedPayoutEntry{
			PayoutType:    utils.PayoutTypeWaiter,
			WaiterID:      summary.WaiterID,
			RecipientName: name,
			TipCount:      summary.TipCount,
			GrossAmount:   utils.Round(summary.TotalAmount),
			Commission:    utils.Round(summary.TotalCommission),
			NetAmount:     utils.Round(summary.TotalNet),
		})
	}

	entries = append(entries, s.distributionService.AggregateGroupShares(groupSummaries, membersByGroup)...)

	// Deterministic ordering: waiter payouts first, then group payouts,
	// each sorted by recipient.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].PayoutType != entries[j].PayoutType {
			return entries[i].PayoutType == utils.PayoutTypeWaiter
		}
		if entries[i].GroupName != entries[j].GroupName {
			return entries[i].GroupName < entries[j].GroupName
		}
		return entries[i].RecipientName < entries[j].RecipientName
	})

	calculation := &models.PayoutCalculation{
		RestaurantID:     restaurantID,
		Month:            month,
		MinimumThreshold: minimumThreshold,
		Entries:          entries,
		CalculatedAt:     time.Now().UTC(),
	}

	calculation.TotalCommission = utils.Round(pooledCommission)
	for i := range calculation.Entries {
		entry := &calculation.Entries[i]
		entry.MeetsMinimum = entry.NetAmount >= minimumThreshold
		calculation.TotalCommission = utils.Round(calculation.TotalCommission + entry.Commission)
		if entry.MeetsMinimum {
			calculation.TotalNet = utils.Round(calculation.TotalNet + entry.NetAmount)
			calculation.QualifyingCount++
		}
	}

	return calculation, nil
}
