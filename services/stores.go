package services

import (
	"time"

	"github.com/jambotip/jambotip-backend/models"
)

// Store interfaces consumed by the payout services. The repository package
// provides the Postgres implementations; tests supply in-memory fakes.

// TipStore reads the completed-tip ledger.
type TipStore interface {
	GetTipByID(tipID string) (*models.Tip, error)
	GetWaiterTipSummaries(restaurantID string, start, end time.Time) ([]models.WaiterTipSummary, error)
	GetGroupDistributionSummaries(restaurantID string, start, end time.Time) ([]models.GroupDistributionSummary, error)
	GetPooledTipCommission(restaurantID string, start, end time.Time) (float64, error)
	StoreTipDistributions(distributions []models.TipDistribution) error
	HasTipDistributions(tipID string) (bool, error)
}

// WaiterStore reads waiter rosters and disbursement destinations.
type WaiterStore interface {
	GetWaiterByID(waiterID string) (*models.Waiter, error)
	GetActiveWaiters(restaurantID string) ([]models.Waiter, error)
	GetActiveWaitersByGroup(restaurantID string) (map[string][]models.Waiter, error)
}

// DistributionStore reads and writes distribution group configuration.
type DistributionStore interface {
	GetGroups(restaurantID string) ([]models.DistributionGroup, error)
	ReplaceGroups(restaurantID string, groups []models.DistributionGroup) error
}

// PayoutStore persists payout records and their state transitions.
type PayoutStore interface {
	CreatePayout(payout *models.Payout) error
	HasPayoutsForMonth(restaurantID, month string) (bool, error)
	GetPayoutByID(payoutID int) (*models.Payout, error)
	GetPendingByRestaurant(restaurantID string) ([]models.Payout, error)
	GetPendingByIDs(payoutIDs []int) ([]models.Payout, error)
	GetPayoutsForMonth(restaurantID, month string) ([]models.Payout, error)
	GetFailedByIDs(payoutIDs []int) ([]models.Payout, error)
	GetByReference(transactionRef string) (*models.Payout, error)
	ClaimPayout(payoutID int, transactionRef string) (bool, error)
	MarkCompleted(payoutID int, providerTxnID string, processedAt time.Time) error
	MarkFailed(payoutID int, reason string, processedAt time.Time) error
	ReleaseClaim(payoutID int) error
	ResetForRetry(payoutID int) (bool, error)
}

// RestaurantStore reads tenant configuration.
type RestaurantStore interface {
	GetRestaurantByID(restaurantID string) (*models.Restaurant, error)
}
