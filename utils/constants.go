package utils

const (
	// Tip categories
	TipTypeWaiter     = "waiter"
	TipTypeRestaurant = "restaurant"

	// Tip payment statuses
	TipStatusPending    = "pending"
	TipStatusProcessing = "processing"
	TipStatusCompleted  = "completed"
	TipStatusFailed     = "failed"
	TipStatusCancelled  = "cancelled"
	TipStatusTimeout    = "timeout"

	// Payout types
	PayoutTypeWaiter = "waiter"
	PayoutTypeGroup  = "group"

	// Payout statuses
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusFailed     = "failed"

	// Commission rate bounds (percent)
	MinCommissionRate = 0.0
	MaxCommissionRate = 50.0

	// Default minimum net amount for a payout record, in KES
	DefaultMinimumPayout = 100.0

	// Days before the payout date that upcoming notices start going out,
	// used when a restaurant has no lead window of its own
	DefaultNotificationLeadDays = 3

	// Tolerance for money-sum invariants (group percentages, split totals)
	MoneyTolerance = 0.01

	// Percentage a restaurant's distribution groups must sum to
	FullDistributionPercent = 100.0

	// Currency code used across the platform
	CurrencyCode = "KES"

	// Payout month key layout (YYYY-MM)
	PayoutMonthLayout = "2006-01"

	// HTTP status messages
	ErrInvalidRequest   = "Invalid request"
	ErrPayoutNotFound   = "Payout not found"
	ErrWaiterNotFound   = "Waiter not found"
	ErrFailedToStore    = "Failed to store data"
	ErrFailedToRetrieve = "Failed to retrieve data"

	// Precision for monetary calculations
	MoneyPrecision = 100.0
)
