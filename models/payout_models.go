package models

import "time"

// CalculatedPayoutEntry is one recipient's computed total for a month.
// Entries below the minimum threshold are reported but never persisted.
type CalculatedPayoutEntry struct {
	PayoutType    string  `json:"payout_type"`
	WaiterID      string  `json:"waiter_id,omitempty"`
	RecipientName string  `json:"recipient_name"`
	GroupName     string  `json:"group_name,omitempty"`
	TipCount      int     `json:"tip_count"`
	GrossAmount   float64 `json:"gross_amount"`
	Commission    float64 `json:"commission"`
	NetAmount     float64 `json:"net_amount"`
	MeetsMinimum  bool    `json:"meets_minimum"`
}

// PayoutCalculation is the full, side-effect-free result of a monthly
// payout computation for one restaurant. TotalCommission covers the
// commission withheld on both direct and pooled tips in the month.
type PayoutCalculation struct {
	RestaurantID     string                  `json:"restaurant_id"`
	Month            string                  `json:"month"`
	MinimumThreshold float64                 `json:"minimum_threshold"`
	Entries          []CalculatedPayoutEntry `json:"entries"`
	TotalNet         float64                 `json:"total_net"`
	TotalCommission  float64                 `json:"total_commission"`
	QualifyingCount  int                     `json:"qualifying_count"`
	CalculatedAt     time.Time               `json:"calculated_at"`
}

// GenerationResult reports a best-effort payout record generation pass.
type GenerationResult struct {
	RestaurantID string   `json:"restaurant_id"`
	Month        string   `json:"month"`
	Created      int      `json:"created"`
	TotalAmount  float64  `json:"total_amount"`
	Errors       []string `json:"errors,omitempty"`
}

// ProcessingSummary is returned by every processing run, including partial
// failures; Success is false only when Errors is non-empty.
type ProcessingSummary struct {
	Total       int      `json:"total"`
	Processed   int      `json:"processed"`
	Failed      int      `json:"failed"`
	Skipped     int      `json:"skipped"`
	TotalAmount float64  `json:"total_amount"`
	Errors      []string `json:"errors"`
	Success     bool     `json:"success"`
	DryRun      bool     `json:"dry_run"`
	Providers   []string `json:"providers,omitempty"`
}

// DisbursementItem is one recipient in a bulk disbursement request.
type DisbursementItem struct {
	Reference   string  `json:"reference"`
	Destination string  `json:"destination"`
	Amount      float64 `json:"amount"`
	Name        string  `json:"name"`
}

// DisbursementResult is the provider's per-item outcome.
type DisbursementResult struct {
	Reference     string `json:"reference"`
	Success       bool   `json:"success"`
	ProviderTxnID string `json:"provider_txn_id,omitempty"`
	Pending       bool   `json:"pending,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ProviderAttempt records one provider tried during a bulk disbursement,
// so fallback chains stay auditable per provider.
type ProviderAttempt struct {
	Provider string `json:"provider"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// Request models

// CalculatePayoutsRequest asks for a side-effect-free monthly calculation.
type CalculatePayoutsRequest struct {
	RestaurantID     string  `json:"restaurantId" binding:"required"`
	Month            string  `json:"month" binding:"required"`
	MinimumThreshold float64 `json:"minimumThreshold" binding:"min=0"`
}

// GeneratePayoutsRequest asks to persist pending payout records for a month.
type GeneratePayoutsRequest struct {
	RestaurantID     string  `json:"restaurantId" binding:"required"`
	Month            string  `json:"month" binding:"required"`
	MinimumThreshold float64 `json:"minimumThreshold" binding:"min=0"`
}

// ProcessPayoutsRequest scopes a processing run by restaurant or by an
// explicit payout id list. DryRun rehearses against a simulated provider.
type ProcessPayoutsRequest struct {
	RestaurantID string `json:"restaurantId"`
	PayoutIDs    []int  `json:"payoutIds"`
	DryRun       bool   `json:"dryRun"`
}

// RetryPayoutsRequest resets failed payouts to pending for resubmission.
type RetryPayoutsRequest struct {
	PayoutIDs []int `json:"payoutIds" binding:"required"`
}

// ListPayoutsRequest queries payout records for a restaurant and month.
type ListPayoutsRequest struct {
	RestaurantID string `json:"restaurantId" binding:"required"`
	Month        string `json:"month" binding:"required"`
}

// SplitPooledTipRequest materializes the distribution-group split of a
// completed pooled tip.
type SplitPooledTipRequest struct {
	TipID string `json:"tipId" binding:"required"`
}

// DistributionGroupInput is one group in a SetDistributionGroupsRequest.
type DistributionGroupInput struct {
	GroupName  string  `json:"groupName" binding:"required"`
	Percentage float64 `json:"percentage" binding:"required,gt=0"`
}

// SetDistributionGroupsRequest replaces a restaurant's group configuration.
// Percentages must sum to 100; applies only to future pooled tips.
type SetDistributionGroupsRequest struct {
	RestaurantID string                   `json:"restaurantId" binding:"required"`
	Groups       []DistributionGroupInput `json:"groups" binding:"required,dive"`
}

// ListDistributionGroupsRequest fetches a restaurant's group configuration.
type ListDistributionGroupsRequest struct {
	RestaurantID string `json:"restaurantId" binding:"required"`
}

// DisbursementCallbackRequest is the asynchronous settlement callback from
// the disbursement provider, keyed by our per-payout reference.
type DisbursementCallbackRequest struct {
	Reference      string `json:"reference" binding:"required"`
	ResultCode     int    `json:"resultCode"`
	ResultDesc     string `json:"resultDesc"`
	ProviderTxnID  string `json:"providerTransactionId"`
	ConversationID string `json:"conversationId"`
}

// NotifyUpcomingRequest triggers upcoming-payout notifications for the
// month's qualifying recipients.
type NotifyUpcomingRequest struct {
	RestaurantID     string  `json:"restaurantId" binding:"required"`
	Month            string  `json:"month" binding:"required"`
	MinimumThreshold float64 `json:"minimumThreshold" binding:"min=0"`
}
