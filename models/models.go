// models/models.go
package models

import "time"

// Restaurant represents a tenant on the platform
type Restaurant struct {
	ID                   string  `json:"id" db:"id"`
	Name                 string  `json:"name" db:"name"`
	CommissionRate       float64 `json:"commission_rate" db:"commission_rate"`
	PayoutAccount        string  `json:"payout_account,omitempty" db:"payout_account"`
	NotificationLeadDays int     `json:"notification_lead_days" db:"notification_lead_days"`
	ContactEmail         string  `json:"contact_email,omitempty" db:"contact_email"`
	Active               bool    `json:"active" db:"active"`
}

// Waiter represents a restaurant staff member who can receive tips.
// A waiter belongs to at most one distribution group.
type Waiter struct {
	ID           string    `json:"id" db:"id"`
	RestaurantID string    `json:"restaurant_id" db:"restaurant_id"`
	Name         string    `json:"name" db:"name"`
	Phone        string    `json:"phone" db:"phone"`
	Email        string    `json:"email,omitempty" db:"email"`
	GroupName    string    `json:"group_name,omitempty" db:"group_name"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Tip represents a single tip payment event. Commission and net amounts
// are computed at tip creation time and never recomputed afterwards.
type Tip struct {
	ID               string    `json:"id" db:"id"`
	RestaurantID     string    `json:"restaurant_id" db:"restaurant_id"`
	WaiterID         string    `json:"waiter_id,omitempty" db:"waiter_id"`
	TableRef         string    `json:"table_ref,omitempty" db:"table_ref"`
	Amount           float64   `json:"amount" db:"amount"`
	CommissionAmount float64   `json:"commission_amount" db:"commission_amount"`
	NetAmount        float64   `json:"net_amount" db:"net_amount"`
	TipType          string    `json:"tip_type" db:"tip_type"`
	PaymentMethod    string    `json:"payment_method" db:"payment_method"`
	PaymentStatus    string    `json:"payment_status" db:"payment_status"`
	TransactionID    string    `json:"transaction_id,omitempty" db:"transaction_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// DistributionGroup is a named share-of-pool configuration per restaurant,
// e.g. Kitchen 25%. Percentages per restaurant must sum to 100.
type DistributionGroup struct {
	ID           int     `json:"id" db:"id"`
	RestaurantID string  `json:"restaurant_id" db:"restaurant_id"`
	GroupName    string  `json:"group_name" db:"group_name"`
	Percentage   float64 `json:"percentage" db:"percentage"`
}

// TipDistribution is the materialized split of one pooled tip across the
// restaurant's distribution groups, snapshotting each group's percentage
// at the moment the tip was recorded. Immutable once created.
type TipDistribution struct {
	ID         int       `json:"id" db:"id"`
	TipID      string    `json:"tip_id" db:"tip_id"`
	GroupName  string    `json:"group_name" db:"group_name"`
	Percentage float64   `json:"percentage" db:"percentage"`
	Amount     float64   `json:"amount" db:"amount"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Payout is one disbursement obligation for one calendar month to one
// recipient. WaiterID is empty for ownerless group payouts that are held
// until an admin assigns members to the group.
type Payout struct {
	ID               int        `json:"id" db:"id"`
	RestaurantID     string     `json:"restaurant_id" db:"restaurant_id"`
	WaiterID         string     `json:"waiter_id,omitempty" db:"waiter_id"`
	PayoutType       string     `json:"payout_type" db:"payout_type"`
	GroupName        string     `json:"group_name,omitempty" db:"group_name"`
	Amount           float64    `json:"amount" db:"amount"`
	PayoutMonth      string     `json:"payout_month" db:"payout_month"`
	Status           string     `json:"status" db:"status"`
	RecipientName    string     `json:"recipient_name" db:"recipient_name"`
	RecipientAccount string     `json:"recipient_account,omitempty" db:"recipient_account"`
	TransactionRef   string     `json:"transaction_ref,omitempty" db:"transaction_ref"`
	FailureReason    string     `json:"failure_reason,omitempty" db:"failure_reason"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty" db:"processed_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// CommissionBreakdown is the result of splitting a gross tip amount into
// the platform commission and the recipient's net amount.
type CommissionBreakdown struct {
	Amount           float64 `json:"amount"`
	Rate             float64 `json:"rate"`
	CommissionAmount float64 `json:"commissionAmount"`
	NetAmount        float64 `json:"netAmount"`
}

// WaiterTipSummary aggregates a waiter's completed direct tips for a month.
type WaiterTipSummary struct {
	WaiterID        string  `json:"waiter_id"`
	TipCount        int     `json:"tip_count"`
	TotalAmount     float64 `json:"total_amount"`
	TotalCommission float64 `json:"total_commission"`
	TotalNet        float64 `json:"total_net"`
}

// GroupDistributionSummary aggregates a distribution group's share of
// completed pooled tips for a month.
type GroupDistributionSummary struct {
	GroupName   string  `json:"group_name"`
	TipCount    int     `json:"tip_count"`
	TotalAmount float64 `json:"total_amount"`
}
