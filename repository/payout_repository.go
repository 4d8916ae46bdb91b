// repository/payout_repository.go
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// PayoutRepository handles database operations for payout records
type PayoutRepository struct {
	db *sql.DB
}

// NewPayoutRepository creates a new payout repository
func NewPayoutRepository(db *sql.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

const payoutColumns = `id, restaurant_id, waiter_id, payout_type, group_name, amount,
	payout_month, status, recipient_name, recipient_account, transaction_ref,
	failure_reason, processed_at, created_at`

func scanPayout(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Payout, error) {
	var p models.Payout
	var waiterID, groupName, recipientAccount, transactionRef, failureReason sql.NullString
	var processedAt sql.NullTime

	err := scanner.Scan(
		&p.ID, &p.RestaurantID, &waiterID, &p.PayoutType, &groupName, &p.Amount,
		&p.PayoutMonth, &p.Status, &p.RecipientName, &recipientAccount, &transactionRef,
		&failureReason, &processedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if waiterID.Valid {
		p.WaiterID = waiterID.String
	}
	if groupName.Valid {
		p.GroupName = groupName.String
	}
	if recipientAccount.Valid {
		p.RecipientAccount = recipientAccount.String
	}
	if transactionRef.Valid {
		p.TransactionRef = transactionRef.String
	}
	if failureReason.Valid {
		p.FailureReason = failureReason.String
	}
	if processedAt.Valid {
		t := processedAt.Time
		p.ProcessedAt = &t
	}
	return &p, nil
}

// CreatePayout inserts one pending payout record.
func (r *PayoutRepository) CreatePayout(payout *models.Payout) error {
	var waiterID, groupName, recipientAccount interface{}
	if payout.WaiterID != "" {
		waiterID = payout.WaiterID
	}
	if payout.GroupName != "" {
		groupName = payout.GroupName
	}
	if payout.RecipientAccount != "" {
		recipientAccount = payout.RecipientAccount
	}

	query := `
		INSERT INTO payouts (restaurant_id, waiter_id, payout_type, group_name, amount,
		                     payout_month, status, recipient_name, recipient_account, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id
	`
	err := r.db.QueryRow(query,
		payout.RestaurantID, waiterID, payout.PayoutType, groupName, payout.Amount,
		payout.PayoutMonth, utils.PayoutStatusPending, payout.RecipientName, recipientAccount,
	).Scan(&payout.ID)
	if err != nil {
		return fmt.Errorf("failed to insert payout: %v", err)
	}
	payout.Status = utils.PayoutStatusPending
	return nil
}

// HasPayoutsForMonth reports whether any payout records exist for a
// restaurant and month. Generation must be refused when true.
func (r *PayoutRepository) HasPayoutsForMonth(restaurantID, month string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM payouts WHERE restaurant_id = $1 AND payout_month = $2",
		restaurantID, month,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check payouts for month: %v", err)
	}
	return count > 0, nil
}

// GetPayoutByID retrieves a single payout record.
func (r *PayoutRepository) GetPayoutByID(payoutID int) (*models.Payout, error) {
	query := fmt.Sprintf("SELECT %s FROM payouts WHERE id = $1", payoutColumns)
	p, err := scanPayout(r.db.QueryRow(query, payoutID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewNotFoundError("Payout")
		}
		return nil, fmt.Errorf("failed to get payout: %v", err)
	}
	return p, nil
}

// GetPendingByRestaurant retrieves all pending payouts for a restaurant.
func (r *PayoutRepository) GetPendingByRestaurant(restaurantID string) ([]models.Payout, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM payouts WHERE restaurant_id = $1 AND status = $2 ORDER BY id",
		payoutColumns,
	)
	return r.queryPayouts(query, restaurantID, utils.PayoutStatusPending)
}

// GetPendingByIDs retrieves pending payouts from an explicit id list.
// Non-pending ids are silently excluded; the processor treats them as
// already claimed by another run.
func (r *PayoutRepository) GetPendingByIDs(payoutIDs []int) ([]models.Payout, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM payouts WHERE id = ANY($1) AND status = $2 ORDER BY id",
		payoutColumns,
	)
	return r.queryPayouts(query, pq.Array(payoutIDs), utils.PayoutStatusPending)
}

// GetPayoutsForMonth retrieves all payouts for a restaurant and month.
func (r *PayoutRepository) GetPayoutsForMonth(restaurantID, month string) ([]models.Payout, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM payouts WHERE restaurant_id = $1 AND payout_month = $2 ORDER BY id",
		payoutColumns,
	)
	return r.queryPayouts(query, restaurantID, month)
}

// GetFailedByIDs retrieves failed payouts from an explicit id list.
func (r *PayoutRepository) GetFailedByIDs(payoutIDs []int) ([]models.Payout, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM payouts WHERE id = ANY($1) AND status = $2 ORDER BY id",
		payoutColumns,
	)
	return r.queryPayouts(query, pq.Array(payoutIDs), utils.PayoutStatusFailed)
}

// GetByReference locates a payout by its disbursement transaction
// reference, used by the asynchronous settlement callback.
func (r *PayoutRepository) GetByReference(transactionRef string) (*models.Payout, error) {
	query := fmt.Sprintf("SELECT %s FROM payouts WHERE transaction_ref = $1", payoutColumns)
	p, err := scanPayout(r.db.QueryRow(query, transactionRef))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewNotFoundError("Payout")
		}
		return nil, fmt.Errorf("failed to get payout by reference: %v", err)
	}
	return p, nil
}

// ClaimPayout atomically transitions one payout from pending to processing
// and stamps its transaction reference. Returns false when the row was not
// pending anymore, i.e. a concurrent run claimed it first.
func (r *PayoutRepository) ClaimPayout(payoutID int, transactionRef string) (bool, error) {
	result, err := r.db.Exec(
		`UPDATE payouts SET status = $1, transaction_ref = $2
		 WHERE id = $3 AND status = $4`,
		utils.PayoutStatusProcessing, transactionRef, payoutID, utils.PayoutStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim payout %d: %v", payoutID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read claim result for payout %d: %v", payoutID, err)
	}
	return affected == 1, nil
}

// MarkCompleted transitions a processing payout to completed with the
// provider's transaction id.
func (r *PayoutRepository) MarkCompleted(payoutID int, providerTxnID string, processedAt time.Time) error {
	_, err := r.db.Exec(
		`UPDATE payouts SET status = $1, transaction_ref = $2, failure_reason = NULL, processed_at = $3
		 WHERE id = $4`,
		utils.PayoutStatusCompleted, providerTxnID, processedAt, payoutID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payout %d completed: %v", payoutID, err)
	}
	return nil
}

// MarkFailed transitions a payout to failed and records the reason.
func (r *PayoutRepository) MarkFailed(payoutID int, reason string, processedAt time.Time) error {
	_, err := r.db.Exec(
		`UPDATE payouts SET status = $1, failure_reason = $2, processed_at = $3
		 WHERE id = $4`,
		utils.PayoutStatusFailed, reason, processedAt, payoutID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payout %d failed: %v", payoutID, err)
	}
	return nil
}

// ReleaseClaim reverts a claimed payout to pending after the provider
// definitively rejected the whole batch before accepting any item.
func (r *PayoutRepository) ReleaseClaim(payoutID int) error {
	_, err := r.db.Exec(
		`UPDATE payouts SET status = $1, transaction_ref = NULL
		 WHERE id = $2 AND status = $3`,
		utils.PayoutStatusPending, payoutID, utils.PayoutStatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to release claim on payout %d: %v", payoutID, err)
	}
	return nil
}

// ResetForRetry resets a failed payout to pending, clearing the prior
// transaction reference and processed timestamp so the next attempt gets a
// fresh reference. Returns false when the payout was not failed.
func (r *PayoutRepository) ResetForRetry(payoutID int) (bool, error) {
	result, err := r.db.Exec(
		`UPDATE payouts SET status = $1, transaction_ref = NULL, failure_reason = NULL, processed_at = NULL
		 WHERE id = $2 AND status = $3`,
		utils.PayoutStatusPending, payoutID, utils.PayoutStatusFailed,
	)
	if err != nil {
		return false, fmt.Errorf("failed to reset payout %d for retry: %v", payoutID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read retry reset result for payout %d: %v", payoutID, err)
	}
	return affected == 1, nil
}

func (r *PayoutRepository) queryPayouts(query string, args ...interface{}) ([]models.Payout, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payouts: %v", err)
	}
	defer rows.Close()

	var payouts []models.Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payout: %v", err)
		}
		payouts = append(payouts, *p)
	}
	return payouts, rows.Err()
}
