// repository/tip_repository.go
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// TipRepository handles database operations for tips and tip distributions
type TipRepository struct {
	db *sql.DB
}

// NewTipRepository creates a new tip repository
func NewTipRepository(db *sql.DB) *TipRepository {
	return &TipRepository{db: db}
}

// GetTipByID retrieves a single tip
func (r *TipRepository) GetTipByID(tipID string) (*models.Tip, error) {
	query := `
		SELECT id, restaurant_id, waiter_id, table_ref, amount, commission_amount,
		       net_amount, tip_type, payment_method, payment_status, transaction_id, created_at
		FROM tips
		WHERE id = $1
	`
	var tip models.Tip
	var waiterID, tableRef, transactionID sql.NullString
	err := r.db.QueryRow(query, tipID).Scan(
		&tip.ID, &tip.RestaurantID, &waiterID, &tableRef, &tip.Amount,
		&tip.CommissionAmount, &tip.NetAmount, &tip.TipType, &tip.PaymentMethod,
		&tip.PaymentStatus, &transactionID, &tip.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewNotFoundError("Tip")
		}
		return nil, fmt.Errorf("failed to get tip: %v", err)
	}
	if waiterID.Valid {
		tip.WaiterID = waiterID.String
	}
	if tableRef.Valid {
		tip.TableRef = tableRef.String
	}
	if transactionID.Valid {
		tip.TransactionID = transactionID.String
	}
	return &tip, nil
}

// GetWaiterTipSummaries aggregates completed waiter tips per waiter for a
// restaurant inside the half-open window [start, end).
func (r *TipRepository) GetWaiterTipSummaries(restaurantID string, start, end time.Time) ([]models.WaiterTipSummary, error) {
	query := `
		SELECT waiter_id, COUNT(*), SUM(amount), SUM(commission_amount), SUM(net_amount)
		FROM tips
		WHERE restaurant_id = $1
		  AND tip_type = $2
		  AND payment_status = $3
		  AND waiter_id IS NOT NULL
		  AND created_at >= $4 AND created_at < $5
		GROUP BY waiter_id
		ORDER BY waiter_id
	`
	rows, err := r.db.Query(query, restaurantID, utils.TipTypeWaiter, utils.TipStatusCompleted, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get waiter tip summaries: %v", err)
	}
	defer rows.Close()

	var summaries []models.WaiterTipSummary
	for rows.Next() {
		var s models.WaiterTipSummary
		if err := rows.Scan(&s.WaiterID, &s.TipCount, &s.TotalAmount, &s.TotalCommission, &s.TotalNet); err != nil {
			return nil, fmt.Errorf("failed to scan waiter tip summary: %v", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetGroupDistributionSummaries aggregates the materialized distributions
// of completed pooled tips per group for a restaurant inside [start, end).
func (r *TipRepository) GetGroupDistributionSummaries(restaurantID string, start, end time.Time) ([]models.GroupDistributionSummary, error) {
	query := `
		SELECT d.group_name, COUNT(*), SUM(d.amount)
		FROM tip_distributions d
		JOIN tips t ON d.tip_id = t.id
		WHERE t.restaurant_id = $1
		  AND t.tip_type = $2
		  AND t.payment_status = $3
		  AND t.created_at >= $4 AND t.created_at < $5
		GROUP BY d.group_name
		ORDER BY d.group_name
	`
	rows, err := r.db.Query(query, restaurantID, utils.TipTypeRestaurant, utils.TipStatusCompleted, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get group distribution summaries: %v", err)
	}
	defer rows.Close()

	var summaries []models.GroupDistributionSummary
	for rows.Next() {
		var s models.GroupDistributionSummary
		if err := rows.Scan(&s.GroupName, &s.TipCount, &s.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan group distribution summary: %v", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetPooledTipCommission sums the commission withheld on completed pooled
// tips for a restaurant inside [start, end).
func (r *TipRepository) GetPooledTipCommission(restaurantID string, start, end time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(commission_amount), 0)
		FROM tips
		WHERE restaurant_id = $1
		  AND tip_type = $2
		  AND payment_status = $3
		  AND created_at >= $4 AND created_at < $5
	`
	var total float64
	err := r.db.QueryRow(query, restaurantID, utils.TipTypeRestaurant, utils.TipStatusCompleted, start, end).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to get pooled tip commission: %v", err)
	}
	return total, nil
}

// StoreTipDistributions persists the split of one pooled tip in a single
// transaction so a tip is never left partially distributed.
func (r *TipRepository) StoreTipDistributions(distributions []models.TipDistribution) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, d := range distributions {
		_, err = tx.Exec(
			`INSERT INTO tip_distributions (tip_id, group_name, percentage, amount, created_at)
			 VALUES ($1, $2, $3, $4, NOW())`,
			d.TipID, d.GroupName, d.Percentage, d.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert tip distribution: %v", err)
		}
	}

	return tx.Commit()
}

// HasTipDistributions reports whether a tip has already been split.
func (r *TipRepository) HasTipDistributions(tipID string) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM tip_distributions WHERE tip_id = $1", tipID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check tip distributions: %v", err)
	}
	return count > 0, nil
}
