// repository/waiter_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// WaiterRepository handles database operations for waiters
type WaiterRepository struct {
	db *sql.DB
}

// NewWaiterRepository creates a new waiter repository
func NewWaiterRepository(db *sql.DB) *WaiterRepository {
	return &WaiterRepository{db: db}
}

// GetWaiterByID retrieves a single waiter
func (r *WaiterRepository) GetWaiterByID(waiterID string) (*models.Waiter, error) {
	query := `
		SELECT id, restaurant_id, name, phone, email, group_name, active, created_at
		FROM waiters
		WHERE id = $1
	`
	var w models.Waiter
	var email, groupName sql.NullString
	err := r.db.QueryRow(query, waiterID).Scan(
		&w.ID, &w.RestaurantID, &w.Name, &w.Phone, &email, &groupName, &w.Active, &w.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewNotFoundError("Waiter")
		}
		return nil, fmt.Errorf("failed to get waiter: %v", err)
	}
	if email.Valid {
		w.Email = email.String
	}
	if groupName.Valid {
		w.GroupName = groupName.String
	}
	return &w, nil
}

// GetActiveWaiters retrieves all active waiters for a restaurant.
func (r *WaiterRepository) GetActiveWaiters(restaurantID string) ([]models.Waiter, error) {
	query := `
		SELECT id, restaurant_id, name, phone, email, group_name, active, created_at
		FROM waiters
		WHERE restaurant_id = $1 AND active = true
		ORDER BY name
	`
	rows, err := r.db.Query(query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active waiters: %v", err)
	}
	defer rows.Close()

	var waiters []models.Waiter
	for rows.Next() {
		var w models.Waiter
		var email, groupName sql.NullString
		if err := rows.Scan(&w.ID, &w.RestaurantID, &w.Name, &w.Phone, &email, &groupName, &w.Active, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan waiter: %v", err)
		}
		if email.Valid {
			w.Email = email.String
		}
		if groupName.Valid {
			w.GroupName = groupName.String
		}
		waiters = append(waiters, w)
	}
	return waiters, rows.Err()
}

// GetActiveWaitersByGroup returns the restaurant's active waiters keyed by
// their current distribution group. Waiters without a group are omitted.
func (r *WaiterRepository) GetActiveWaitersByGroup(restaurantID string) (map[string][]models.Waiter, error) {
	waiters, err := r.GetActiveWaiters(restaurantID)
	if err != nil {
		return nil, err
	}

	byGroup := make(map[string][]models.Waiter)
	for _, w := range waiters {
		if w.GroupName == "" {
			continue
		}
		byGroup[w.GroupName] = append(byGroup[w.GroupName], w)
	}
	return byGroup, nil
}
