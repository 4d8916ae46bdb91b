// repository/restaurant_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// RestaurantRepository handles database operations for restaurants
type RestaurantRepository struct {
	db *sql.DB
}

// NewRestaurantRepository creates a new restaurant repository
func NewRestaurantRepository(db *sql.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// GetRestaurantByID retrieves a restaurant's payout-relevant configuration.
func (r *RestaurantRepository) GetRestaurantByID(restaurantID string) (*models.Restaurant, error) {
	query := `
		SELECT id, name, commission_rate, payout_account, notification_lead_days, contact_email, active
		FROM restaurants
		WHERE id = $1
	`
	var rest models.Restaurant
	var payoutAccount, contactEmail sql.NullString
	err := r.db.QueryRow(query, restaurantID).Scan(
		&rest.ID, &rest.Name, &rest.CommissionRate, &payoutAccount,
		&rest.NotificationLeadDays, &contactEmail, &rest.Active,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewNotFoundError("Restaurant")
		}
		return nil, fmt.Errorf("failed to get restaurant: %v", err)
	}
	if payoutAccount.Valid {
		rest.PayoutAccount = payoutAccount.String
	}
	if contactEmail.Valid {
		rest.ContactEmail = contactEmail.String
	}
	return &rest, nil
}
