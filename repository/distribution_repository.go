// repository/distribution_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/jambotip/jambotip-backend/models"
)

// DistributionRepository handles database operations for distribution groups
type DistributionRepository struct {
	db *sql.DB
}

// NewDistributionRepository creates a new distribution repository
func NewDistributionRepository(db *sql.DB) *DistributionRepository {
	return &DistributionRepository{db: db}
}

// GetGroups retrieves a restaurant's distribution group configuration.
func (r *DistributionRepository) GetGroups(restaurantID string) ([]models.DistributionGroup, error) {
	query := `
		SELECT id, restaurant_id, group_name, percentage
		FROM distribution_groups
		WHERE restaurant_id = $1
		ORDER BY percentage DESC, group_name
	`
	rows, err := r.db.Query(query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get distribution groups: %v", err)
	}
	defer rows.Close()

	var groups []models.DistributionGroup
	for rows.Next() {
		var g models.DistributionGroup
		if err := rows.Scan(&g.ID, &g.RestaurantID, &g.GroupName, &g.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan distribution group: %v", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ReplaceGroups swaps a restaurant's group configuration in one
// transaction. Past tip distributions keep their snapshotted percentages;
// the new configuration applies only to future pooled tips.
func (r *DistributionRepository) ReplaceGroups(restaurantID string, groups []models.DistributionGroup) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("DELETE FROM distribution_groups WHERE restaurant_id = $1", restaurantID)
	if err != nil {
		return fmt.Errorf("failed to clear distribution groups: %v", err)
	}

	for _, g := range groups {
		_, err = tx.Exec(
			`INSERT INTO distribution_groups (restaurant_id, group_name, percentage)
			 VALUES ($1, $2, $3)`,
			restaurantID, g.GroupName, g.Percentage,
		)
		if err != nil {
			return fmt.Errorf("failed to insert distribution group: %v", err)
		}
	}

	return tx.Commit()
}
