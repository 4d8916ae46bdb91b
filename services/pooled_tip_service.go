package services

import (
	"log"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// PooledTipService manages distribution group configuration and the
// materialization of pooled-tip splits.
type PooledTipService struct {
	tipStore          TipStore
	distributionStore DistributionStore
	splitter          *DistributionService
}

// NewPooledTipService creates a new pooled tip service
func NewPooledTipService(tipStore TipStore, distributionStore DistributionStore, splitter *DistributionService) *PooledTipService {
	return &PooledTipService{
		tipStore:          tipStore,
		distributionStore: distributionStore,
		splitter:          splitter,
	}
}

// MaterializeSplit splits a completed pooled tip across the restaurant's
// current distribution groups and persists the snapshot. A tip is split
// at most once; the snapshot decouples future group edits from this
// tip's payout.
func (s *PooledTipService) MaterializeSplit(tipID string) ([]models.TipDistribution, error) {
	tip, err := s.tipStore.GetTipByID(tipID)
	if err != nil {
		return nil, err
	}
	if tip.TipType != utils.TipTypeRestaurant {
		return nil, utils.NewValidationError("tip is not a restaurant-wide tip")
	}
	if tip.PaymentStatus != utils.TipStatusCompleted {
		return nil, utils.NewValidationError("only completed tips can be distributed")
	}

	alreadySplit, err := s.tipStore.HasTipDistributions(tipID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to check existing distributions")
	}
	if alreadySplit {
		return nil, utils.NewBadRequestError("tip has already been distributed")
	}

	groups, err := s.distributionStore.GetGroups(tip.RestaurantID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve distribution groups")
	}

	distributions, err := s.splitter.SplitPooledTip(tip, groups)
	if err != nil {
		return nil, err
	}

	if err := s.tipStore.StoreTipDistributions(distributions); err != nil {
		return nil, utils.NewInternalError("Failed to store tip distributions")
	}

	log.Printf("MaterializeSplit: tip %s split across %d groups", tipID, len(distributions))
	return distributions, nil
}

// SetGroups replaces a restaurant's distribution group configuration.
// Percentages must sum to exactly 100. The new configuration applies only
// to future pooled tips; existing tip distributions keep their snapshots.
func (s *PooledTipService) SetGroups(restaurantID string, inputs []models.DistributionGroupInput) ([]models.DistributionGroup, error) {
	if err := utils.ValidateRequired(restaurantID, "restaurantId"); err != nil {
		return nil, err
	}

	percentages := make([]float64, len(inputs))
	groups := make([]models.DistributionGroup, len(inputs))
	seen := make(map[string]bool)
	for i, input := range inputs {
		if err := utils.ValidateRequired(input.GroupName, "groupName"); err != nil {
			return nil, err
		}
		if seen[input.GroupName] {
			return nil, utils.NewValidationError("duplicate group name: " + input.GroupName)
		}
		seen[input.GroupName] = true
		percentages[i] = input.Percentage
		groups[i] = models.DistributionGroup{
			RestaurantID: restaurantID,
			GroupName:    input.GroupName,
			Percentage:   input.Percentage,
		}
	}
	if err := utils.ValidateDistributionPercentages(percentages); err != nil {
		return nil, err
	}

	if err := s.distributionStore.ReplaceGroups(restaurantID, groups); err != nil {
		return nil, utils.NewInternalError("Failed to store distribution groups")
	}
	return groups, nil
}

// GetGroups returns a restaurant's distribution group configuration.
func (s *PooledTipService) GetGroups(restaurantID string) ([]models.DistributionGroup, error) {
	groups, err := s.distributionStore.GetGroups(restaurantID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to retrieve distribution groups")
	}
	return groups, nil
}
