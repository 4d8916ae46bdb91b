package services

import (
	"fmt"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// DistributionService handles pooled-tip splitting across distribution
// groups and the per-member share aggregation used by payout calculation.
type DistributionService struct{}

// NewDistributionService creates a new distribution service
func NewDistributionService() *DistributionService {
	return &DistributionService{}
}

// SplitPooledTip computes the materialized split of one pooled tip across
// the restaurant's distribution groups, snapshotting each group's current
// percentage. The group configuration is re-validated here: a restaurant
// with no groups, or with percentages not summing to 100, cannot accept a
// pooled split — funds are never silently dropped.
func (s *DistributionService) SplitPooledTip(tip *models.Tip, groups []models.DistributionGroup) ([]models.TipDistribution, error) {
	if tip.TipType != utils.TipTypeRestaurant {
		return nil, utils.NewValidationError("only restaurant-wide tips can be split across distribution groups")
	}
	if tip.NetAmount < 0 {
		return nil, utils.NewValidationError("tip net amount cannot be negative")
	}

	percentages := make([]float64, len(groups))
	for i, g := range groups {
		percentages[i] = g.Percentage
	}
	if err := utils.ValidateDistributionPercentages(percentages); err != nil {
		return nil, err
	}

	distributions := make([]models.TipDistribution, len(groups))
	var allocated float64
	largestIdx := 0
	for i, group := range groups {
		share := utils.Round(tip.NetAmount * group.Percentage / 100)
		distributions[i] = models.TipDistribution{
			TipID:      tip.ID,
			GroupName:  group.GroupName,
			Percentage: group.Percentage,
			Amount:     share,
		}
		allocated += share
		if group.Percentage > groups[largestIdx].Percentage {
			largestIdx = i
		}
	}

	// Assign the rounding remainder to the largest group so the shares
	// sum back to the tip's net amount.
	remainder := utils.Round(tip.NetAmount - allocated)
	if remainder != 0 {
		distributions[largestIdx].Amount = utils.Round(distributions[largestIdx].Amount + remainder)
	}

	return distributions, nil
}

// AggregateGroupShares turns a month's per-group distribution totals into
// per-recipient calculated entries by splitting each group's total evenly
// across its current active members. A group with no current members
// yields a single ownerless entry so the funds stay visible until an
// admin assigns members.
func (s *DistributionService) AggregateGroupShares(
	summaries []models.GroupDistributionSummary,
	membersByGroup map[string][]models.Waiter,
) []models.CalculatedPayoutEntry {
	var entries []models.CalculatedPayoutEntry

	for _, summary := range summaries {
		members := membersByGroup[summary.GroupName]
		if len(members) == 0 {
			entries = append(entries, models.CalculatedPayoutEntry{
				PayoutType:    utils.PayoutTypeGroup,
				GroupName:     summary.GroupName,
				RecipientName: fmt.Sprintf("%s (unassigned)", summary.GroupName),
				TipCount:      summary.TipCount,
				NetAmount:     utils.Round(summary.TotalAmount),
			})
			continue
		}

		share := utils.Round(summary.TotalAmount / float64(len(members)))
		allocated := share * float64(len(members))
		remainder := utils.Round(summary.TotalAmount - allocated)

		for i, member := range members {
			amount := share
			// First member absorbs the rounding remainder so member
			// shares sum to the group total.
			if i == 0 && remainder != 0 {
				amount = utils.Round(amount + remainder)
			}
			entries = append(entries, models.CalculatedPayoutEntry{
				PayoutType:    utils.PayoutTypeGroup,
				WaiterID:      member.ID,
				RecipientName: member.Name,
				GroupName:     summary.GroupName,
				TipCount:      summary.TipCount,
				NetAmount:     amount,
			})
		}
	}

	return entries
}
