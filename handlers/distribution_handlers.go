package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/services"
	"github.com/jambotip/jambotip-backend/utils"
)

// DistributionHandler handles distribution-group HTTP requests
type DistributionHandler struct {
	pooledTipService *services.PooledTipService
}

// NewDistributionHandler creates a new distribution handler
func NewDistributionHandler(pooledTipService *services.PooledTipService) *DistributionHandler {
	return &DistributionHandler{pooledTipService: pooledTipService}
}

// SplitPooledTip handles POST /distributions/split
func (h *DistributionHandler) SplitPooledTip(c *gin.Context) {
	var req models.SplitPooledTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	distributions, err := h.pooledTipService.MaterializeSplit(req.TipID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"distributions": distributions})
}

// SetGroups handles POST /distributions/setGroups
func (h *DistributionHandler) SetGroups(c *gin.Context) {
	var req models.SetDistributionGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	groups, err := h.pooledTipService.SetGroups(req.RestaurantID, req.Groups)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"groups": groups})
}

// ListGroups handles POST /distributions/listGroups
func (h *DistributionHandler) ListGroups(c *gin.Context) {
	var req models.ListDistributionGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	groups, err := h.pooledTipService.GetGroups(req.RestaurantID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"groups": groups})
}
