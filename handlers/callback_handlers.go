package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/services"
	"github.com/jambotip/jambotip-backend/utils"
)

// CallbackHandler handles asynchronous callbacks from the disbursement
// provider.
type CallbackHandler struct {
	processingService *services.PayoutProcessingService
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(processingService *services.PayoutProcessingService) *CallbackHandler {
	return &CallbackHandler{processingService: processingService}
}

// DisbursementCallback handles POST /callbacks/disbursement. Duplicate
// callbacks for an already settled payout are acknowledged, not errored,
// so the provider stops retrying.
func (h *CallbackHandler) DisbursementCallback(c *gin.Context) {
	var req models.DisbursementCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	payout, err := h.processingService.HandleDisbursementCallback(&req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"payoutId": payout.ID, "status": payout.Status})
}
