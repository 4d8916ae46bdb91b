package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/services"
	"github.com/jambotip/jambotip-backend/utils"
)

// PayoutHandler handles payout-related HTTP requests
type PayoutHandler struct {
	calculationService *services.PayoutCalculationService
	generationService  *services.PayoutGenerationService
	processingService  *services.PayoutProcessingService
	payoutStore        services.PayoutStore
}

// NewPayoutHandler creates a new payout handler
func NewPayoutHandler(
	calculationService *services.PayoutCalculationService,
	generationService *services.PayoutGenerationService,
	processingService *services.PayoutProcessingService,
	payoutStore services.PayoutStore,
) *PayoutHandler {
	return &PayoutHandler{
		calculationService: calculationService,
		generationService:  generationService,
		processingService:  processingService,
		payoutStore:        payoutStore,
	}
}

// CalculatePayouts handles POST /payouts/calculate
func (h *PayoutHandler) CalculatePayouts(c *gin.Context) {
	var req models.CalculatePayoutsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	calculation, err := h.calculationService.CalculateMonthlyPayouts(req.RestaurantID, req.Month, req.MinimumThreshold)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, calculation)
}

// GeneratePayouts handles POST /payouts/generate
func (h *PayoutHandler) GeneratePayouts(c *gin.Context) {
	var req models.GeneratePayoutsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	calculation, err := h.calculationService.CalculateMonthlyPayouts(req.RestaurantID, req.Month, req.MinimumThreshold)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	result, err := h.generationService.GeneratePayoutRecords(calculation)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ProcessPayouts handles POST /payouts/process
func (h *PayoutHandler) ProcessPayouts(c *gin.Context) {
	var req models.ProcessPayoutsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	summary, err := h.processingService.ProcessPayouts(&req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, summary)
}

// RetryPayouts handles POST /payouts/retry
func (h *PayoutHandler) RetryPayouts(c *gin.Context) {
	var req models.RetryPayoutsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	summary, err := h.processingService.RetryFailedPayouts(req.PayoutIDs)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, summary)
}

// ListPayouts handles POST /payouts/list
func (h *PayoutHandler) ListPayouts(c *gin.Context) {
	var req models.ListPayoutsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}
	if err := utils.ValidatePayoutMonth(req.Month); err != nil {
		utils.HandleError(c, err)
		return
	}

	payouts, err := h.payoutStore.GetPayoutsForMonth(req.RestaurantID, req.Month)
	if err != nil {
		utils.HandleError(c, utils.NewInternalError(utils.ErrFailedToRetrieve))
		return
	}

	utils.HandleSuccess(c, gin.H{"payouts": payouts, "count": len(payouts)})
}

// NotifyUpcoming handles POST /payouts/notifyUpcoming
func (h *PayoutHandler) NotifyUpcoming(c *gin.Context) {
	var req models.NotifyUpcomingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	notified, err := h.processingService.NotifyUpcomingPayouts(req.RestaurantID, req.Month, req.MinimumThreshold)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"notified": notified})
}
