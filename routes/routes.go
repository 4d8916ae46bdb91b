package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/jambotip/jambotip-backend/handlers"
)

// SetupRoutes configures all API routes for the application
func SetupRoutes(
	router *gin.Engine,
	payoutHandler *handlers.PayoutHandler,
	distributionHandler *handlers.DistributionHandler,
	callbackHandler *handlers.CallbackHandler,
	reportHandler *handlers.ReportHandler,
) {
	v1 := router.Group("/api/v1")
	{
		// Payout endpoints
		v1.POST("/payouts/calculate", payoutHandler.CalculatePayouts)
		v1.POST("/payouts/generate", payoutHandler.GeneratePayouts)
		v1.POST("/payouts/process", payoutHandler.ProcessPayouts)
		v1.POST("/payouts/retry", payoutHandler.RetryPayouts)
		v1.POST("/payouts/list", payoutHandler.ListPayouts)
		v1.POST("/payouts/notifyUpcoming", payoutHandler.NotifyUpcoming)

		// Distribution group endpoints
		v1.POST("/distributions/split", distributionHandler.SplitPooledTip)
		v1.POST("/distributions/setGroups", distributionHandler.SetGroups)
		v1.POST("/distributions/listGroups", distributionHandler.ListGroups)

		// Provider settlement callback
		v1.POST("/callbacks/disbursement", callbackHandler.DisbursementCallback)

		// Report export
		v1.GET("/reports/payouts/export", reportHandler.ExportPayouts)
	}
}
