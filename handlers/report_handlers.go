package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jambotip/jambotip-backend/services"
	"github.com/jambotip/jambotip-backend/utils"
)

// ReportHandler handles payout report exports
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportPayouts handles GET /reports/payouts/export?restaurantId=&month=
func (h *ReportHandler) ExportPayouts(c *gin.Context) {
	restaurantID := c.Query("restaurantId")
	month := c.Query("month")
	if restaurantID == "" || month == "" {
		utils.HandleError(c, utils.NewBadRequestError("restaurantId and month query parameters are required"))
		return
	}

	excelFile, filename, err := h.reportService.ExportMonthlyPayouts(restaurantID, month)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	// Set headers for file download
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Transfer-Encoding", "binary")

	if err := excelFile.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file: " + err.Error()})
		return
	}
}
