package services

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jambotip/jambotip-backend/models"
	"github.com/jambotip/jambotip-backend/utils"
)

// ReportService handles Excel export of monthly payout runs for admin
// dashboards.
type ReportService struct {
	payoutStore     PayoutStore
	restaurantStore RestaurantStore
}

// NewReportService creates a new report service
func NewReportService(payoutStore PayoutStore, restaurantStore RestaurantStore) *ReportService {
	return &ReportService{
		payoutStore:     payoutStore,
		restaurantStore: restaurantStore,
	}
}

// ExportMonthlyPayouts generates an Excel file with a summary sheet and a
// per-payout sheet for one restaurant and month.
func (s *ReportService) ExportMonthlyPayouts(restaurantID, month string) (*excelize.File, string, error) {
	if err := utils.ValidatePayoutMonth(month); err != nil {
		return nil, "", err
	}

	restaurant, err := s.restaurantStore.GetRestaurantByID(restaurantID)
	if err != nil {
		return nil, "", err
	}

	payouts, err := s.payoutStore.GetPayoutsForMonth(restaurantID, month)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get payouts: %v", err)
	}

	f := excelize.NewFile()

	if err := s.createSummarySheet(f, restaurant, month, payouts); err != nil {
		return nil, "", fmt.Errorf("failed to create summary sheet: %v", err)
	}
	if err := s.createPayoutSheet(f, payouts); err != nil {
		return nil, "", fmt.Errorf("failed to create payout sheet: %v", err)
	}

	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("%s_Payouts_%s.xlsx", utils.CleanFileName(restaurant.Name), month)
	return f, filename, nil
}

// createSummarySheet creates Sheet 1: Summary
func (s *ReportService) createSummarySheet(f *excelize.File, restaurant *models.Restaurant, month string, payouts []models.Payout) error {
	sheetName := "Summary"
	f.NewSheet(sheetName)
	sheetIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIndex)

	var total, completed, failed, pending float64
	counts := make(map[string]int)
	for _, p := range payouts {
		total = utils.Round(total + p.Amount)
		counts[p.Status]++
		switch p.Status {
		case utils.PayoutStatusCompleted:
			completed = utils.Round(completed + p.Amount)
		case utils.PayoutStatusFailed:
			failed = utils.Round(failed + p.Amount)
		default:
			pending = utils.Round(pending + p.Amount)
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s - Payouts for %s", restaurant.Name, month))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	rows := [][]interface{}{
		{"Total payouts", len(payouts)},
		{"Completed", counts[utils.PayoutStatusCompleted]},
		{"Failed", counts[utils.PayoutStatusFailed]},
		{"Pending/processing", counts[utils.PayoutStatusPending] + counts[utils.PayoutStatusProcessing]},
		{"Total amount", utils.FormatCurrency(total)},
		{"Completed amount", utils.FormatCurrency(completed)},
		{"Failed amount", utils.FormatCurrency(failed)},
		{"Outstanding amount", utils.FormatCurrency(pending)},
		{"Exported at", time.Now().UTC().Format("2006-01-02 15:04")},
	}
	for i, row := range rows {
		excelRow := i + 3
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", excelRow), row[0])
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", excelRow), row[1])
	}

	f.SetColWidth(sheetName, "A", "B", 22)
	return nil
}

// createPayoutSheet creates Sheet 2: Payout List
func (s *ReportService) createPayoutSheet(f *excelize.File, payouts []models.Payout) error {
	sheetName := "Payouts"
	f.NewSheet(sheetName)

	headers := []string{"ID", "Recipient", "Type", "Group", "Amount", "Status", "Reference", "Processed At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	lastCol := string(rune('A' + len(headers) - 1))
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", lastCol), headerStyle)

	for i, p := range payouts {
		row := i + 2
		processedAt := ""
		if p.ProcessedAt != nil {
			processedAt = p.ProcessedAt.Format("2006-01-02 15:04")
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), p.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), p.RecipientName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.PayoutType)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), p.GroupName)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), p.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), p.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), p.TransactionRef)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), processedAt)
	}

	f.SetColWidth(sheetName, "A", lastCol, 16)
	f.SetColWidth(sheetName, "B", "B", 24)
	return nil
}
