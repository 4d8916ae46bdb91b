package utils

import (
	"fmt"
	"time"
)

// ParsePayoutMonth parses a YYYY-MM payout month key into the half-open
// UTC window [start, end) covering that calendar month.
func ParsePayoutMonth(month string) (time.Time, error) {
	t, err := time.ParseInLocation(PayoutMonthLayout, month, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse payout month %q: %v", month, err)
	}
	return t, nil
}

// MonthWindow returns the half-open [start, end) window for a YYYY-MM key.
func MonthWindow(month string) (time.Time, time.Time, error) {
	start, err := ParsePayoutMonth(month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0), nil
}

// LastDayOfMonth returns the last calendar day of a YYYY-MM key, used as
// the payout date in upcoming-payout notifications.
func LastDayOfMonth(month string) (time.Time, error) {
	start, err := ParsePayoutMonth(month)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 1, -1), nil
}

// CurrentPayoutMonth returns the YYYY-MM key for a point in time.
func CurrentPayoutMonth(at time.Time) string {
	return at.UTC().Format(PayoutMonthLayout)
}
