package utils

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// FormatCurrency renders a money amount for notifications and reports,
// rounded to the nearest cent, e.g. 1234.5 -> "KES 1,234.50".
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	totalCents := int64(math.Round(amount * 100))
	whole := totalCents / 100
	cents := totalCents % 100

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s %s%s.%02d", CurrencyCode, sign, strings.Join(groups, ","), cents)
}

// NormalizePhoneNumber converts a Kenyan MSISDN to the 2547XXXXXXXX form
// expected by the disbursement provider. Accepts 07..., +254... and 254...
// inputs; returns an empty string when the number is unusable.
func NormalizePhoneNumber(phone string) string {
	cleaned := regexp.MustCompile(`[^0-9+]`).ReplaceAllString(strings.TrimSpace(phone), "")
	cleaned = strings.TrimPrefix(cleaned, "+")

	switch {
	case strings.HasPrefix(cleaned, "254") && len(cleaned) == 12:
		return cleaned
	case strings.HasPrefix(cleaned, "0") && len(cleaned) == 10:
		return "254" + cleaned[1:]
	case strings.HasPrefix(cleaned, "7") && len(cleaned) == 9:
		return "254" + cleaned
	case strings.HasPrefix(cleaned, "1") && len(cleaned) == 9:
		return "254" + cleaned
	}
	return ""
}

// FormatRecipientName trims and title-cases a recipient name for
// notification templates.
func FormatRecipientName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// CleanFileName removes invalid characters from filename
func CleanFileName(filename string) string {
	// Replace invalid characters with underscore
	reg := regexp.MustCompile(`[<>:"/\\|?*]`)
	cleaned := reg.ReplaceAllString(filename, "_")

	// Remove extra spaces and trim
	cleaned = strings.TrimSpace(cleaned)
	cleaned = regexp.MustCompile(`\s+`).ReplaceAllString(cleaned, "_")

	return cleaned
}
