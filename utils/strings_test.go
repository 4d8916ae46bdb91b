package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "KES 900.00", FormatCurrency(900))
	assert.Equal(t, "KES 1,234.50", FormatCurrency(1234.5))
	assert.Equal(t, "KES 1,234,567.89", FormatCurrency(1234567.89))
	assert.Equal(t, "KES 0.05", FormatCurrency(0.05))
	assert.Equal(t, "KES -450.00", FormatCurrency(-450))

	// Amounts with more than 2 decimal places round to the nearest cent
	assert.Equal(t, "KES 1.01", FormatCurrency(1.006))
	assert.Equal(t, "KES 999.99", FormatCurrency(999.994))
}

func TestNormalizePhoneNumber(t *testing.T) {
	// All common Kenyan formats converge on MSISDN form
	assert.Equal(t, "254712345678", NormalizePhoneNumber("0712345678"))
	assert.Equal(t, "254712345678", NormalizePhoneNumber("+254712345678"))
	assert.Equal(t, "254712345678", NormalizePhoneNumber("254712345678"))
	assert.Equal(t, "254712345678", NormalizePhoneNumber("712345678"))
	assert.Equal(t, "254712345678", NormalizePhoneNumber("0712 345 678"))
	assert.Equal(t, "254110123456", NormalizePhoneNumber("0110123456"))

	// Unusable inputs yield empty, signalling a missing account
	assert.Equal(t, "", NormalizePhoneNumber(""))
	assert.Equal(t, "", NormalizePhoneNumber("12345"))
	assert.Equal(t, "", NormalizePhoneNumber("not a number"))
	assert.Equal(t, "", NormalizePhoneNumber("2547123456789999"))
}

func TestFormatRecipientName(t *testing.T) {
	assert.Equal(t, "Amina Wanjiru", FormatRecipientName("amina wanjiru"))
	assert.Equal(t, "Amina", FormatRecipientName("  AMINA  "))
	assert.Equal(t, "", FormatRecipientName("   "))
}

func TestCleanFileName(t *testing.T) {
	assert.Equal(t, "Mama_Oliech_Payouts", CleanFileName("Mama Oliech/Payouts"))
	assert.Equal(t, "report_2026", CleanFileName("report:2026"))
}
