package utils

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error taxonomy types carried on AppError.Type
const (
	ErrTypeValidation             = "VALIDATION"
	ErrTypeNotFound               = "NOT_FOUND"
	ErrTypeDuplicatePayoutPeriod  = "DUPLICATE_PAYOUT_PERIOD"
	ErrTypeMissingDisbursementAcc = "MISSING_DISBURSEMENT_ACCOUNT"
	ErrTypeProvider               = "PROVIDER_ERROR"
	ErrTypeInternal               = "INTERNAL"
)

// AppError represents a custom application error
type AppError struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common error constructors
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    ErrTypeValidation,
		Message: message,
	}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Type:    ErrTypeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Type:    ErrTypeInternal,
		Message: message,
	}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    ErrTypeValidation,
		Message: message,
	}
}

// NewDuplicatePayoutPeriodError signals that payout records already exist
// for a restaurant and month, so generation must not run again.
func NewDuplicatePayoutPeriodError(restaurantID, month string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Type:    ErrTypeDuplicatePayoutPeriod,
		Message: fmt.Sprintf("payout records already exist for restaurant %s in %s", restaurantID, month),
	}
}

// NewMissingDisbursementAccountError marks a single batch item whose
// recipient has no configured payout destination. It never aborts siblings.
func NewMissingDisbursementAccountError(recipient string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Type:    ErrTypeMissingDisbursementAcc,
		Message: fmt.Sprintf("no disbursement account configured for %s", recipient),
	}
}

// NewProviderError wraps a failure of the bulk disbursement call itself.
// Definite means the provider rejected the request before accepting any
// item (claimed rows are safe to release); ambiguous transport failures
// leave rows for callback reconciliation.
func NewProviderError(provider, message string, definite bool) *ProviderError {
	return &ProviderError{
		AppError: AppError{
			Code:    http.StatusBadGateway,
			Type:    ErrTypeProvider,
			Message: fmt.Sprintf("%s: %s", provider, message),
		},
		Provider: provider,
		Definite: definite,
	}
}

// ProviderError is an AppError carrying disbursement-provider context.
type ProviderError struct {
	AppError
	Provider string `json:"provider"`
	Definite bool   `json:"definite"`
}

// HandleError sends an appropriate HTTP response for an error
func HandleError(c *gin.Context, err error) {
	if provErr, ok := err.(*ProviderError); ok {
		c.JSON(provErr.Code, gin.H{"error": provErr.Message, "type": provErr.Type})
		return
	}
	if appErr, ok := err.(*AppError); ok {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message, "type": appErr.Type})
		return
	}

	// Default to internal server error
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// HandleSuccess sends a success response
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
