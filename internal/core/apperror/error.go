// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes, grouped by the ledger error taxonomy.
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Validation errors (400)
	CodeValidation            = "VALIDATION_ERROR"
	CodeInvalidAmount         = "INVALID_AMOUNT"
	CodePercentageOutOfRange  = "PERCENTAGE_OUT_OF_RANGE"
	CodePostingDateOutOfRange = "POSTING_DATE_OUT_OF_RANGE"

	// State errors (422): operation not allowed in the period's current status
	CodePeriodNotOpen      = "PERIOD_NOT_OPEN"
	CodePeriodClosed       = "PERIOD_CLOSED"
	CodeCloseNeedsOverride = "CLOSE_NEEDS_OVERRIDE"
	CodeAssetDisposed      = "ASSET_DISPOSED"

	// Consistency errors (422): would break a ledger invariant
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeRollForwardMismatch = "ROLL_FORWARD_MISMATCH"
	CodeRecalculationFailed = "RECALCULATION_FAILED"

	// Concurrency (409)
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeConflict               = "CONFLICT"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"
)

// AppError is the standard error type for the service.
// It implements the error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, amounts, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidAmount creates an error for malformed monetary input (400).
func NewInvalidAmount(field, reason string) *AppError {
	return &AppError{
		Code:       CodeInvalidAmount,
		Message:    "invalid amount",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field, "reason": reason},
	}
}

// NewPercentageOutOfRange is returned when a disposal percentage is not in (0,100].
func NewPercentageOutOfRange(value string) *AppError {
	return &AppError{
		Code:       CodePercentageOutOfRange,
		Message:    "disposal percentage must be in (0,100]",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": "disposalPercentage", "value": value},
	}
}

// NewPostingDateOutOfRange is returned when a posting date falls outside the period.
func NewPostingDateOutOfRange(postingDate, periodStart, periodEnd string) *AppError {
	return &AppError{
		Code:       CodePostingDateOutOfRange,
		Message:    "posting date is outside the period date range",
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{
			"field":       "postingDate",
			"value":       postingDate,
			"periodStart": periodStart,
			"periodEnd":   periodEnd,
		},
	}
}

// NewPeriodNotOpen is returned when a write targets a period that is not OPEN.
func NewPeriodNotOpen(periodID string, status string) *AppError {
	return &AppError{
		Code:       CodePeriodNotOpen,
		Message:    "period is not open for postings",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"periodId": periodID, "status": status},
	}
}

// NewAssetDisposed is returned when a write targets an asset that was
// already fully disposed.
func NewAssetDisposed(assetID string, disposalDate string) *AppError {
	return &AppError{
		Code:       CodeAssetDisposed,
		Message:    "asset has been fully disposed",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"assetId": assetID, "disposalDate": disposalDate},
	}
}

// NewInsufficientBalance is returned when a movement would drive a
// carried-forward balance negative. Never clamped silently.
func NewInsufficientBalance(field, attempted, available string) *AppError {
	return &AppError{
		Code:       CodeInsufficientBalance,
		Message:    "movement would drive balance negative",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"field":     field,
			"attempted": attempted,
			"available": available,
		},
	}
}

// NewRollForwardMismatch signals that carried-forward figures do not
// reconcile across consecutive periods. This is a data-integrity fault,
// not a user error.
func NewRollForwardMismatch(assetID string) *AppError {
	return &AppError{
		Code:       CodeRollForwardMismatch,
		Message:    "carried-forward figures do not reconcile across periods",
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"assetId": assetID},
	}
}

// NewCloseNeedsOverride is returned when period close is rejected because the
// planning checklist is incomplete and force was not set.
func NewCloseNeedsOverride(completed, total int) *AppError {
	return &AppError{
		Code:       CodeCloseNeedsOverride,
		Message:    "planning checklist incomplete; close requires override",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"needsOverride": true,
			"completion":    map[string]int{"completed": completed, "total": total},
		},
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewConcurrentModification creates an optimistic locking error
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified concurrently. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsCode checks whether the error carries a specific code.
func IsCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
