// Package dto defines the request and response shapes of the v1 API.
// Monetary amounts travel as strings so nothing is lost to floating
// point on the way in.
package dto

import (
	"time"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/types"
	"assetbook/internal/domain/periods"
)

// IDResponse is the standard creation response.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is the standard acknowledgement response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CreatePeriodRequest opens the first period for a client.
type CreatePeriodRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// CreateCategoryRequest registers an asset category.
type CreateCategoryRequest struct {
	Code string `json:"code"`
	Name string `json:"name" binding:"required"`
}

// CreateAssetRequest registers a fixed asset.
type CreateAssetRequest struct {
	CategoryID      string `json:"categoryId" binding:"required"`
	Code            string `json:"code"`
	Name            string `json:"name" binding:"required"`
	AcquisitionDate string `json:"acquisitionDate" binding:"required"`
	OriginalCost    string `json:"originalCost" binding:"required"`
	Method          string `json:"depreciationMethod" binding:"required"`
	Rate            string `json:"depreciationRate" binding:"required"`
	DisposalValue   string `json:"disposalValue"`
}

// UpdateAssetRequest changes descriptive asset fields.
type UpdateAssetRequest struct {
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
}

// PostMovementRequest posts one ledger movement.
type PostMovementRequest struct {
	AssetID     string `json:"assetId" binding:"required"`
	Type        string `json:"movementType" binding:"required"`
	PostingDate string `json:"postingDate" binding:"required"`

	// Signed deltas for adjustments and revaluations.
	AmountCost         string `json:"amountCost"`
	AmountDepreciation string `json:"amountDepreciation"`

	// Disposal fields.
	Proceeds string           `json:"proceeds"`
	Disposal *DisposalRequest `json:"disposal"`
}

// DisposalRequest says how much a partial disposal removes: either both
// explicit amounts, or a percentage. Exactly one form.
type DisposalRequest struct {
	Cost         *string `json:"cost"`
	Depreciation *string `json:"depreciation"`
	Percentage   *string `json:"percentage"`
}

// ClosePeriodRequest closes a period and opens the next.
type ClosePeriodRequest struct {
	Next  NextPeriodRequest `json:"next" binding:"required"`
	Force bool              `json:"force"`
}

// NextPeriodRequest describes the period opened by a close.
type NextPeriodRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// TogglePlanningRequest toggles one planning checklist section.
type TogglePlanningRequest struct {
	Completed bool `json:"completed"`
}

// ParseMoney parses a required monetary field.
func ParseMoney(field, value string) (types.Money, error) {
	m, err := types.NewMoneyFromString(value)
	if err != nil {
		return types.Zero(), apperror.NewInvalidAmount(field, "not a valid decimal number")
	}
	return m, nil
}

// ParseOptionalMoney parses an optional monetary field, zero when empty.
func ParseOptionalMoney(field, value string) (types.Money, error) {
	if value == "" {
		return types.Zero(), nil
	}
	return ParseMoney(field, value)
}

// ParseDate parses a calendar date in the wire format.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(periods.DateLayout, value)
	if err != nil {
		return time.Time{}, apperror.NewValidation("invalid date, want YYYY-MM-DD").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return t, nil
}
