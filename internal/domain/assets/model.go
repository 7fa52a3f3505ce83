// Package assets provides the fixed-asset master records and categories.
package assets

import (
	"context"
	"time"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/core/types"
)

// DepreciationMethod selects the charge formula for an asset.
type DepreciationMethod string

const (
	// StraightLine charges rate% of depreciable cost each full year.
	StraightLine DepreciationMethod = "straight_line"

	// ReducingBalance charges rate% of the opening net book value.
	ReducingBalance DepreciationMethod = "reducing_balance"
)

// Valid reports whether m is a known method.
func (m DepreciationMethod) Valid() bool {
	return m == StraightLine || m == ReducingBalance
}

// Category groups assets for schedule reporting.
type Category struct {
	ID        id.ID     `db:"id" json:"id"`
	ClientID  id.ID     `db:"client_id" json:"clientId"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewCategory creates a category with a generated ID.
func NewCategory(clientID id.ID, code, name string) *Category {
	now := time.Now().UTC()
	return &Category{
		ID:        id.New(),
		ClientID:  clientID,
		Code:      code,
		Name:      name,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks category invariants.
func (c *Category) Validate(ctx context.Context) error {
	if id.IsNil(c.ClientID) {
		return apperror.NewValidation("client is required").WithDetail("field", "clientId")
	}
	if c.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}

// FixedAsset is a fixed-asset master record.
type FixedAsset struct {
	ID         id.ID  `db:"id" json:"id"`
	ClientID   id.ID  `db:"client_id" json:"clientId"`
	CategoryID id.ID  `db:"category_id" json:"categoryId"`
	Code       string `db:"code" json:"code"`
	Name       string `db:"name" json:"name"`

	AcquisitionDate time.Time `db:"acquisition_date" json:"acquisitionDate"`

	OriginalCost types.Money `db:"original_cost" json:"originalCost"`

	// CostAdjustment is the cumulative effect of cost_adj and revaluation
	// movements across all periods; straight-line depreciation uses
	// OriginalCost + CostAdjustment as its base.
	CostAdjustment types.Money `db:"cost_adjustment" json:"costAdjustment"`

	Method DepreciationMethod `db:"depreciation_method" json:"depreciationMethod"`

	// Rate is the annual depreciation rate in percent.
	Rate types.Money `db:"depreciation_rate" json:"depreciationRate"`

	// DisposalValue is the expected residual value; when set, the charge
	// is capped so NBV never drops below it.
	DisposalValue *types.Money `db:"disposal_value" json:"disposalValue,omitempty"`

	// DisposalDate is set by a disposal_full movement. A disposed asset
	// stops depreciating past this date and stops rolling forward.
	DisposalDate *time.Time `db:"disposal_date" json:"disposalDate,omitempty"`

	// Revalued marks assets touched by a revaluation movement; the
	// non-negative-NBV invariant is waived for them.
	Revalued bool `db:"revalued" json:"revalued"`

	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewFixedAsset creates an asset with a generated ID.
func NewFixedAsset(clientID, categoryID id.ID, code, name string) *FixedAsset {
	now := time.Now().UTC()
	return &FixedAsset{
		ID:         id.New(),
		ClientID:   clientID,
		CategoryID: categoryID,
		Code:       code,
		Name:       name,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate checks asset invariants.
func (a *FixedAsset) Validate(ctx context.Context) error {
	if id.IsNil(a.ClientID) {
		return apperror.NewValidation("client is required").WithDetail("field", "clientId")
	}
	if id.IsNil(a.CategoryID) {
		return apperror.NewValidation("category is required").WithDetail("field", "categoryId")
	}
	if a.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if a.AcquisitionDate.IsZero() {
		return apperror.NewValidation("acquisition date is required").
			WithDetail("field", "acquisitionDate")
	}
	if a.OriginalCost.IsNegative() {
		return apperror.NewInvalidAmount("originalCost", "must not be negative")
	}
	if !a.Method.Valid() {
		return apperror.NewValidation("unknown depreciation method").
			WithDetail("field", "depreciationMethod").
			WithDetail("value", string(a.Method))
	}
	if a.Rate.IsNegative() {
		return apperror.NewValidation("depreciation rate must not be negative").
			WithDetail("field", "depreciationRate").
			WithDetail("value", a.Rate.String())
	}
	if a.DisposalValue != nil && a.DisposalValue.IsNegative() {
		return apperror.NewInvalidAmount("disposalValue", "must not be negative")
	}
	return nil
}

// IsDisposed reports whether the asset was fully disposed.
func (a *FixedAsset) IsDisposed() bool {
	return a.DisposalDate != nil
}

// DepreciableCost is the straight-line base: original cost plus cumulative
// cost adjustments.
func (a *FixedAsset) DepreciableCost() types.Money {
	return a.OriginalCost.Add(a.CostAdjustment)
}

// ResidualFloor returns the value NBV may not drop below.
func (a *FixedAsset) ResidualFloor() types.Money {
	if a.DisposalValue != nil {
		return *a.DisposalValue
	}
	return types.Zero()
}
