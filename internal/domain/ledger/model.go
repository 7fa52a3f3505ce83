// Package ledger owns asset movements and per-period balances.
//
// Movements are append-only: a posted movement is never edited or deleted,
// corrections are posted as further movements. Balances are the derived
// per-asset, per-period roll-forward rows that the movements mutate.
package ledger

import (
	"context"
	"time"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/core/types"
)

// MovementType is the kind of ledger movement.
type MovementType string

const (
	// CostAdjustment changes the asset's cost without touching depreciation.
	CostAdjustment MovementType = "cost_adj"

	// DepreciationAdjustment changes accumulated depreciation directly.
	DepreciationAdjustment MovementType = "depreciation_adj"

	// Revaluation restates cost and depreciation together and flags the
	// asset as revalued.
	Revaluation MovementType = "revaluation"

	// DisposalFull removes the whole remaining asset from the books.
	DisposalFull MovementType = "disposal_full"

	// DisposalPartial removes part of the asset, by explicit amounts or
	// by percentage.
	DisposalPartial MovementType = "disposal_partial"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	switch t {
	case CostAdjustment, DepreciationAdjustment, Revaluation, DisposalFull, DisposalPartial:
		return true
	}
	return false
}

// IsDisposal reports whether the movement removes cost from the books.
func (t MovementType) IsDisposal() bool {
	return t == DisposalFull || t == DisposalPartial
}

// AssetMovement is one posted ledger movement.
type AssetMovement struct {
	ID       id.ID        `db:"id" json:"id"`
	Number   string       `db:"number" json:"number"`
	AssetID  id.ID        `db:"asset_id" json:"assetId"`
	PeriodID id.ID        `db:"period_id" json:"periodId"`
	Type     MovementType `db:"movement_type" json:"movementType"`

	PostingDate time.Time `db:"posting_date" json:"postingDate"`

	// AmountCost is the signed cost delta (adjustments, revaluation) or
	// the positive cost removed (disposals).
	AmountCost types.Money `db:"amount_cost" json:"amountCost"`

	// AmountDepreciation mirrors AmountCost on the depreciation side.
	AmountDepreciation types.Money `db:"amount_depreciation" json:"amountDepreciation"`

	// AmountProceeds is the sale consideration on disposals.
	AmountProceeds types.Money `db:"amount_proceeds" json:"amountProceeds"`

	// DisposalPercentage is recorded when a partial disposal was requested
	// by percentage rather than by explicit amounts.
	DisposalPercentage *types.Money `db:"disposal_percentage" json:"disposalPercentage,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// DisposalAmounts says how much cost and depreciation a partial disposal
// removes. The two ways of saying it are distinct types: an explicit zero
// amount means zero, it is never reinterpreted as "compute it for me".
type DisposalAmounts interface {
	isDisposalAmounts()
}

// ExplicitAmounts removes the stated cost and depreciation.
type ExplicitAmounts struct {
	Cost         types.Money
	Depreciation types.Money
}

func (ExplicitAmounts) isDisposalAmounts() {}

// ByPercentage removes the given percentage of the available cost and
// available depreciation. Must be in (0, 100].
type ByPercentage struct {
	Percentage types.Money
}

func (ByPercentage) isDisposalAmounts() {}

// Validate checks the percentage is in (0, 100].
func (p ByPercentage) Validate(ctx context.Context) error {
	if !p.Percentage.IsPositive() || p.Percentage.GreaterThan(types.MoneyFromInt(100)) {
		return apperror.NewPercentageOutOfRange(p.Percentage.String())
	}
	return nil
}

// AssetPeriodBalance is the roll-forward row for one asset in one period.
//
// Two identities hold on every persisted row (and as CHECK constraints):
//
//	cost_cfwd = cost_bfwd + additions - disposals_cost + cost_adjustment
//	depreciation_cfwd = depreciation_bfwd + depreciation_charge
//	                    - depreciation_on_disposals + depreciation_adjustment
type AssetPeriodBalance struct {
	AssetID  id.ID `db:"asset_id" json:"assetId"`
	PeriodID id.ID `db:"period_id" json:"periodId"`
	ClientID id.ID `db:"client_id" json:"clientId"`

	CostBfwd       types.Money `db:"cost_bfwd" json:"costBfwd"`
	Additions      types.Money `db:"additions" json:"additions"`
	DisposalsCost  types.Money `db:"disposals_cost" json:"disposalsCost"`
	CostAdjustment types.Money `db:"cost_adjustment" json:"costAdjustment"`
	CostCfwd       types.Money `db:"cost_cfwd" json:"costCfwd"`

	DepreciationBfwd        types.Money `db:"depreciation_bfwd" json:"depreciationBfwd"`
	DepreciationCharge      types.Money `db:"depreciation_charge" json:"depreciationCharge"`
	DepreciationOnDisposals types.Money `db:"depreciation_on_disposals" json:"depreciationOnDisposals"`
	DepreciationAdjustment  types.Money `db:"depreciation_adjustment" json:"depreciationAdjustment"`
	DepreciationCfwd        types.Money `db:"depreciation_cfwd" json:"depreciationCfwd"`

	DisposalProceeds types.Money `db:"disposal_proceeds" json:"disposalProceeds"`

	// Frozen is set when the period closes; frozen rows never change again.
	Frozen bool `db:"frozen" json:"frozen"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBalance creates an empty balance row for an asset in a period.
func NewBalance(clientID, assetID, periodID id.ID) *AssetPeriodBalance {
	return &AssetPeriodBalance{
		AssetID:   assetID,
		PeriodID:  periodID,
		ClientID:  clientID,
		UpdatedAt: time.Now().UTC(),
	}
}

// Recompute derives both carried-forward columns from the components.
// Called after every mutation, so the identities can never drift.
func (b *AssetPeriodBalance) Recompute() {
	b.CostCfwd = types.Round(
		b.CostBfwd.Add(b.Additions).Sub(b.DisposalsCost).Add(b.CostAdjustment))
	b.DepreciationCfwd = types.Round(
		b.DepreciationBfwd.Add(b.DepreciationCharge).
			Sub(b.DepreciationOnDisposals).Add(b.DepreciationAdjustment))
	b.UpdatedAt = time.Now().UTC()
}

// NBVBfwd is the opening net book value.
func (b *AssetPeriodBalance) NBVBfwd() types.Money {
	return b.CostBfwd.Sub(b.DepreciationBfwd)
}

// NBVCfwd is the closing net book value.
func (b *AssetPeriodBalance) NBVCfwd() types.Money {
	return b.CostCfwd.Sub(b.DepreciationCfwd)
}

// AvailableCost is the cost a disposal may still remove from this row.
func (b *AssetPeriodBalance) AvailableCost() types.Money {
	return b.CostBfwd.Add(b.Additions).Add(b.CostAdjustment).Sub(b.DisposalsCost)
}

// AvailableDepreciation is the accumulated depreciation a disposal may
// still remove, including the current period's charge.
func (b *AssetPeriodBalance) AvailableDepreciation() types.Money {
	return b.DepreciationBfwd.Add(b.DepreciationCharge).
		Add(b.DepreciationAdjustment).Sub(b.DepreciationOnDisposals)
}

// FullyDisposed reports whether no cost remains on the row.
func (b *AssetPeriodBalance) FullyDisposed() bool {
	return b.DisposalsCost.IsPositive() && b.AvailableCost().IsZero()
}
