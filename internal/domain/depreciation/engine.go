// Package depreciation computes period depreciation charges.
//
// The engine itself is pure: it takes an asset, a period and the asset's
// balance row and returns a charge. All persistence happens in the
// service around it, so the arithmetic is trivially testable.
package depreciation

import (
	"time"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/types"
	"assetbook/internal/domain/assets"
	"assetbook/internal/domain/ledger"
	"assetbook/internal/domain/periods"
)

// Charge is the computed depreciation for one asset in one period.
type Charge struct {
	// Amount is the charge, rounded to ledger precision. Zero when the
	// asset was not owned during the period or is already written down
	// to its residual floor.
	Amount types.Money

	// OwnedDays is the inclusive day count the asset was held within the
	// period.
	OwnedDays int

	// RateUsed is the annual rate the charge was derived from.
	RateUsed types.Money
}

// ComputeCharge calculates the prorated depreciation charge for one asset.
//
// The annual charge depends on the method:
//
//	straight line:    (original cost + cost adjustments) x rate
//	reducing balance: opening net book value x rate
//
// then it is prorated by owned days over the days in the calendar year of
// the period's end date, and finally capped so the net book value never
// falls below the residual floor (disposal value, or zero).
func ComputeCharge(
	asset *assets.FixedAsset,
	period *periods.AccountingPeriod,
	balance *ledger.AssetPeriodBalance,
) (Charge, error) {
	if !asset.Method.Valid() {
		return Charge{}, apperror.NewValidation("unknown depreciation method").
			WithDetail("assetId", asset.ID.String()).
			WithDetail("depreciationMethod", string(asset.Method))
	}
	if asset.Rate.IsNegative() {
		return Charge{}, apperror.NewValidation("depreciation rate must not be negative").
			WithDetail("assetId", asset.ID.String()).
			WithDetail("depreciationRate", asset.Rate.String())
	}

	owned := ownedDays(asset, period)
	charge := Charge{OwnedDays: owned, RateUsed: asset.Rate, Amount: types.Zero()}
	if owned == 0 || asset.Rate.IsZero() {
		return charge, nil
	}

	var base types.Money
	switch asset.Method {
	case assets.StraightLine:
		base = asset.DepreciableCost()
	case assets.ReducingBalance:
		base = balance.CostBfwd.Sub(balance.DepreciationBfwd)
		// Acquisition period: nothing was brought forward yet, so the
		// reducing-balance base is this period's additions.
		if balance.CostBfwd.IsZero() {
			base = balance.Additions.Add(balance.CostAdjustment)
		}
	}
	if base.IsNegative() {
		base = types.Zero()
	}

	annual := base.Mul(types.Percent(asset.Rate))
	prorated := annual.
		Mul(types.MoneyFromInt(int64(owned))).
		Div(types.MoneyFromInt(int64(daysInYear(period.EndDate))))
	amount := types.Round(prorated)

	// Cap: the charge may not push NBV below the residual floor.
	if limit := nbvBeforeCharge(balance).Sub(asset.ResidualFloor()); amount.GreaterThan(limit) {
		amount = types.Round(limit)
	}
	if amount.IsNegative() {
		amount = types.Zero()
	}

	charge.Amount = amount
	return charge, nil
}

// ownedDays counts the inclusive days within the period the asset was held:
// from the later of period start and acquisition date, to the earlier of
// period end and disposal date.
func ownedDays(asset *assets.FixedAsset, period *periods.AccountingPeriod) int {
	start := periods.Day(period.StartDate)
	end := periods.Day(period.EndDate)

	if acq := periods.Day(asset.AcquisitionDate); acq.After(start) {
		start = acq
	}
	if asset.DisposalDate != nil {
		if disp := periods.Day(*asset.DisposalDate); disp.Before(end) {
			end = disp
		}
	}
	if start.After(end) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// daysInYear returns 365 or 366 for the calendar year containing t.
func daysInYear(t time.Time) int {
	y := t.Year()
	start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(start.AddDate(1, 0, 0).Sub(start).Hours() / 24)
}

// nbvBeforeCharge is the net book value the row would carry with a zero
// depreciation charge. Disposal and adjustment columns count, the charge
// itself does not.
func nbvBeforeCharge(b *ledger.AssetPeriodBalance) types.Money {
	cost := b.CostBfwd.Add(b.Additions).Add(b.CostAdjustment).Sub(b.DisposalsCost)
	dep := b.DepreciationBfwd.Add(b.DepreciationAdjustment).Sub(b.DepreciationOnDisposals)
	return cost.Sub(dep)
}
