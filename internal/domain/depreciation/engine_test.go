package depreciation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetbook/internal/core/id"
	"assetbook/internal/core/types"
	"assetbook/internal/domain/assets"
	"assetbook/internal/domain/ledger"
	"assetbook/internal/domain/periods"
)

func slAsset(cost string, rate string) *assets.FixedAsset {
	a := assets.NewFixedAsset(id.New(), id.New(), "FA-1", "Press")
	a.AcquisitionDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	a.OriginalCost = types.MustMoney(cost)
	a.Method = assets.StraightLine
	a.Rate = types.MustMoney(rate)
	return a
}

func fy(year int) *periods.AccountingPeriod {
	return periods.NewAccountingPeriod(id.New(), "FY",
		time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))
}

func carried(costBfwd, depBfwd string) *ledger.AssetPeriodBalance {
	b := &ledger.AssetPeriodBalance{
		CostBfwd:         types.MustMoney(costBfwd),
		DepreciationBfwd: types.MustMoney(depBfwd),
	}
	b.Recompute()
	return b
}

func TestComputeCharge_StraightLineFullYear(t *testing.T) {
	// 10000 at 20% straight line, owned all 365 days of 2026: 2000 even.
	asset := slAsset("10000", "20")
	charge, err := ComputeCharge(asset, fy(2026), carried("10000", "2000"))
	require.NoError(t, err)

	assert.True(t, charge.Amount.Equal(types.MustMoney("2000")),
		"charge = %s", charge.Amount)
	assert.Equal(t, 365, charge.OwnedDays)
	assert.True(t, charge.RateUsed.Equal(types.MustMoney("20")))
}

func TestComputeCharge_StraightLineLeapYear(t *testing.T) {
	// 2028 has 366 days; a full year of ownership still charges the whole
	// annual amount because owned days equals days in year.
	asset := slAsset("10000", "20")
	charge, err := ComputeCharge(asset, fy(2028), carried("10000", "2000"))
	require.NoError(t, err)

	assert.True(t, charge.Amount.Equal(types.MustMoney("2000")))
	assert.Equal(t, 366, charge.OwnedDays)
}

func TestComputeCharge_ProrationFromAcquisition(t *testing.T) {
	// Acquired 1 July 2026: owned 184 of 365 days.
	// 10000 x 20% x 184/365 = 1008.219... -> 1008.22
	asset := slAsset("10000", "20")
	asset.AcquisitionDate = time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

	balance := &ledger.AssetPeriodBalance{Additions: types.MustMoney("10000")}
	balance.Recompute()

	charge, err := ComputeCharge(asset, fy(2026), balance)
	require.NoError(t, err)

	assert.Equal(t, 184, charge.OwnedDays)
	assert.True(t, charge.Amount.Equal(types.MustMoney("1008.22")),
		"charge = %s", charge.Amount)
}

func TestComputeCharge_ProrationToDisposal(t *testing.T) {
	// Disposed 31 March 2026: owned 90 of 365 days.
	// 10000 x 20% x 90/365 = 493.1506... -> 493.15
	asset := slAsset("10000", "20")
	d := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
	asset.DisposalDate = &d

	charge, err := ComputeCharge(asset, fy(2026), carried("10000", "2000"))
	require.NoError(t, err)

	assert.Equal(t, 90, charge.OwnedDays)
	assert.True(t, charge.Amount.Equal(types.MustMoney("493.15")),
		"charge = %s", charge.Amount)
}

func TestComputeCharge_ReducingBalance(t *testing.T) {
	// 25% of the opening NBV of 6400: 1600.
	asset := slAsset("10000", "25")
	asset.Method = assets.ReducingBalance

	charge, err := ComputeCharge(asset, fy(2026), carried("10000", "3600"))
	require.NoError(t, err)

	assert.True(t, charge.Amount.Equal(types.MustMoney("1600")),
		"charge = %s", charge.Amount)
}

func TestComputeCharge_ReducingBalanceAcquisitionYear(t *testing.T) {
	// Nothing brought forward: the base falls back to this period's
	// additions, prorated from the acquisition date.
	asset := slAsset("10000", "25")
	asset.Method = assets.ReducingBalance
	asset.AcquisitionDate = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	balance := &ledger.AssetPeriodBalance{Additions: types.MustMoney("10000")}
	balance.Recompute()

	charge, err := ComputeCharge(asset, fy(2026), balance)
	require.NoError(t, err)
	assert.True(t, charge.Amount.Equal(types.MustMoney("2500")),
		"charge = %s", charge.Amount)
}

func TestComputeCharge_CappedAtResidualFloor(t *testing.T) {
	// NBV before charge is 1500 with a 1000 floor: only 500 may be taken
	// even though the formula says 2000.
	asset := slAsset("10000", "20")
	floor := types.MustMoney("1000")
	asset.DisposalValue = &floor

	charge, err := ComputeCharge(asset, fy(2026), carried("10000", "8500"))
	require.NoError(t, err)
	assert.True(t, charge.Amount.Equal(types.MustMoney("500")),
		"charge = %s", charge.Amount)
}

func TestComputeCharge_FullyWrittenDownChargesZero(t *testing.T) {
	asset := slAsset("10000", "20")
	charge, err := ComputeCharge(asset, fy(2026), carried("10000", "10000"))
	require.NoError(t, err)
	assert.True(t, charge.Amount.IsZero())
}

func TestComputeCharge_NotYetAcquiredChargesZero(t *testing.T) {
	asset := slAsset("10000", "20")
	asset.AcquisitionDate = time.Date(2027, time.June, 1, 0, 0, 0, 0, time.UTC)

	charge, err := ComputeCharge(asset, fy(2026), carried("0", "0"))
	require.NoError(t, err)
	assert.True(t, charge.Amount.IsZero())
	assert.Zero(t, charge.OwnedDays)
}

func TestComputeCharge_DisposedBeforePeriodChargesZero(t *testing.T) {
	asset := slAsset("10000", "20")
	d := time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC)
	asset.DisposalDate = &d

	charge, err := ComputeCharge(asset, fy(2026), carried("10000", "4000"))
	require.NoError(t, err)
	assert.True(t, charge.Amount.IsZero())
	assert.Zero(t, charge.OwnedDays)
}

func TestComputeCharge_ZeroRateChargesZero(t *testing.T) {
	asset := slAsset("10000", "0")
	charge, err := ComputeCharge(asset, fy(2026), carried("10000", "0"))
	require.NoError(t, err)
	assert.True(t, charge.Amount.IsZero())
}

func TestComputeCharge_InvalidMethodRejected(t *testing.T) {
	asset := slAsset("10000", "20")
	asset.Method = "sum_of_digits"

	_, err := ComputeCharge(asset, fy(2026), carried("10000", "0"))
	require.Error(t, err)
}

func TestDaysInYear(t *testing.T) {
	assert.Equal(t, 365, daysInYear(time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 366, daysInYear(time.Date(2028, time.June, 1, 0, 0, 0, 0, time.UTC)))
}
