// Package schedule builds the fixed-asset schedule report: the classic
// cost / depreciation / NBV roll-forward grid, grouped by category, with
// profit or loss on disposals.
package schedule

import (
	"assetbook/internal/core/id"
	"assetbook/internal/core/types"
)

// Row is one asset's line on the schedule.
type Row struct {
	AssetID      id.ID  `db:"asset_id" json:"assetId"`
	AssetCode    string `db:"asset_code" json:"assetCode"`
	AssetName    string `db:"asset_name" json:"assetName"`
	CategoryID   id.ID  `db:"category_id" json:"categoryId"`
	CategoryCode string `db:"category_code" json:"categoryCode"`
	CategoryName string `db:"category_name" json:"categoryName"`

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

	// Derived in the service, not read from the database.
	NBVBfwd types.Money `db:"-" json:"nbvBfwd"`
	NBVCfwd types.Money `db:"-" json:"nbvCfwd"`
}

// Totals is the summed roll-forward grid, used both per category and for
// the whole schedule.
type Totals struct {
	CostBfwd       types.Money `json:"costBfwd"`
	Additions      types.Money `json:"additions"`
	DisposalsCost  types.Money `json:"disposalsCost"`
	CostAdjustment types.Money `json:"costAdjustment"`
	CostCfwd       types.Money `json:"costCfwd"`

	DepreciationBfwd        types.Money `json:"depreciationBfwd"`
	DepreciationCharge      types.Money `json:"depreciationCharge"`
	DepreciationOnDisposals types.Money `json:"depreciationOnDisposals"`
	DepreciationAdjustment  types.Money `json:"depreciationAdjustment"`
	DepreciationCfwd        types.Money `json:"depreciationCfwd"`

	NBVBfwd types.Money `json:"nbvBfwd"`
	NBVCfwd types.Money `json:"nbvCfwd"`
}

// CategoryTotal is the per-category subtotal block.
type CategoryTotal struct {
	CategoryID   id.ID  `json:"categoryId"`
	CategoryCode string `json:"categoryCode"`
	CategoryName string `json:"categoryName"`
	AssetCount   int    `json:"assetCount"`
	Totals       Totals `json:"totals"`
}

// DisposalPL is the profit or loss on the period's disposals.
//
//	NBV disposed   = disposals cost - depreciation on disposals
//	profit or loss = proceeds - NBV disposed
type DisposalPL struct {
	Proceeds     types.Money `json:"proceeds"`
	NBVDisposed  types.Money `json:"nbvDisposed"`
	ProfitOrLoss types.Money `json:"profitOrLoss"`
}

// PeriodSchedule is the full report for one period.
type PeriodSchedule struct {
	PeriodID   id.ID           `json:"periodId"`
	Rows       []Row           `json:"rows"`
	Categories []CategoryTotal `json:"categories"`
	Totals     Totals          `json:"totals"`
	Disposals  DisposalPL      `json:"disposals"`
}
