package depreciation

import (
	"context"
	"time"

	"assetbook/internal/core/id"
	"assetbook/internal/core/types"
)

// Entry is the persisted audit record of one computed charge. One row per
// asset per period; recalculation overwrites it.
type Entry struct {
	AssetID      id.ID       `db:"asset_id" json:"assetId"`
	PeriodID     id.ID       `db:"period_id" json:"periodId"`
	Amount       types.Money `db:"depreciation_amount" json:"depreciationAmount"`
	DaysInPeriod int         `db:"days_in_period" json:"daysInPeriod"`
	RateUsed     types.Money `db:"rate_used" json:"rateUsed"`
	CalculatedAt time.Time   `db:"calculated_at" json:"calculatedAt"`
}

// Repository is the persistence contract for depreciation entries.
type Repository interface {
	// Upsert writes the entry for (asset, period), replacing any prior one.
	Upsert(ctx context.Context, entry *Entry) error

	ListByPeriod(ctx context.Context, periodID id.ID) ([]Entry, error)
	ListByAsset(ctx context.Context, assetID id.ID) ([]Entry, error)
}
