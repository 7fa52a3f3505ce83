package ledger

import (
	"context"

	"assetbook/internal/core/id"
)

// MovementRepository is the persistence contract for the movement journal.
// Insert-only: there is no update or delete.
type MovementRepository interface {
	Insert(ctx context.Context, movement *AssetMovement) error
	ListByAsset(ctx context.Context, assetID id.ID) ([]AssetMovement, error)
	ListByPeriod(ctx context.Context, clientID, periodID id.ID) ([]AssetMovement, error)
}

// BalanceRepository is the persistence contract for per-period balances.
type BalanceRepository interface {
	// Get reads a balance row without locking.
	Get(ctx context.Context, assetID, periodID id.ID) (*AssetPeriodBalance, error)

	// GetForUpdate locks the row for the ambient transaction. Every
	// balance mutation goes through this.
	GetForUpdate(ctx context.Context, assetID, periodID id.ID) (*AssetPeriodBalance, error)

	Insert(ctx context.Context, balance *AssetPeriodBalance) error
	Update(ctx context.Context, balance *AssetPeriodBalance) error

	// InsertBatch bulk-creates balance rows. Used when a close seeds the
	// next period's roll-forward.
	InsertBatch(ctx context.Context, balances []AssetPeriodBalance) error

	ListByPeriod(ctx context.Context, clientID, periodID id.ID) ([]AssetPeriodBalance, error)

	// ListByPeriodForUpdate locks all of a period's rows, in stable
	// asset order, for recalculation and close.
	ListByPeriodForUpdate(ctx context.Context, clientID, periodID id.ID) ([]AssetPeriodBalance, error)

	// Freeze marks every balance row of the period immutable.
	Freeze(ctx context.Context, clientID, periodID id.ID) error
}
