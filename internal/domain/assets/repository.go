package assets

import (
	"context"
	"time"

	"assetbook/internal/core/id"
	"assetbook/internal/core/types"
)

// Repository is the persistence contract for fixed assets.
type Repository interface {
	Create(ctx context.Context, asset *FixedAsset) error
	GetByID(ctx context.Context, assetID id.ID) (*FixedAsset, error)

	// GetByIDForUpdate locks the asset row for the duration of the
	// ambient transaction. Movement posting uses this before touching
	// the asset's cumulative fields.
	GetByIDForUpdate(ctx context.Context, assetID id.ID) (*FixedAsset, error)

	Update(ctx context.Context, asset *FixedAsset) error
	ListByClient(ctx context.Context, clientID id.ID) ([]FixedAsset, error)
	ListByCategory(ctx context.Context, clientID, categoryID id.ID) ([]FixedAsset, error)

	// ApplyCostAdjustment bumps the asset's cumulative cost adjustment.
	// Revaluation movements also set the revalued flag.
	ApplyCostAdjustment(ctx context.Context, assetID id.ID, delta types.Money, revalued bool) error

	// MarkDisposed records the full-disposal date on the asset.
	MarkDisposed(ctx context.Context, assetID id.ID, disposalDate time.Time) error
}

// CategoryRepository is the persistence contract for asset categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, categoryID id.ID) (*Category, error)
	ListByClient(ctx context.Context, clientID id.ID) ([]Category, error)
}

// BalanceSeeder opens the acquisition-period balance row for a new asset.
// Implemented by the ledger; declared here so asset creation does not
// depend on the ledger package.
type BalanceSeeder interface {
	SeedAcquisition(ctx context.Context, asset *FixedAsset, periodID id.ID) error
}
