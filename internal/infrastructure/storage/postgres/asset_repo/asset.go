// Package asset_repo provides the PostgreSQL implementation of the fixed
// asset repositories.
package asset_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/core/types"
	"assetbook/internal/domain/assets"
	"assetbook/internal/infrastructure/storage/postgres"
)

const assetsTable = "fixed_assets"

var assetColumns = []string{
	"id", "client_id", "category_id", "code", "name",
	"acquisition_date", "original_cost", "cost_adjustment",
	"depreciation_method", "depreciation_rate",
	"disposal_value", "disposal_date", "revalued",
	"version", "created_at", "updated_at",
}

// AssetRepo implements assets.Repository.
type AssetRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewAssetRepo creates a new asset repository.
func NewAssetRepo(txManager *postgres.TxManager) *AssetRepo {
	return &AssetRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an asset.
func (r *AssetRepo) Create(ctx context.Context, asset *assets.FixedAsset) error {
	q := r.builder.Insert(assetsTable).
		Columns(assetColumns...).
		Values(
			asset.ID, asset.ClientID, asset.CategoryID, asset.Code, asset.Name,
			asset.AcquisitionDate, asset.OriginalCost, asset.CostAdjustment,
			asset.Method, asset.Rate,
			asset.DisposalValue, asset.DisposalDate, asset.Revalued,
			asset.Version, asset.CreatedAt, asset.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("asset code already in use").
				WithDetail("code", asset.Code).
				WithCause(err)
		}
		return fmt.Errorf("insert asset: %w", err)
	}

	return nil
}

// GetByID retrieves an asset.
func (r *AssetRepo) GetByID(ctx context.Context, assetID id.ID) (*assets.FixedAsset, error) {
	return r.get(ctx, assetID, false)
}

// GetByIDForUpdate retrieves an asset with a row lock.
func (r *AssetRepo) GetByIDForUpdate(ctx context.Context, assetID id.ID) (*assets.FixedAsset, error) {
	return r.get(ctx, assetID, true)
}

func (r *AssetRepo) get(ctx context.Context, assetID id.ID, forUpdate bool) (*assets.FixedAsset, error) {
	q := r.builder.Select(assetColumns...).
		From(assetsTable).
		Where(squirrel.Eq{"id": assetID}).
		Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var asset assets.FixedAsset
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &asset, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("asset", assetID.String())
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}

	return &asset, nil
}

// Update writes back descriptive fields with optimistic locking.
func (r *AssetRepo) Update(ctx context.Context, asset *assets.FixedAsset) error {
	q := r.builder.Update(assetsTable).
		Set("category_id", asset.CategoryID).
		Set("name", asset.Name).
		Set("version", asset.Version+1).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{
			"id":      asset.ID,
			"version": asset.Version,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("asset", asset.ID.String())
	}
	asset.Version++

	return nil
}

// ListByClient returns all assets of a client ordered by code.
func (r *AssetRepo) ListByClient(ctx context.Context, clientID id.ID) ([]assets.FixedAsset, error) {
	return r.list(ctx, squirrel.Eq{"client_id": clientID})
}

// ListByCategory returns a client's assets in one category.
func (r *AssetRepo) ListByCategory(ctx context.Context, clientID, categoryID id.ID) ([]assets.FixedAsset, error) {
	return r.list(ctx, squirrel.Eq{"client_id": clientID, "category_id": categoryID})
}

func (r *AssetRepo) list(ctx context.Context, where squirrel.Eq) ([]assets.FixedAsset, error) {
	q := r.builder.Select(assetColumns...).
		From(assetsTable).
		Where(where).
		OrderBy("code")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []assets.FixedAsset
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("select assets: %w", err)
	}

	return list, nil
}

// ApplyCostAdjustment bumps the cumulative cost adjustment in place.
func (r *AssetRepo) ApplyCostAdjustment(ctx context.Context, assetID id.ID, delta types.Money, revalued bool) error {
	q := r.builder.Update(assetsTable).
		Set("cost_adjustment", squirrel.Expr("cost_adjustment + ?", delta)).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": assetID})
	if revalued {
		q = q.Set("revalued", true)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("apply cost adjustment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("asset", assetID.String())
	}

	return nil
}

// MarkDisposed stamps the disposal date on the asset.
func (r *AssetRepo) MarkDisposed(ctx context.Context, assetID id.ID, disposalDate time.Time) error {
	q := r.builder.Update(assetsTable).
		Set("disposal_date", disposalDate).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": assetID}).
		Where("disposal_date IS NULL")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark disposed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewAssetDisposed(assetID.String(), "")
	}

	return nil
}

// Ensure interface compliance.
var _ assets.Repository = (*AssetRepo)(nil)
