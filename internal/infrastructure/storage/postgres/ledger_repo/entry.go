package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"assetbook/internal/core/id"
	"assetbook/internal/domain/depreciation"
	"assetbook/internal/infrastructure/storage/postgres"
)

const entriesTable = "depreciation_entries"

var entryColumns = []string{
	"asset_id", "period_id", "depreciation_amount",
	"days_in_period", "rate_used", "calculated_at",
}

// EntryRepo implements depreciation.Repository.
type EntryRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewEntryRepo creates a new depreciation entry repository.
func NewEntryRepo(txManager *postgres.TxManager) *EntryRepo {
	return &EntryRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert writes the (asset, period) entry, replacing a previous
// calculation. Recalculation is idempotent because of this.
func (r *EntryRepo) Upsert(ctx context.Context, e *depreciation.Entry) error {
	q := r.builder.Insert(entriesTable).
		Columns(entryColumns...).
		Values(e.AssetID, e.PeriodID, e.Amount, e.DaysInPeriod, e.RateUsed, e.CalculatedAt).
		Suffix(`
			ON CONFLICT (asset_id, period_id) DO UPDATE SET
				depreciation_amount = EXCLUDED.depreciation_amount,
				days_in_period = EXCLUDED.days_in_period,
				rate_used = EXCLUDED.rate_used,
				calculated_at = EXCLUDED.calculated_at
		`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}

	return nil
}

// ListByPeriod returns all entries of a period.
func (r *EntryRepo) ListByPeriod(ctx context.Context, periodID id.ID) ([]depreciation.Entry, error) {
	return r.list(ctx, squirrel.Eq{"period_id": periodID})
}

// ListByAsset returns an asset's entries across periods.
func (r *EntryRepo) ListByAsset(ctx context.Context, assetID id.ID) ([]depreciation.Entry, error) {
	return r.list(ctx, squirrel.Eq{"asset_id": assetID})
}

func (r *EntryRepo) list(ctx context.Context, where squirrel.Eq) ([]depreciation.Entry, error) {
	q := r.builder.Select(entryColumns...).
		From(entriesTable).
		Where(where).
		OrderBy("asset_id", "period_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []depreciation.Entry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}

	return entries, nil
}

// Ensure interface compliance.
var _ depreciation.Repository = (*EntryRepo)(nil)
