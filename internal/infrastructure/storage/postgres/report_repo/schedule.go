// Package report_repo provides the PostgreSQL read model for schedule
// reporting.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"assetbook/internal/core/id"
	"assetbook/internal/domain/schedule"
	"assetbook/internal/infrastructure/storage/postgres"
)

// ScheduleRepo implements schedule.Repository.
type ScheduleRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewScheduleRepo creates a new schedule repository.
func NewScheduleRepo(txManager *postgres.TxManager) *ScheduleRepo {
	return &ScheduleRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListRows joins balances with asset and category masters, ordered by
// category then asset code so the service can subtotal in one pass.
func (r *ScheduleRepo) ListRows(ctx context.Context, clientID, periodID id.ID) ([]schedule.Row, error) {
	q := r.builder.Select(
		"b.asset_id",
		"a.code AS asset_code",
		"a.name AS asset_name",
		"a.category_id",
		"c.code AS category_code",
		"c.name AS category_name",
		"b.cost_bfwd", "b.additions", "b.disposals_cost", "b.cost_adjustment", "b.cost_cfwd",
		"b.depreciation_bfwd", "b.depreciation_charge", "b.depreciation_on_disposals",
		"b.depreciation_adjustment", "b.depreciation_cfwd",
		"b.disposal_proceeds",
	).
		From("asset_period_balances b").
		Join("fixed_assets a ON a.id = b.asset_id").
		Join("asset_categories c ON c.id = a.category_id").
		Where(squirrel.Eq{
			"b.client_id": clientID,
			"b.period_id": periodID,
		}).
		OrderBy("c.code", "a.code")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []schedule.Row
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select schedule rows: %w", err)
	}

	return rows, nil
}

// Ensure interface compliance.
var _ schedule.Repository = (*ScheduleRepo)(nil)
