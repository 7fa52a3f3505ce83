// Package ledger_repo provides the PostgreSQL implementation of the
// movement journal and period balance repositories.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"assetbook/internal/core/id"
	"assetbook/internal/domain/ledger"
	"assetbook/internal/infrastructure/storage/postgres"
)

const movementsTable = "asset_movements"

var movementColumns = []string{
	"id", "number", "asset_id", "period_id", "movement_type",
	"posting_date", "amount_cost", "amount_depreciation", "amount_proceeds",
	"disposal_percentage", "created_at",
}

// MovementRepo implements ledger.MovementRepository. Insert-only by
// design: the journal carries no update or delete statements at all.
type MovementRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txManager *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert appends one movement to the journal.
func (r *MovementRepo) Insert(ctx context.Context, m *ledger.AssetMovement) error {
	q := r.builder.Insert(movementsTable).
		Columns(movementColumns...).
		Values(
			m.ID, m.Number, m.AssetID, m.PeriodID, m.Type,
			m.PostingDate, m.AmountCost, m.AmountDepreciation, m.AmountProceeds,
			m.DisposalPercentage, m.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}

	return nil
}

// ListByAsset returns an asset's journal, oldest first.
func (r *MovementRepo) ListByAsset(ctx context.Context, assetID id.ID) ([]ledger.AssetMovement, error) {
	q := r.builder.Select(movementColumns...).
		From(movementsTable).
		Where(squirrel.Eq{"asset_id": assetID}).
		OrderBy("posting_date", "created_at")

	return r.selectMovements(ctx, q)
}

// ListByPeriod returns all movements posted into a period.
func (r *MovementRepo) ListByPeriod(ctx context.Context, clientID, periodID id.ID) ([]ledger.AssetMovement, error) {
	q := r.builder.Select(qualify(movementColumns, "m")...).
		From(movementsTable + " m").
		Join("fixed_assets a ON a.id = m.asset_id").
		Where(squirrel.Eq{
			"m.period_id": periodID,
			"a.client_id": clientID,
		}).
		OrderBy("m.posting_date", "m.created_at")

	return r.selectMovements(ctx, q)
}

func (r *MovementRepo) selectMovements(ctx context.Context, q squirrel.SelectBuilder) ([]ledger.AssetMovement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []ledger.AssetMovement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

// qualify prefixes every column with a table alias.
func qualify(columns []string, alias string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

// Ensure interface compliance.
var _ ledger.MovementRepository = (*MovementRepo)(nil)
