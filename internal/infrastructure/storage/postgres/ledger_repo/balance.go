package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/domain/ledger"
	"assetbook/internal/infrastructure/storage/postgres"
)

const balancesTable = "asset_period_balances"

var balanceColumns = []string{
	"asset_id", "period_id", "client_id",
	"cost_bfwd", "additions", "disposals_cost", "cost_adjustment", "cost_cfwd",
	"depreciation_bfwd", "depreciation_charge", "depreciation_on_disposals",
	"depreciation_adjustment", "depreciation_cfwd",
	"disposal_proceeds", "frozen", "updated_at",
}

// BalanceRepo implements ledger.BalanceRepository.
type BalanceRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewBalanceRepo creates a new balance repository.
func NewBalanceRepo(txManager *postgres.TxManager) *BalanceRepo {
	return &BalanceRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get reads one balance row.
func (r *BalanceRepo) Get(ctx context.Context, assetID, periodID id.ID) (*ledger.AssetPeriodBalance, error) {
	return r.get(ctx, assetID, periodID, false)
}

// GetForUpdate reads one balance row with a FOR UPDATE lock. The lock is
// what serializes concurrent movements against the same asset.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, assetID, periodID id.ID) (*ledger.AssetPeriodBalance, error) {
	return r.get(ctx, assetID, periodID, true)
}

func (r *BalanceRepo) get(ctx context.Context, assetID, periodID id.ID, forUpdate bool) (*ledger.AssetPeriodBalance, error) {
	q := r.builder.Select(balanceColumns...).
		From(balancesTable).
		Where(squirrel.Eq{
			"asset_id":  assetID,
			"period_id": periodID,
		}).
		Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balance ledger.AssetPeriodBalance
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("balance", assetID.String()).
				WithDetail("periodId", periodID.String())
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}

	return &balance, nil
}

// Insert creates one balance row.
func (r *BalanceRepo) Insert(ctx context.Context, b *ledger.AssetPeriodBalance) error {
	q := r.builder.Insert(balancesTable).
		Columns(balanceColumns...).
		Values(balanceValues(b)...)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert balance: %w", err)
	}

	return nil
}

// Update writes back a mutated balance row. Frozen rows are immutable:
// the WHERE clause skips them and the caller gets a conflict.
func (r *BalanceRepo) Update(ctx context.Context, b *ledger.AssetPeriodBalance) error {
	q := r.builder.Update(balancesTable).
		Set("additions", b.Additions).
		Set("disposals_cost", b.DisposalsCost).
		Set("cost_adjustment", b.CostAdjustment).
		Set("cost_cfwd", b.CostCfwd).
		Set("depreciation_charge", b.DepreciationCharge).
		Set("depreciation_on_disposals", b.DepreciationOnDisposals).
		Set("depreciation_adjustment", b.DepreciationAdjustment).
		Set("depreciation_cfwd", b.DepreciationCfwd).
		Set("disposal_proceeds", b.DisposalProceeds).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{
			"asset_id":  b.AssetID,
			"period_id": b.PeriodID,
			"frozen":    false,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("balance", b.AssetID.String()).
			WithDetail("periodId", b.PeriodID.String())
	}

	return nil
}

// InsertBatch bulk-creates balance rows over the COPY protocol. Used by
// the close to seed the next period in one round-trip.
func (r *BalanceRepo) InsertBatch(ctx context.Context, balances []ledger.AssetPeriodBalance) error {
	if len(balances) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(balances))
	for i := range balances {
		rows = append(rows, balanceValues(&balances[i]))
	}

	inserter := postgres.NewBatchInserter(r.txManager)
	if _, err := inserter.CopyFromSlice(ctx, balancesTable, balanceColumns, rows); err != nil {
		return fmt.Errorf("copy balances: %w", err)
	}

	return nil
}

// ListByPeriod returns a period's balance rows in stable asset order.
func (r *BalanceRepo) ListByPeriod(ctx context.Context, clientID, periodID id.ID) ([]ledger.AssetPeriodBalance, error) {
	return r.listByPeriod(ctx, clientID, periodID, false)
}

// ListByPeriodForUpdate locks and returns a period's balance rows. The
// stable ordering keeps concurrent whole-period operations from
// deadlocking against each other.
func (r *BalanceRepo) ListByPeriodForUpdate(ctx context.Context, clientID, periodID id.ID) ([]ledger.AssetPeriodBalance, error) {
	return r.listByPeriod(ctx, clientID, periodID, true)
}

func (r *BalanceRepo) listByPeriod(ctx context.Context, clientID, periodID id.ID, forUpdate bool) ([]ledger.AssetPeriodBalance, error) {
	q := r.builder.Select(balanceColumns...).
		From(balancesTable).
		Where(squirrel.Eq{
			"client_id": clientID,
			"period_id": periodID,
		}).
		OrderBy("asset_id")
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []ledger.AssetPeriodBalance
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// Freeze marks every balance row of a period immutable.
func (r *BalanceRepo) Freeze(ctx context.Context, clientID, periodID id.ID) error {
	q := r.builder.Update(balancesTable).
		Set("frozen", true).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{
			"client_id": clientID,
			"period_id": periodID,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("freeze balances: %w", err)
	}

	return nil
}

func balanceValues(b *ledger.AssetPeriodBalance) []any {
	return []any{
		b.AssetID, b.PeriodID, b.ClientID,
		b.CostBfwd, b.Additions, b.DisposalsCost, b.CostAdjustment, b.CostCfwd,
		b.DepreciationBfwd, b.DepreciationCharge, b.DepreciationOnDisposals,
		b.DepreciationAdjustment, b.DepreciationCfwd,
		b.DisposalProceeds, b.Frozen, b.UpdatedAt,
	}
}

// Ensure interface compliance.
var _ ledger.BalanceRepository = (*BalanceRepo)(nil)
