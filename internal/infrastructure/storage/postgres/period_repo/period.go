// Package period_repo provides the PostgreSQL implementation of the
// accounting period repositories.
package period_repo

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
	"assetbook/internal/domain/periods"
	"assetbook/internal/infrastructure/storage/postgres"
)

const periodsTable = "accounting_periods"

var periodColumns = []string{
	"id", "client_id", "name", "start_date", "end_date",
	"status", "version", "created_at", "updated_at",
}

// PeriodRepo implements periods.Repository.
type PeriodRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewPeriodRepo creates a new period repository.
func NewPeriodRepo(txManager *postgres.TxManager) *PeriodRepo {
	return &PeriodRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a period. The partial unique index on (client_id) WHERE
// status = 'OPEN' turns a second open period into a conflict here.
func (r *PeriodRepo) Create(ctx context.Context, period *periods.AccountingPeriod) error {
	q := r.builder.Insert(periodsTable).
		Columns(periodColumns...).
		Values(
			period.ID, period.ClientID, period.Name,
			period.StartDate, period.EndDate,
			period.Status, period.Version,
			period.CreatedAt, period.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("client already has an open period").
				WithCause(err)
		}
		return fmt.Errorf("insert period: %w", err)
	}

	return nil
}

// GetByID retrieves a period.
func (r *PeriodRepo) GetByID(ctx context.Context, periodID id.ID) (*periods.AccountingPeriod, error) {
	q := r.builder.Select(periodColumns...).
		From(periodsTable).
		Where(squirrel.Eq{"id": periodID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var period periods.AccountingPeriod
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &period, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("period", periodID.String())
		}
		return nil, fmt.Errorf("get period: %w", err)
	}

	return &period, nil
}

// GetOpenByClient returns the client's unique OPEN period.
func (r *PeriodRepo) GetOpenByClient(ctx context.Context, clientID id.ID) (*periods.AccountingPeriod, error) {
	q := r.builder.Select(periodColumns...).
		From(periodsTable).
		Where(squirrel.Eq{
			"client_id": clientID,
			"status":    periods.StatusOpen,
		}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var period periods.AccountingPeriod
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &period, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("open period", clientID.String())
		}
		return nil, fmt.Errorf("get open period: %w", err)
	}

	return &period, nil
}

// GetPreceding returns the latest period ending before the given date.
func (r *PeriodRepo) GetPreceding(ctx context.Context, clientID id.ID, before time.Time) (*periods.AccountingPeriod, error) {
	q := r.builder.Select(periodColumns...).
		From(periodsTable).
		Where(squirrel.Eq{"client_id": clientID}).
		Where(squirrel.Lt{"end_date": before}).
		OrderBy("end_date DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var period periods.AccountingPeriod
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &period, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("preceding period", clientID.String())
		}
		return nil, fmt.Errorf("get preceding period: %w", err)
	}

	return &period, nil
}

// ListByClient returns all periods for a client, oldest first.
func (r *PeriodRepo) ListByClient(ctx context.Context, clientID id.ID) ([]periods.AccountingPeriod, error) {
	q := r.builder.Select(periodColumns...).
		From(periodsTable).
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("start_date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []periods.AccountingPeriod
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("select periods: %w", err)
	}

	return list, nil
}

// UpdateStatus transitions a period with the from-status in the WHERE
// clause. Zero rows affected means someone else moved it first.
func (r *PeriodRepo) UpdateStatus(ctx context.Context, periodID id.ID, from, to periods.Status) error {
	q := r.builder.Update(periodsTable).
		Set("status", to).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{
			"id":     periodID,
			"status": from,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update period status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("period", periodID.String()).
			WithDetail("expectedStatus", string(from))
	}

	return nil
}

// isUniqueViolation reports a PostgreSQL unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Ensure interface compliance.
var _ periods.Repository = (*PeriodRepo)(nil)
