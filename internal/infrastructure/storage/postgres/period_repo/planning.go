package period_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/domain/periods"
	"assetbook/internal/infrastructure/storage/postgres"
)

const planningTable = "planning_sections"

// PlanningRepo implements periods.PlanningRepository.
type PlanningRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewPlanningRepo creates a new planning checklist repository.
func NewPlanningRepo(txManager *postgres.TxManager) *PlanningRepo {
	return &PlanningRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Seed inserts the checklist rows for a period.
func (r *PlanningRepo) Seed(ctx context.Context, sections []periods.PlanningSection) error {
	if len(sections) == 0 {
		return nil
	}

	q := r.builder.Insert(planningTable).
		Columns("id", "client_id", "period_id", "name", "completed", "updated_at")
	now := time.Now().UTC()
	for _, s := range sections {
		q = q.Values(s.ID, s.ClientID, s.PeriodID, s.Name, s.Completed, now)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert planning sections: %w", err)
	}

	return nil
}

// List returns the checklist for a period in a stable order.
func (r *PlanningRepo) List(ctx context.Context, periodID id.ID) ([]periods.PlanningSection, error) {
	q := r.builder.Select("id", "client_id", "period_id", "name", "completed", "updated_at").
		From(planningTable).
		Where(squirrel.Eq{"period_id": periodID}).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sections []periods.PlanningSection
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &sections, sql, args...); err != nil {
		return nil, fmt.Errorf("select planning sections: %w", err)
	}

	return sections, nil
}

// SetCompleted toggles one section.
func (r *PlanningRepo) SetCompleted(ctx context.Context, sectionID id.ID, completed bool) error {
	q := r.builder.Update(planningTable).
		Set("completed", completed).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": sectionID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update planning section: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("planning section", sectionID.String())
	}

	return nil
}

// Completion returns the completed/total tally for a period.
func (r *PlanningRepo) Completion(ctx context.Context, periodID id.ID) (periods.Completion, error) {
	sql := `
		SELECT
			COUNT(*) FILTER (WHERE completed) AS completed,
			COUNT(*) AS total
		FROM planning_sections
		WHERE period_id = $1
	`

	var completion periods.Completion
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, periodID).Scan(&completion.Completed, &completion.Total); err != nil {
		return completion, fmt.Errorf("count planning sections: %w", err)
	}

	return completion, nil
}

// Ensure interface compliance.
var _ periods.PlanningRepository = (*PlanningRepo)(nil)
