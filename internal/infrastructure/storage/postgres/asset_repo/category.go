package asset_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/domain/assets"
	"assetbook/internal/infrastructure/storage/postgres"
)

const categoriesTable = "asset_categories"

var categoryColumns = []string{
	"id", "client_id", "code", "name", "version", "created_at", "updated_at",
}

// CategoryRepo implements assets.CategoryRepository.
type CategoryRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a category.
func (r *CategoryRepo) Create(ctx context.Context, category *assets.Category) error {
	q := r.builder.Insert(categoriesTable).
		Columns(categoryColumns...).
		Values(
			category.ID, category.ClientID, category.Code, category.Name,
			category.Version, category.CreatedAt, category.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("category code already in use").
				WithDetail("code", category.Code).
				WithCause(err)
		}
		return fmt.Errorf("insert category: %w", err)
	}

	return nil
}

// GetByID retrieves a category.
func (r *CategoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*assets.Category, error) {
	q := r.builder.Select(categoryColumns...).
		From(categoriesTable).
		Where(squirrel.Eq{"id": categoryID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var category assets.Category
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &category, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("category", categoryID.String())
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &category, nil
}

// ListByClient returns all categories of a client ordered by code.
func (r *CategoryRepo) ListByClient(ctx context.Context, clientID id.ID) ([]assets.Category, error) {
	q := r.builder.Select(categoryColumns...).
		From(categoriesTable).
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("code")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var list []assets.Category
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}

	return list, nil
}

// Ensure interface compliance.
var _ assets.CategoryRepository = (*CategoryRepo)(nil)
