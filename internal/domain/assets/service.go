package assets

import (
	"context"
	"fmt"
	"time"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/core/tx"
	"assetbook/internal/domain/periods"
	"assetbook/pkg/logger"
	"assetbook/pkg/numerator"
)

// NumberSource hands out sequential asset codes.
type NumberSource interface {
	GetNextNumber(ctx context.Context, cfg numerator.Config, period time.Time) (string, error)
}

// Service provides business operations for fixed assets and categories.
type Service struct {
	repo       Repository
	categories CategoryRepository
	periodRepo periods.Repository
	seeder     BalanceSeeder
	numbers    NumberSource
	txManager  tx.Manager
}

// NewService creates a new asset service.
func NewService(
	repo Repository,
	categories CategoryRepository,
	periodRepo periods.Repository,
	seeder BalanceSeeder,
	numbers NumberSource,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		periodRepo: periodRepo,
		seeder:     seeder,
		numbers:    numbers,
		txManager:  txManager,
	}
}

// Create registers a new asset and opens its balance row in the client's
// current period, with the full original cost shown as an addition.
func (s *Service) Create(ctx context.Context, asset *FixedAsset) error {
	if err := asset.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.categories.GetByID(ctx, asset.CategoryID); err != nil {
			return err
		}

		period, err := s.periodRepo.GetOpenByClient(ctx, asset.ClientID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewConflict("client has no open period to receive the asset")
			}
			return err
		}
		if asset.AcquisitionDate.After(period.EndDate) {
			return apperror.NewPostingDateOutOfRange(
				asset.AcquisitionDate.Format(periods.DateLayout),
				period.StartDate.Format(periods.DateLayout),
				period.EndDate.Format(periods.DateLayout),
			)
		}

		if asset.Code == "" {
			code, err := s.numbers.GetNextNumber(ctx, numerator.DefaultConfig("FA"), asset.AcquisitionDate)
			if err != nil {
				return fmt.Errorf("assign asset code: %w", err)
			}
			asset.Code = code
		}

		if err := s.repo.Create(ctx, asset); err != nil {
			return fmt.Errorf("create asset: %w", err)
		}

		return s.seeder.SeedAcquisition(ctx, asset, period.ID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "asset created",
		"asset_id", asset.ID,
		"client_id", asset.ClientID,
		"code", asset.Code,
		"original_cost", asset.OriginalCost,
	)
	return nil
}

// GetByID retrieves an asset.
func (s *Service) GetByID(ctx context.Context, assetID id.ID) (*FixedAsset, error) {
	return s.repo.GetByID(ctx, assetID)
}

// List returns all assets for a client.
func (s *Service) List(ctx context.Context, clientID id.ID) ([]FixedAsset, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// Update changes the descriptive fields of an asset. Monetary history is
// immutable; cost changes go through movements, never through here.
func (s *Service) Update(ctx context.Context, assetID id.ID, name string, categoryID id.ID) (*FixedAsset, error) {
	var updated *FixedAsset
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		asset, err := s.repo.GetByIDForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if !id.IsNil(categoryID) && categoryID != asset.CategoryID {
			if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
				return err
			}
			asset.CategoryID = categoryID
		}
		if name != "" {
			asset.Name = name
		}
		asset.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, asset); err != nil {
			return err
		}
		updated = asset
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CreateCategory registers an asset category.
func (s *Service) CreateCategory(ctx context.Context, category *Category) error {
	if err := category.Validate(ctx); err != nil {
		return err
	}
	if category.Code == "" {
		code, err := s.numbers.GetNextNumber(ctx, numerator.Config{Prefix: "CAT", PadWidth: 3, ResetPeriod: "never"}, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("assign category code: %w", err)
		}
		category.Code = code
	}
	return s.categories.Create(ctx, category)
}

// GetCategory retrieves a category.
func (s *Service) GetCategory(ctx context.Context, categoryID id.ID) (*Category, error) {
	return s.categories.GetByID(ctx, categoryID)
}

// ListCategories returns all categories for a client.
func (s *Service) ListCategories(ctx context.Context, clientID id.ID) ([]Category, error) {
	return s.categories.ListByClient(ctx, clientID)
}
