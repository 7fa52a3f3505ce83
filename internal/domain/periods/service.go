package periods

import (
	"context"
	"fmt"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/core/tx"
	"assetbook/pkg/logger"
)

// DefaultPlanningSections seeds the checklist for a freshly created period.
var DefaultPlanningSections = []string{
	"Understanding the entity",
	"Materiality",
	"Risk assessment",
	"Depreciation policy review",
	"Physical verification",
}

// Service provides business operations for accounting periods.
type Service struct {
	repo      Repository
	planning  PlanningRepository
	txManager tx.Manager
}

// NewService creates a new period service.
func NewService(repo Repository, planning PlanningRepository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		planning:  planning,
		txManager: txManager,
	}
}

// Open creates the first period for a client and opens it.
// Fails with a conflict if the client already has an open period
// (the partial unique index backs this up at the database level).
func (s *Service) Open(ctx context.Context, period *AccountingPeriod) error {
	if err := period.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if existing, err := s.repo.GetOpenByClient(ctx, period.ClientID); err == nil {
			return apperror.NewConflict("client already has an open period").
				WithDetail("openPeriodId", existing.ID.String())
		} else if !apperror.IsNotFound(err) {
			return err
		}

		period.Status = StatusOpen
		if err := s.repo.Create(ctx, period); err != nil {
			return fmt.Errorf("create period: %w", err)
		}

		return s.SeedPlanning(ctx, period)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "period opened",
		"period_id", period.ID,
		"client_id", period.ClientID,
		"name", period.Name,
	)
	return nil
}

// SeedPlanning creates the default planning checklist for a period.
func (s *Service) SeedPlanning(ctx context.Context, period *AccountingPeriod) error {
	sections := make([]PlanningSection, 0, len(DefaultPlanningSections))
	for _, name := range DefaultPlanningSections {
		sections = append(sections, PlanningSection{
			ID:       id.New(),
			ClientID: period.ClientID,
			PeriodID: period.ID,
			Name:     name,
		})
	}
	if err := s.planning.Seed(ctx, sections); err != nil {
		return fmt.Errorf("seed planning sections: %w", err)
	}
	return nil
}

// GetByID retrieves a period.
func (s *Service) GetByID(ctx context.Context, periodID id.ID) (*AccountingPeriod, error) {
	return s.repo.GetByID(ctx, periodID)
}

// Current returns the client's unique OPEN period.
func (s *Service) Current(ctx context.Context, clientID id.ID) (*AccountingPeriod, error) {
	return s.repo.GetOpenByClient(ctx, clientID)
}

// List returns all periods for a client, oldest first.
func (s *Service) List(ctx context.Context, clientID id.ID) ([]AccountingPeriod, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// PlanningSections returns the checklist for a period.
func (s *Service) PlanningSections(ctx context.Context, periodID id.ID) ([]PlanningSection, error) {
	return s.planning.List(ctx, periodID)
}

// SetSectionCompleted toggles a planning section. Only allowed while the
// period is still open.
func (s *Service) SetSectionCompleted(ctx context.Context, periodID, sectionID id.ID, completed bool) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		period, err := s.repo.GetByID(ctx, periodID)
		if err != nil {
			return err
		}
		if !period.IsOpen() {
			return apperror.NewPeriodNotOpen(period.ID.String(), string(period.Status))
		}
		return s.planning.SetCompleted(ctx, sectionID, completed)
	})
}
