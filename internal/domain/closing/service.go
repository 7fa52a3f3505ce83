package closing

import (
	"context"
	"fmt"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/core/tx"
	"assetbook/internal/domain/depreciation"
	"assetbook/internal/domain/ledger"
	"assetbook/internal/domain/periods"
	"assetbook/pkg/logger"
)

// Recalculator runs the final depreciation pass during a close, and the
// write-free estimate the preview shows.
type Recalculator interface {
	RecalculateForClose(ctx context.Context, clientID id.ID, period *periods.AccountingPeriod) (*depreciation.Result, error)
	Estimate(ctx context.Context, clientID id.ID, period *periods.AccountingPeriod) (*depreciation.Result, error)
}

// RollForwarder seeds the next period's opening balances.
type RollForwarder interface {
	SeedRollForward(ctx context.Context, clientID, fromPeriodID, toPeriodID id.ID) (int, error)
}

// Service closes periods. The close runs as one transaction:
//
//	OPEN -> CLOSING, final recalculation, freeze balances,
//	CLOSING -> CLOSED, open next period, seed roll-forward.
//
// Any failure along the way rolls everything back and the period stays
// OPEN as if nothing happened.
type Service struct {
	periodRepo    periods.Repository
	planning      periods.PlanningRepository
	balances      ledger.BalanceRepository
	recalculator  Recalculator
	rollForwarder RollForwarder
	txManager     tx.Manager
}

// NewService creates a new close service.
func NewService(
	periodRepo periods.Repository,
	planning periods.PlanningRepository,
	balances ledger.BalanceRepository,
	recalculator Recalculator,
	rollForwarder RollForwarder,
	txManager tx.Manager,
) *Service {
	return &Service{
		periodRepo:    periodRepo,
		planning:      planning,
		balances:      balances,
		recalculator:  recalculator,
		rollForwarder: rollForwarder,
		txManager:     txManager,
	}
}

// Preview dry-runs the close checks without writing anything. The same
// validations guard the commit, so a clean preview normally means the
// close will go through.
func (s *Service) Preview(ctx context.Context, req CloseRequest) (*ClosePreview, error) {
	period, err := s.periodRepo.GetByID(ctx, req.PeriodID)
	if err != nil {
		return nil, err
	}

	completion, warnings, err := s.validate(ctx, req, period)
	if err != nil {
		return nil, err
	}

	// Run the engine without persisting to show what the final
	// recalculation would post.
	estimate, err := s.recalculator.Estimate(ctx, req.ClientID, period)
	if err != nil {
		return nil, err
	}

	return &ClosePreview{
		Period:          period,
		Completion:      completion,
		AssetsInScope:   estimate.AssetsProcessed,
		EstimatedCharge: estimate.TotalCharge,
		Warnings:        warnings,
	}, nil
}

// Close commits the close saga in one transaction.
func (s *Service) Close(ctx context.Context, req CloseRequest) (*CloseResult, error) {
	var result *CloseResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		period, err := s.periodRepo.GetByID(ctx, req.PeriodID)
		if err != nil {
			return err
		}

		_, warnings, err := s.validate(ctx, req, period)
		if err != nil {
			return err
		}

		// Claim the close. A concurrent closer loses this status-guarded
		// update and backs off.
		if err := s.periodRepo.UpdateStatus(ctx, period.ID, periods.StatusOpen, periods.StatusClosing); err != nil {
			return err
		}
		period.Status = periods.StatusClosing

		recalc, err := s.recalculator.RecalculateForClose(ctx, req.ClientID, period)
		if err != nil {
			return fmt.Errorf("final recalculation: %w", err)
		}

		if err := s.balances.Freeze(ctx, req.ClientID, period.ID); err != nil {
			return fmt.Errorf("freeze balances: %w", err)
		}

		if err := s.periodRepo.UpdateStatus(ctx, period.ID, periods.StatusClosing, periods.StatusClosed); err != nil {
			return err
		}

		next := periods.NewAccountingPeriod(req.ClientID, req.Next.Name, req.Next.StartDate, req.Next.EndDate)
		next.Status = periods.StatusOpen
		if err := s.periodRepo.Create(ctx, next); err != nil {
			return fmt.Errorf("open next period: %w", err)
		}
		if err := s.seedPlanning(ctx, next); err != nil {
			return err
		}

		rolled, err := s.rollForwarder.SeedRollForward(ctx, req.ClientID, period.ID, next.ID)
		if err != nil {
			return err
		}

		result = &CloseResult{
			PeriodID:      period.ID,
			NextPeriodID:  next.ID,
			AssetsPosted:  recalc.AssetsProcessed,
			RolledForward: rolled,
			TotalCharge:   recalc.TotalCharge,
			Warnings:      warnings,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "period closed",
		"period_id", result.PeriodID,
		"next_period_id", result.NextPeriodID,
		"assets_posted", result.AssetsPosted,
		"rolled_forward", result.RolledForward,
		"forced", req.Force,
	)
	return result, nil
}

// validate runs the shared preview/commit checks: period status, next
// period dates and the planning checklist.
func (s *Service) validate(ctx context.Context, req CloseRequest, period *periods.AccountingPeriod) (periods.Completion, []string, error) {
	var warnings []string

	if !period.IsOpen() {
		return periods.Completion{}, nil, apperror.NewPeriodNotOpen(period.ID.String(), string(period.Status))
	}

	if req.Next.Name == "" {
		return periods.Completion{}, nil, apperror.NewValidation("next period name is required").
			WithDetail("field", "next.name")
	}
	start := periods.Day(req.Next.StartDate)
	end := periods.Day(req.Next.EndDate)
	if start.IsZero() || end.IsZero() {
		return periods.Completion{}, nil, apperror.NewValidation("next period dates are required").
			WithDetail("field", "next.startDate")
	}
	if start.After(end) {
		return periods.Completion{}, nil, apperror.NewValidation("next period start must not be after its end").
			WithDetail("startDate", start.Format(periods.DateLayout)).
			WithDetail("endDate", end.Format(periods.DateLayout))
	}

	// A gap or overlap against the closing period is suspicious but not
	// fatal: mid-year reorganisations do this on purpose.
	if !start.Equal(periods.Day(period.EndDate).AddDate(0, 0, 1)) {
		warnings = append(warnings, fmt.Sprintf(
			"next period starts %s, not the day after the closing period ends (%s)",
			start.Format(periods.DateLayout), periods.Day(period.EndDate).Format(periods.DateLayout)))
	}

	completion, err := s.planning.Completion(ctx, period.ID)
	if err != nil {
		return periods.Completion{}, nil, err
	}
	if !completion.IsComplete() && !req.Force {
		return completion, warnings, apperror.NewCloseNeedsOverride(completion.Completed, completion.Total)
	}
	if !completion.IsComplete() && req.Force {
		warnings = append(warnings, fmt.Sprintf(
			"planning checklist incomplete (%d of %d), close forced",
			completion.Completed, completion.Total))
	}

	return completion, warnings, nil
}

// seedPlanning creates the default checklist for the newly opened period.
func (s *Service) seedPlanning(ctx context.Context, period *periods.AccountingPeriod) error {
	sections := make([]periods.PlanningSection, 0, len(periods.DefaultPlanningSections))
	for _, name := range periods.DefaultPlanningSections {
		sections = append(sections, periods.PlanningSection{
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
