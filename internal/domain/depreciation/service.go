package depreciation

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/core/tx"
	"assetbook/internal/core/types"
	"assetbook/internal/domain/assets"
	"assetbook/internal/domain/ledger"
	"assetbook/internal/domain/periods"
	"assetbook/pkg/logger"
)

// Result summarizes one recalculation run.
type Result struct {
	AssetsProcessed int         `json:"assetsProcessed"`
	TotalCharge     types.Money `json:"totalCharge"`
}

// AssetError is one asset's failure inside a recalculation run.
type AssetError struct {
	AssetID id.ID
	Err     error
}

// Service recalculates depreciation for whole periods.
type Service struct {
	entries    Repository
	balances   ledger.BalanceRepository
	assetRepo  assets.Repository
	periodRepo periods.Repository
	txManager  tx.Manager
}

// NewService creates a new depreciation service.
func NewService(
	entries Repository,
	balances ledger.BalanceRepository,
	assetRepo assets.Repository,
	periodRepo periods.Repository,
	txManager tx.Manager,
) *Service {
	return &Service{
		entries:    entries,
		balances:   balances,
		assetRepo:  assetRepo,
		periodRepo: periodRepo,
		txManager:  txManager,
	}
}

// Recalculate recomputes the depreciation charge for every asset in the
// period and overwrites the per-asset entries. Idempotent: running it
// twice yields the same balances.
//
// All-or-nothing: every asset is validated and computed before anything
// is written, and a single failure rolls the whole run back with the full
// per-asset error list in the response.
func (s *Service) Recalculate(ctx context.Context, clientID, periodID id.ID) (*Result, error) {
	var result *Result
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		period, err := s.periodRepo.GetByID(ctx, periodID)
		if err != nil {
			return err
		}
		if !period.IsOpen() {
			return apperror.NewPeriodNotOpen(period.ID.String(), string(period.Status))
		}
		result, err = s.recalculate(ctx, clientID, period)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "depreciation recalculated",
		"client_id", clientID,
		"period_id", periodID,
		"assets", result.AssetsProcessed,
		"total_charge", result.TotalCharge,
	)
	return result, nil
}

// RecalculateForClose is the close orchestrator's entry point: the period
// is already CLOSING and the caller holds the transaction.
func (s *Service) RecalculateForClose(ctx context.Context, clientID id.ID, period *periods.AccountingPeriod) (*Result, error) {
	if period.Status != periods.StatusOpen && period.Status != periods.StatusClosing {
		return nil, apperror.NewPeriodNotOpen(period.ID.String(), string(period.Status))
	}
	return s.recalculate(ctx, clientID, period)
}

// Estimate computes every charge for the period without writing anything.
// Used by the close preview.
func (s *Service) Estimate(ctx context.Context, clientID id.ID, period *periods.AccountingPeriod) (*Result, error) {
	balances, err := s.balances.ListByPeriod(ctx, clientID, period.ID)
	if err != nil {
		return nil, fmt.Errorf("load period balances: %w", err)
	}
	charges, err := s.computeAll(ctx, period, balances)
	if err != nil {
		return nil, err
	}
	total := types.Zero()
	for _, c := range charges {
		total = total.Add(c.Amount)
	}
	return &Result{AssetsProcessed: len(balances), TotalCharge: total}, nil
}

// computeAll computes a charge per balance row, collecting failures
// instead of stopping at the first.
func (s *Service) computeAll(ctx context.Context, period *periods.AccountingPeriod, balances []ledger.AssetPeriodBalance) ([]Charge, error) {
	charges := make([]Charge, len(balances))
	var failures []AssetError
	for i := range balances {
		asset, err := s.assetRepo.GetByID(ctx, balances[i].AssetID)
		if err != nil {
			failures = append(failures, AssetError{AssetID: balances[i].AssetID, Err: err})
			continue
		}
		charge, err := ComputeCharge(asset, period, &balances[i])
		if err != nil {
			failures = append(failures, AssetError{AssetID: asset.ID, Err: err})
			continue
		}
		charges[i] = charge
	}
	if len(failures) > 0 {
		return nil, newRecalculationFailed(failures)
	}
	return charges, nil
}

// recalculate does the actual work inside the ambient transaction.
func (s *Service) recalculate(ctx context.Context, clientID id.ID, period *periods.AccountingPeriod) (*Result, error) {
	balances, err := s.balances.ListByPeriodForUpdate(ctx, clientID, period.ID)
	if err != nil {
		return nil, fmt.Errorf("lock period balances: %w", err)
	}

	charges, err := s.computeAll(ctx, period, balances)
	if err != nil {
		return nil, err
	}

	// Phase two: apply. Nothing below returns a business error, so the
	// run is effectively all-or-nothing.
	now := time.Now().UTC()
	total := types.Zero()
	for i := range balances {
		b := &balances[i]
		b.DepreciationCharge = charges[i].Amount
		b.Recompute()
		if err := s.balances.Update(ctx, b); err != nil {
			return nil, fmt.Errorf("update balance for asset %s: %w", b.AssetID, err)
		}
		entry := &Entry{
			AssetID:      b.AssetID,
			PeriodID:     period.ID,
			Amount:       charges[i].Amount,
			DaysInPeriod: charges[i].OwnedDays,
			RateUsed:     charges[i].RateUsed,
			CalculatedAt: now,
		}
		if err := s.entries.Upsert(ctx, entry); err != nil {
			return nil, fmt.Errorf("upsert entry for asset %s: %w", b.AssetID, err)
		}
		total = total.Add(charges[i].Amount)
	}

	return &Result{AssetsProcessed: len(balances), TotalCharge: total}, nil
}

// Entries returns the audit entries for a period.
func (s *Service) Entries(ctx context.Context, periodID id.ID) ([]Entry, error) {
	return s.entries.ListByPeriod(ctx, periodID)
}

// newRecalculationFailed flattens per-asset failures into one error the
// API can return wholesale.
func newRecalculationFailed(failures []AssetError) *apperror.AppError {
	items := make([]map[string]any, 0, len(failures))
	for _, f := range failures {
		item := map[string]any{"assetId": f.AssetID.String()}
		if appErr, ok := apperror.AsAppError(f.Err); ok {
			item["code"] = appErr.Code
			item["message"] = appErr.Message
		} else {
			item["message"] = f.Err.Error()
		}
		items = append(items, item)
	}
	return &apperror.AppError{
		Code:       apperror.CodeRecalculationFailed,
		Message:    "depreciation recalculation failed for one or more assets",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"assets": items},
	}
}
