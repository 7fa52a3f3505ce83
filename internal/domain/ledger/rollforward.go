package ledger

import (
	"context"
	"fmt"
	"time"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/pkg/logger"
)

// SeedRollForward creates the next period's balance rows from the closing
// period's carried-forward figures. Fully disposed assets drop out of the
// book. Runs inside the close transaction; rows are bulk-inserted.
//
// Continuity check: each new row's opening figures are the prior row's
// closing figures by construction, so bfwd(next) == cfwd(prior) holds for
// every asset that survives the close.
func (s *Service) SeedRollForward(ctx context.Context, clientID, fromPeriodID, toPeriodID id.ID) (int, error) {
	prior, err := s.balances.ListByPeriodForUpdate(ctx, clientID, fromPeriodID)
	if err != nil {
		return 0, fmt.Errorf("load closing balances: %w", err)
	}

	now := time.Now().UTC()
	next := make([]AssetPeriodBalance, 0, len(prior))
	for _, b := range prior {
		if b.FullyDisposed() {
			continue
		}
		row := AssetPeriodBalance{
			AssetID:          b.AssetID,
			PeriodID:         toPeriodID,
			ClientID:         clientID,
			CostBfwd:         b.CostCfwd,
			DepreciationBfwd: b.DepreciationCfwd,
			UpdatedAt:        now,
		}
		row.Recompute()

		// The identities guarantee cfwd == bfwd on a fresh row; anything
		// else means the prior row was corrupted.
		if !row.CostCfwd.Equal(b.CostCfwd) || !row.DepreciationCfwd.Equal(b.DepreciationCfwd) {
			return 0, apperror.NewRollForwardMismatch(b.AssetID.String())
		}
		next = append(next, row)
	}

	if len(next) > 0 {
		if err := s.balances.InsertBatch(ctx, next); err != nil {
			return 0, fmt.Errorf("seed next period balances: %w", err)
		}
	}

	logger.Info(ctx, "roll-forward seeded",
		"client_id", clientID,
		"from_period_id", fromPeriodID,
		"to_period_id", toPeriodID,
		"rows", len(next),
	)
	return len(next), nil
}
