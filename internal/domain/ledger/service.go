package ledger

import (
	"context"
	"fmt"
	"time"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/core/tx"
	"assetbook/internal/core/types"
	"assetbook/internal/domain/assets"
	"assetbook/internal/domain/periods"
	"assetbook/pkg/logger"
	"assetbook/pkg/numerator"
)

// Compile-time check: the ledger opens acquisition balances for new assets.
var _ assets.BalanceSeeder = (*Service)(nil)

// PostCommand describes one movement to post.
//
// Which fields matter depends on Type:
//   - CostAdjustment: AmountCost (signed)
//   - DepreciationAdjustment: AmountDepreciation (signed)
//   - Revaluation: AmountCost and AmountDepreciation (signed)
//   - DisposalFull: Proceeds; the removed amounts are everything remaining
//   - DisposalPartial: Proceeds plus Disposal (explicit amounts or percentage)
type PostCommand struct {
	AssetID            id.ID
	Type               MovementType
	PostingDate        time.Time
	AmountCost         types.Money
	AmountDepreciation types.Money
	Proceeds           types.Money
	Disposal           DisposalAmounts
}

// PostResult is the outcome of a posted movement.
type PostResult struct {
	Movement     *AssetMovement      `json:"movement"`
	BalanceAfter *AssetPeriodBalance `json:"balanceAfter"`
}

// Service posts movements and maintains period balances.
type Service struct {
	movements  MovementRepository
	balances   BalanceRepository
	assetRepo  assets.Repository
	periodRepo periods.Repository
	numbers    assets.NumberSource
	txManager  tx.Manager
}

// NewService creates a new ledger service.
func NewService(
	movements MovementRepository,
	balances BalanceRepository,
	assetRepo assets.Repository,
	periodRepo periods.Repository,
	numbers assets.NumberSource,
	txManager tx.Manager,
) *Service {
	return &Service{
		movements:  movements,
		balances:   balances,
		assetRepo:  assetRepo,
		periodRepo: periodRepo,
		numbers:    numbers,
		txManager:  txManager,
	}
}

// SeedAcquisition opens the balance row for a freshly created asset in the
// given period, with the original cost shown under additions.
func (s *Service) SeedAcquisition(ctx context.Context, asset *assets.FixedAsset, periodID id.ID) error {
	balance := NewBalance(asset.ClientID, asset.ID, periodID)
	balance.Additions = types.Round(asset.OriginalCost)
	balance.Recompute()
	if err := s.balances.Insert(ctx, balance); err != nil {
		return fmt.Errorf("seed acquisition balance: %w", err)
	}
	return nil
}

// Post validates and posts one movement as a single transaction: the
// asset and its current-period balance row are locked, mutated, checked
// against the ledger invariants and written back together with the
// journal row. Any failure rolls the whole thing back.
func (s *Service) Post(ctx context.Context, cmd PostCommand) (*PostResult, error) {
	if !cmd.Type.Valid() {
		return nil, apperror.NewValidation("unknown movement type").
			WithDetail("movementType", string(cmd.Type))
	}
	if cmd.PostingDate.IsZero() {
		return nil, apperror.NewValidation("posting date is required").
			WithDetail("field", "postingDate")
	}
	if cmd.Type.IsDisposal() && cmd.Proceeds.IsNegative() {
		return nil, apperror.NewInvalidAmount("proceeds", "must not be negative")
	}

	var result *PostResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		asset, err := s.assetRepo.GetByIDForUpdate(ctx, cmd.AssetID)
		if err != nil {
			return err
		}
		if asset.IsDisposed() {
			return apperror.NewAssetDisposed(
				asset.ID.String(), asset.DisposalDate.Format(periods.DateLayout))
		}

		period, err := s.periodRepo.GetOpenByClient(ctx, asset.ClientID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewConflict("client has no open period")
			}
			return err
		}
		if !period.Contains(cmd.PostingDate) {
			return apperror.NewPostingDateOutOfRange(
				cmd.PostingDate.Format(periods.DateLayout),
				period.StartDate.Format(periods.DateLayout),
				period.EndDate.Format(periods.DateLayout),
			)
		}

		balance, err := s.balances.GetForUpdate(ctx, asset.ID, period.ID)
		if err != nil {
			return err
		}
		if balance.Frozen {
			return apperror.NewPeriodNotOpen(period.ID.String(), string(period.Status))
		}

		movement := &AssetMovement{
			ID:          id.New(),
			AssetID:     asset.ID,
			PeriodID:    period.ID,
			Type:        cmd.Type,
			PostingDate: periods.Day(cmd.PostingDate),
			CreatedAt:   time.Now().UTC(),
		}

		if err := s.apply(ctx, cmd, asset, balance, movement); err != nil {
			return err
		}

		balance.Recompute()
		if err := s.checkInvariants(asset, balance); err != nil {
			return err
		}

		number, err := s.numbers.GetNextNumber(ctx, numerator.DefaultConfig("MOV"), cmd.PostingDate)
		if err != nil {
			return fmt.Errorf("assign movement number: %w", err)
		}
		movement.Number = number

		if err := s.movements.Insert(ctx, movement); err != nil {
			return fmt.Errorf("insert movement: %w", err)
		}
		if err := s.balances.Update(ctx, balance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		result = &PostResult{Movement: movement, BalanceAfter: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "movement posted",
		"movement_id", result.Movement.ID,
		"number", result.Movement.Number,
		"asset_id", cmd.AssetID,
		"type", cmd.Type,
	)
	return result, nil
}

// apply mutates the balance (and the asset's cumulative fields) for one
// movement type. Amounts written back to the movement are the amounts
// actually taken, not the amounts requested.
func (s *Service) apply(
	ctx context.Context,
	cmd PostCommand,
	asset *assets.FixedAsset,
	balance *AssetPeriodBalance,
	movement *AssetMovement,
) error {
	switch cmd.Type {
	case CostAdjustment:
		delta := types.Round(cmd.AmountCost)
		balance.CostAdjustment = balance.CostAdjustment.Add(delta)
		movement.AmountCost = delta
		return s.assetRepo.ApplyCostAdjustment(ctx, asset.ID, delta, false)

	case DepreciationAdjustment:
		delta := types.Round(cmd.AmountDepreciation)
		balance.DepreciationAdjustment = balance.DepreciationAdjustment.Add(delta)
		movement.AmountDepreciation = delta
		return nil

	case Revaluation:
		costDelta := types.Round(cmd.AmountCost)
		depDelta := types.Round(cmd.AmountDepreciation)
		balance.CostAdjustment = balance.CostAdjustment.Add(costDelta)
		balance.DepreciationAdjustment = balance.DepreciationAdjustment.Add(depDelta)
		movement.AmountCost = costDelta
		movement.AmountDepreciation = depDelta
		asset.Revalued = true
		return s.assetRepo.ApplyCostAdjustment(ctx, asset.ID, costDelta, true)

	case DisposalFull:
		cost := balance.AvailableCost()
		dep := balance.AvailableDepreciation()
		balance.DisposalsCost = balance.DisposalsCost.Add(cost)
		balance.DepreciationOnDisposals = balance.DepreciationOnDisposals.Add(dep)
		balance.DisposalProceeds = balance.DisposalProceeds.Add(types.Round(cmd.Proceeds))
		movement.AmountCost = cost
		movement.AmountDepreciation = dep
		movement.AmountProceeds = types.Round(cmd.Proceeds)
		return s.assetRepo.MarkDisposed(ctx, asset.ID, movement.PostingDate)

	case DisposalPartial:
		cost, dep, err := s.partialAmounts(ctx, cmd.Disposal, balance, movement)
		if err != nil {
			return err
		}
		balance.DisposalsCost = balance.DisposalsCost.Add(cost)
		balance.DepreciationOnDisposals = balance.DepreciationOnDisposals.Add(dep)
		balance.DisposalProceeds = balance.DisposalProceeds.Add(types.Round(cmd.Proceeds))
		movement.AmountCost = cost
		movement.AmountDepreciation = dep
		movement.AmountProceeds = types.Round(cmd.Proceeds)
		// A partial disposal that removes the last of the cost is a full
		// disposal in effect.
		if balance.DisposalsCost.Equal(balance.CostBfwd.Add(balance.Additions).Add(balance.CostAdjustment)) {
			return s.assetRepo.MarkDisposed(ctx, asset.ID, movement.PostingDate)
		}
		return nil
	}
	return apperror.NewValidation("unknown movement type").
		WithDetail("movementType", string(cmd.Type))
}

// partialAmounts resolves a partial disposal request into the cost and
// depreciation actually removed.
func (s *Service) partialAmounts(
	ctx context.Context,
	disposal DisposalAmounts,
	balance *AssetPeriodBalance,
	movement *AssetMovement,
) (cost, dep types.Money, err error) {
	switch d := disposal.(type) {
	case ExplicitAmounts:
		cost = types.Round(d.Cost)
		dep = types.Round(d.Depreciation)
		if cost.IsNegative() {
			return cost, dep, apperror.NewInvalidAmount("cost", "must not be negative")
		}
		if dep.IsNegative() {
			return cost, dep, apperror.NewInvalidAmount("depreciation", "must not be negative")
		}
		if cost.GreaterThan(balance.AvailableCost()) {
			return cost, dep, apperror.NewInsufficientBalance(
				"cost", cost.String(), balance.AvailableCost().String())
		}
		if dep.GreaterThan(balance.AvailableDepreciation()) {
			return cost, dep, apperror.NewInsufficientBalance(
				"depreciation", dep.String(), balance.AvailableDepreciation().String())
		}
		return cost, dep, nil

	case ByPercentage:
		if err := d.Validate(ctx); err != nil {
			return cost, dep, err
		}
		fraction := types.Percent(d.Percentage)
		cost = types.Round(balance.AvailableCost().Mul(fraction))
		dep = types.Round(balance.AvailableDepreciation().Mul(fraction))
		pct := d.Percentage
		movement.DisposalPercentage = &pct
		return cost, dep, nil

	case nil:
		return cost, dep, apperror.NewValidation(
			"partial disposal requires explicit amounts or a percentage").
			WithDetail("field", "disposal")
	}
	return cost, dep, apperror.NewValidation("unsupported disposal amounts").
		WithDetail("field", "disposal")
}

// checkInvariants rejects balances the movement would leave inconsistent.
func (s *Service) checkInvariants(asset *assets.FixedAsset, balance *AssetPeriodBalance) error {
	if balance.AvailableCost().IsNegative() {
		return apperror.NewInsufficientBalance(
			"cost", balance.DisposalsCost.String(),
			balance.CostBfwd.Add(balance.Additions).Add(balance.CostAdjustment).String())
	}
	if balance.AvailableDepreciation().IsNegative() {
		return apperror.NewInsufficientBalance(
			"depreciation", balance.DepreciationOnDisposals.String(),
			balance.DepreciationBfwd.Add(balance.DepreciationCharge).
				Add(balance.DepreciationAdjustment).String())
	}
	// Revalued assets may carry a negative NBV while the revaluation
	// works its way through.
	if !asset.Revalued && balance.NBVCfwd().IsNegative() {
		return apperror.NewInsufficientBalance(
			"netBookValue", balance.NBVCfwd().String(), "0")
	}
	return nil
}

// ListByAsset returns the movement journal for one asset, oldest first.
func (s *Service) ListByAsset(ctx context.Context, assetID id.ID) ([]AssetMovement, error) {
	return s.movements.ListByAsset(ctx, assetID)
}

// ListByPeriod returns every movement posted into a period.
func (s *Service) ListByPeriod(ctx context.Context, clientID, periodID id.ID) ([]AssetMovement, error) {
	return s.movements.ListByPeriod(ctx, clientID, periodID)
}

// Balance returns the roll-forward row for one asset in one period.
func (s *Service) Balance(ctx context.Context, assetID, periodID id.ID) (*AssetPeriodBalance, error) {
	return s.balances.Get(ctx, assetID, periodID)
}

// Balances returns all roll-forward rows of a period.
func (s *Service) Balances(ctx context.Context, clientID, periodID id.ID) ([]AssetPeriodBalance, error) {
	return s.balances.ListByPeriod(ctx, clientID, periodID)
}
