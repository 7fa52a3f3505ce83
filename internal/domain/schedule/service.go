package schedule

import (
	"context"

	"assetbook/internal/core/id"
	"assetbook/internal/core/types"
	"assetbook/internal/domain/periods"
)

// Service assembles period schedules. Pure aggregation over the repository
// rows: every figure on the report is a sum of ledger columns, nothing is
// recomputed, so the report always reconciles with the balances.
type Service struct {
	repo       Repository
	periodRepo periods.Repository
}

// NewService creates a new schedule service.
func NewService(repo Repository, periodRepo periods.Repository) *Service {
	return &Service{repo: repo, periodRepo: periodRepo}
}

// ForPeriod builds the schedule for one period. Works for open and closed
// periods alike; a closed period's schedule is immutable because its
// balances are frozen.
func (s *Service) ForPeriod(ctx context.Context, clientID, periodID id.ID) (*PeriodSchedule, error) {
	if _, err := s.periodRepo.GetByID(ctx, periodID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListRows(ctx, clientID, periodID)
	if err != nil {
		return nil, err
	}

	report := &PeriodSchedule{
		PeriodID: periodID,
		Rows:     rows,
	}

	var current *CategoryTotal
	for i := range rows {
		row := &rows[i]
		row.NBVBfwd = row.CostBfwd.Sub(row.DepreciationBfwd)
		row.NBVCfwd = row.CostCfwd.Sub(row.DepreciationCfwd)

		// Rows arrive ordered by category, so subtotals are a single pass.
		if current == nil || current.CategoryID != row.CategoryID {
			report.Categories = append(report.Categories, CategoryTotal{
				CategoryID:   row.CategoryID,
				CategoryCode: row.CategoryCode,
				CategoryName: row.CategoryName,
			})
			current = &report.Categories[len(report.Categories)-1]
		}
		current.AssetCount++
		addRow(&current.Totals, row)
		addRow(&report.Totals, row)

		report.Disposals.Proceeds = report.Disposals.Proceeds.Add(row.DisposalProceeds)
		nbvDisposed := row.DisposalsCost.Sub(row.DepreciationOnDisposals)
		report.Disposals.NBVDisposed = report.Disposals.NBVDisposed.Add(nbvDisposed)
	}
	report.Disposals.ProfitOrLoss = report.Disposals.Proceeds.Sub(report.Disposals.NBVDisposed)

	normalize(&report.Totals)
	for i := range report.Categories {
		normalize(&report.Categories[i].Totals)
	}
	normalizeDisposals(&report.Disposals)

	return report, nil
}

func addRow(t *Totals, r *Row) {
	t.CostBfwd = t.CostBfwd.Add(r.CostBfwd)
	t.Additions = t.Additions.Add(r.Additions)
	t.DisposalsCost = t.DisposalsCost.Add(r.DisposalsCost)
	t.CostAdjustment = t.CostAdjustment.Add(r.CostAdjustment)
	t.CostCfwd = t.CostCfwd.Add(r.CostCfwd)

	t.DepreciationBfwd = t.DepreciationBfwd.Add(r.DepreciationBfwd)
	t.DepreciationCharge = t.DepreciationCharge.Add(r.DepreciationCharge)
	t.DepreciationOnDisposals = t.DepreciationOnDisposals.Add(r.DepreciationOnDisposals)
	t.DepreciationAdjustment = t.DepreciationAdjustment.Add(r.DepreciationAdjustment)
	t.DepreciationCfwd = t.DepreciationCfwd.Add(r.DepreciationCfwd)

	t.NBVBfwd = t.NBVBfwd.Add(r.NBVBfwd)
	t.NBVCfwd = t.NBVCfwd.Add(r.NBVCfwd)
}

// normalize pins every total to ledger precision so JSON output is
// uniformly two decimal places.
func normalize(t *Totals) {
	t.CostBfwd = types.Round(t.CostBfwd)
	t.Additions = types.Round(t.Additions)
	t.DisposalsCost = types.Round(t.DisposalsCost)
	t.CostAdjustment = types.Round(t.CostAdjustment)
	t.CostCfwd = types.Round(t.CostCfwd)
	t.DepreciationBfwd = types.Round(t.DepreciationBfwd)
	t.DepreciationCharge = types.Round(t.DepreciationCharge)
	t.DepreciationOnDisposals = types.Round(t.DepreciationOnDisposals)
	t.DepreciationAdjustment = types.Round(t.DepreciationAdjustment)
	t.DepreciationCfwd = types.Round(t.DepreciationCfwd)
	t.NBVBfwd = types.Round(t.NBVBfwd)
	t.NBVCfwd = types.Round(t.NBVCfwd)
}

func normalizeDisposals(d *DisposalPL) {
	d.Proceeds = types.Round(d.Proceeds)
	d.NBVDisposed = types.Round(d.NBVDisposed)
	d.ProfitOrLoss = types.Round(d.ProfitOrLoss)
}
