package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/core/types"
	"assetbook/internal/domain/periods"
)

type stubRows struct {
	rows []Row
}

func (s *stubRows) ListRows(ctx context.Context, clientID, periodID id.ID) ([]Row, error) {
	return s.rows, nil
}

type stubPeriods struct {
	period *periods.AccountingPeriod
}

func (s *stubPeriods) Create(ctx context.Context, p *periods.AccountingPeriod) error { return nil }

func (s *stubPeriods) GetByID(ctx context.Context, periodID id.ID) (*periods.AccountingPeriod, error) {
	if s.period != nil && s.period.ID == periodID {
		return s.period, nil
	}
	return nil, apperror.NewNotFound("period", periodID.String())
}

func (s *stubPeriods) GetOpenByClient(ctx context.Context, clientID id.ID) (*periods.AccountingPeriod, error) {
	return s.period, nil
}

func (s *stubPeriods) GetPreceding(ctx context.Context, clientID id.ID, before time.Time) (*periods.AccountingPeriod, error) {
	return nil, apperror.NewNotFound("period", clientID.String())
}

func (s *stubPeriods) ListByClient(ctx context.Context, clientID id.ID) ([]periods.AccountingPeriod, error) {
	return nil, nil
}

func (s *stubPeriods) UpdateStatus(ctx context.Context, periodID id.ID, from, to periods.Status) error {
	return nil
}

func row(catID id.ID, catCode string, cost, dep, charge string) Row {
	return Row{
		AssetID:            id.New(),
		AssetCode:          "FA",
		CategoryID:         catID,
		CategoryCode:       catCode,
		CostBfwd:           types.MustMoney(cost),
		CostCfwd:           types.MustMoney(cost),
		DepreciationBfwd:   types.MustMoney(dep),
		DepreciationCharge: types.MustMoney(charge),
		DepreciationCfwd:   types.MustMoney(dep).Add(types.MustMoney(charge)),
	}
}

func testSchedulePeriod() *periods.AccountingPeriod {
	p := periods.NewAccountingPeriod(id.New(), "FY2026",
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC))
	p.Status = periods.StatusOpen
	return p
}

func TestForPeriod_GroupsByCategory(t *testing.T) {
	period := testSchedulePeriod()
	plant := id.New()
	vehicles := id.New()

	repo := &stubRows{rows: []Row{
		row(plant, "PLT", "10000", "2000", "2000"),
		row(plant, "PLT", "30000", "6000", "6000"),
		row(vehicles, "VEH", "8000", "1000", "1600"),
	}}
	svc := NewService(repo, &stubPeriods{period: period})

	report, err := svc.ForPeriod(context.Background(), period.ClientID, period.ID)
	require.NoError(t, err)

	require.Len(t, report.Rows, 3)
	require.Len(t, report.Categories, 2)

	assert.Equal(t, 2, report.Categories[0].AssetCount)
	assert.True(t, report.Categories[0].Totals.CostCfwd.Equal(types.MustMoney("40000")))
	assert.True(t, report.Categories[0].Totals.DepreciationCharge.Equal(types.MustMoney("8000")))

	assert.Equal(t, 1, report.Categories[1].AssetCount)
	assert.True(t, report.Categories[1].Totals.NBVCfwd.Equal(types.MustMoney("5400")))

	assert.True(t, report.Totals.CostCfwd.Equal(types.MustMoney("48000")))
	assert.True(t, report.Totals.DepreciationCfwd.Equal(types.MustMoney("18600")))
	assert.True(t, report.Totals.NBVCfwd.Equal(types.MustMoney("29400")))

	// Row NBVs are derived, not stored.
	assert.True(t, report.Rows[0].NBVBfwd.Equal(types.MustMoney("8000")))
	assert.True(t, report.Rows[0].NBVCfwd.Equal(types.MustMoney("6000")))
}

func TestForPeriod_DisposalProfitAndLoss(t *testing.T) {
	period := testSchedulePeriod()
	cat := id.New()

	// Disposed half of a 20000/8000 asset for 6500:
	// NBV disposed = 10000 - 4000 = 6000, profit = 500.
	disposal := Row{
		AssetID:                 id.New(),
		CategoryID:              cat,
		CategoryCode:            "PLT",
		CostBfwd:                types.MustMoney("20000"),
		DisposalsCost:           types.MustMoney("10000"),
		CostCfwd:                types.MustMoney("10000"),
		DepreciationBfwd:        types.MustMoney("8000"),
		DepreciationOnDisposals: types.MustMoney("4000"),
		DepreciationCfwd:        types.MustMoney("4000"),
		DisposalProceeds:        types.MustMoney("6500"),
	}
	svc := NewService(&stubRows{rows: []Row{disposal}}, &stubPeriods{period: period})

	report, err := svc.ForPeriod(context.Background(), period.ClientID, period.ID)
	require.NoError(t, err)

	assert.True(t, report.Disposals.Proceeds.Equal(types.MustMoney("6500")))
	assert.True(t, report.Disposals.NBVDisposed.Equal(types.MustMoney("6000")))
	assert.True(t, report.Disposals.ProfitOrLoss.Equal(types.MustMoney("500")))
}

func TestForPeriod_EmptyPeriod(t *testing.T) {
	period := testSchedulePeriod()
	svc := NewService(&stubRows{}, &stubPeriods{period: period})

	report, err := svc.ForPeriod(context.Background(), period.ClientID, period.ID)
	require.NoError(t, err)

	assert.Empty(t, report.Rows)
	assert.Empty(t, report.Categories)
	assert.True(t, report.Totals.CostCfwd.IsZero())
	assert.True(t, report.Disposals.ProfitOrLoss.IsZero())
}

func TestForPeriod_UnknownPeriod(t *testing.T) {
	svc := NewService(&stubRows{}, &stubPeriods{})

	_, err := svc.ForPeriod(context.Background(), id.New(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
