package assets

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
	"assetbook/internal/core/types"
	"assetbook/internal/domain/periods"
	"assetbook/pkg/numerator"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAssetRepo struct {
	byID map[id.ID]*FixedAsset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{byID: map[id.ID]*FixedAsset{}}
}

func (r *fakeAssetRepo) Create(_ context.Context, asset *FixedAsset) error {
	for _, a := range r.byID {
		if a.ClientID == asset.ClientID && a.Code == asset.Code {
			return apperror.NewConflict("asset code already in use")
		}
	}
	cp := *asset
	r.byID[asset.ID] = &cp
	return nil
}

func (r *fakeAssetRepo) GetByID(_ context.Context, assetID id.ID) (*FixedAsset, error) {
	a, ok := r.byID[assetID]
	if !ok {
		return nil, apperror.NewNotFound("asset", assetID.String())
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssetRepo) GetByIDForUpdate(ctx context.Context, assetID id.ID) (*FixedAsset, error) {
	return r.GetByID(ctx, assetID)
}

func (r *fakeAssetRepo) Update(_ context.Context, asset *FixedAsset) error {
	if _, ok := r.byID[asset.ID]; !ok {
		return apperror.NewNotFound("asset", asset.ID.String())
	}
	cp := *asset
	r.byID[asset.ID] = &cp
	return nil
}

func (r *fakeAssetRepo) ListByClient(_ context.Context, clientID id.ID) ([]FixedAsset, error) {
	var out []FixedAsset
	for _, a := range r.byID {
		if a.ClientID == clientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssetRepo) ListByCategory(_ context.Context, clientID, categoryID id.ID) ([]FixedAsset, error) {
	var out []FixedAsset
	for _, a := range r.byID {
		if a.ClientID == clientID && a.CategoryID == categoryID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssetRepo) ApplyCostAdjustment(_ context.Context, assetID id.ID, delta types.Money, revalued bool) error {
	a, ok := r.byID[assetID]
	if !ok {
		return apperror.NewNotFound("asset", assetID.String())
	}
	a.CostAdjustment = a.CostAdjustment.Add(delta)
	if revalued {
		a.Revalued = true
	}
	return nil
}

func (r *fakeAssetRepo) MarkDisposed(_ context.Context, assetID id.ID, disposalDate time.Time) error {
	a, ok := r.byID[assetID]
	if !ok {
		return apperror.NewNotFound("asset", assetID.String())
	}
	a.DisposalDate = &disposalDate
	return nil
}

type fakeCategoryRepo struct {
	byID map[id.ID]*Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{byID: map[id.ID]*Category{}}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *Category) error {
	cp := *category
	r.byID[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, categoryID id.ID) (*Category, error) {
	c, ok := r.byID[categoryID]
	if !ok {
		return nil, apperror.NewNotFound("category", categoryID.String())
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) ListByClient(_ context.Context, clientID id.ID) ([]Category, error) {
	var out []Category
	for _, c := range r.byID {
		if c.ClientID == clientID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakePeriodRepo struct {
	open *periods.AccountingPeriod
}

func (r *fakePeriodRepo) Create(context.Context, *periods.AccountingPeriod) error { return nil }

func (r *fakePeriodRepo) GetByID(_ context.Context, periodID id.ID) (*periods.AccountingPeriod, error) {
	if r.open != nil && r.open.ID == periodID {
		return r.open, nil
	}
	return nil, apperror.NewNotFound("period", periodID.String())
}

func (r *fakePeriodRepo) GetOpenByClient(_ context.Context, clientID id.ID) (*periods.AccountingPeriod, error) {
	if r.open == nil || r.open.ClientID != clientID || r.open.Status != periods.StatusOpen {
		return nil, apperror.NewNotFound("open period", clientID.String())
	}
	return r.open, nil
}

func (r *fakePeriodRepo) GetPreceding(context.Context, id.ID, time.Time) (*periods.AccountingPeriod, error) {
	return nil, apperror.NewNotFound("preceding period", "")
}

func (r *fakePeriodRepo) ListByClient(context.Context, id.ID) ([]periods.AccountingPeriod, error) {
	return nil, nil
}

func (r *fakePeriodRepo) UpdateStatus(context.Context, id.ID, periods.Status, periods.Status) error {
	return nil
}

type seededBalance struct {
	assetID  id.ID
	periodID id.ID
	cost     types.Money
}

type fakeSeeder struct {
	seeded []seededBalance
}

func (s *fakeSeeder) SeedAcquisition(_ context.Context, asset *FixedAsset, periodID id.ID) error {
	s.seeded = append(s.seeded, seededBalance{
		assetID:  asset.ID,
		periodID: periodID,
		cost:     asset.OriginalCost,
	})
	return nil
}

type fakeNumbers struct {
	next int
}

func (n *fakeNumbers) GetNextNumber(_ context.Context, cfg numerator.Config, _ time.Time) (string, error) {
	n.next++
	return fmt.Sprintf("%s-%04d", cfg.Prefix, n.next), nil
}

type fixture struct {
	svc        *Service
	repo       *fakeAssetRepo
	categories *fakeCategoryRepo
	seeder     *fakeSeeder
	clientID   id.ID
	categoryID id.ID
	period     *periods.AccountingPeriod
}

func setup(t *testing.T) *fixture {
	t.Helper()

	clientID := id.New()
	period := periods.NewAccountingPeriod(clientID, "FY2026",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	period.Status = periods.StatusOpen

	repo := newFakeAssetRepo()
	categories := newFakeCategoryRepo()
	seeder := &fakeSeeder{}

	category := NewCategory(clientID, "CAT-001", "Plant and machinery")
	require.NoError(t, categories.Create(context.Background(), category))

	svc := NewService(repo, categories, &fakePeriodRepo{open: period}, seeder, &fakeNumbers{}, fakeTxManager{})
	return &fixture{
		svc:        svc,
		repo:       repo,
		categories: categories,
		seeder:     seeder,
		clientID:   clientID,
		categoryID: category.ID,
		period:     period,
	}
}

func (f *fixture) newAsset() *FixedAsset {
	asset := NewFixedAsset(f.clientID, f.categoryID, "", "Lathe")
	asset.AcquisitionDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	asset.OriginalCost = types.MustMoney("10000")
	asset.Method = StraightLine
	asset.Rate = types.MustMoney("20")
	return asset
}

func TestCreate_SeedsAcquisitionBalance(t *testing.T) {
	f := setup(t)
	asset := f.newAsset()

	require.NoError(t, f.svc.Create(context.Background(), asset))

	require.Len(t, f.seeder.seeded, 1)
	assert.Equal(t, asset.ID, f.seeder.seeded[0].assetID)
	assert.Equal(t, f.period.ID, f.seeder.seeded[0].periodID)
	assert.True(t, f.seeder.seeded[0].cost.Equal(types.MustMoney("10000")))

	stored, err := f.repo.GetByID(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "FA-0001", stored.Code)
}

func TestCreate_KeepsExplicitCode(t *testing.T) {
	f := setup(t)
	asset := f.newAsset()
	asset.Code = "PLANT-7"

	require.NoError(t, f.svc.Create(context.Background(), asset))

	stored, err := f.repo.GetByID(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "PLANT-7", stored.Code)
}

func TestCreate_NoOpenPeriod(t *testing.T) {
	f := setup(t)
	f.period.Status = periods.StatusClosed

	err := f.svc.Create(context.Background(), f.newAsset())

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
	assert.Empty(t, f.seeder.seeded)
}

func TestCreate_AcquisitionAfterPeriodEnd(t *testing.T) {
	f := setup(t)
	asset := f.newAsset()
	asset.AcquisitionDate = time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)

	err := f.svc.Create(context.Background(), asset)

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePostingDateOutOfRange))
}

func TestCreate_UnknownCategory(t *testing.T) {
	f := setup(t)
	asset := f.newAsset()
	asset.CategoryID = id.New()

	err := f.svc.Create(context.Background(), asset)

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.seeder.seeded)
}

func TestCreate_ValidationErrors(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name   string
		mutate func(*FixedAsset)
		code   string
	}{
		{
			name:   "negative cost",
			mutate: func(a *FixedAsset) { a.OriginalCost = types.MustMoney("-1") },
			code:   apperror.CodeInvalidAmount,
		},
		{
			name:   "unknown method",
			mutate: func(a *FixedAsset) { a.Method = "sum_of_digits" },
			code:   apperror.CodeValidation,
		},
		{
			name:   "negative rate",
			mutate: func(a *FixedAsset) { a.Rate = types.MustMoney("-5") },
			code:   apperror.CodeValidation,
		},
		{
			name:   "missing acquisition date",
			mutate: func(a *FixedAsset) { a.AcquisitionDate = time.Time{} },
			code:   apperror.CodeValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset := f.newAsset()
			tt.mutate(asset)
			err := f.svc.Create(context.Background(), asset)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, tt.code))
		})
	}
}

func TestCreate_SequentialCodes(t *testing.T) {
	f := setup(t)

	first := f.newAsset()
	second := f.newAsset()
	second.Name = "Drill press"

	require.NoError(t, f.svc.Create(context.Background(), first))
	require.NoError(t, f.svc.Create(context.Background(), second))

	assert.Equal(t, "FA-0001", first.Code)
	assert.Equal(t, "FA-0002", second.Code)
}

func TestUpdate_DescriptiveFieldsOnly(t *testing.T) {
	f := setup(t)
	asset := f.newAsset()
	require.NoError(t, f.svc.Create(context.Background(), asset))

	other := NewCategory(f.clientID, "CAT-002", "Vehicles")
	require.NoError(t, f.categories.Create(context.Background(), other))

	updated, err := f.svc.Update(context.Background(), asset.ID, "Lathe (refurbished)", other.ID)
	require.NoError(t, err)

	assert.Equal(t, "Lathe (refurbished)", updated.Name)
	assert.Equal(t, other.ID, updated.CategoryID)
	assert.True(t, updated.OriginalCost.Equal(types.MustMoney("10000")))
}

func TestUpdate_UnknownCategoryRejected(t *testing.T) {
	f := setup(t)
	asset := f.newAsset()
	require.NoError(t, f.svc.Create(context.Background(), asset))

	_, err := f.svc.Update(context.Background(), asset.ID, "", id.New())

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateCategory_AssignsCode(t *testing.T) {
	f := setup(t)

	category := NewCategory(f.clientID, "", "Office equipment")
	require.NoError(t, f.svc.CreateCategory(context.Background(), category))

	assert.Equal(t, "CAT-0001", category.Code)
}

func TestResidualFloor(t *testing.T) {
	asset := NewFixedAsset(id.New(), id.New(), "FA-1", "Lathe")
	assert.True(t, asset.ResidualFloor().IsZero())

	floor := types.MustMoney("1000")
	asset.DisposalValue = &floor
	assert.True(t, asset.ResidualFloor().Equal(floor))
}

func TestDepreciableCost(t *testing.T) {
	asset := NewFixedAsset(id.New(), id.New(), "FA-1", "Lathe")
	asset.OriginalCost = types.MustMoney("10000")
	asset.CostAdjustment = types.MustMoney("-500")

	assert.True(t, asset.DepreciableCost().Equal(types.MustMoney("9500")))
}
