package periods

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePeriodRepo struct {
	byID    map[id.ID]*AccountingPeriod
	created []*AccountingPeriod
}

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{byID: map[id.ID]*AccountingPeriod{}}
}

func (r *fakePeriodRepo) Create(_ context.Context, period *AccountingPeriod) error {
	cp := *period
	r.byID[period.ID] = &cp
	r.created = append(r.created, &cp)
	return nil
}

func (r *fakePeriodRepo) GetByID(_ context.Context, periodID id.ID) (*AccountingPeriod, error) {
	p, ok := r.byID[periodID]
	if !ok {
		return nil, apperror.NewNotFound("period", periodID.String())
	}
	cp := *p
	return &cp, nil
}

func (r *fakePeriodRepo) GetOpenByClient(_ context.Context, clientID id.ID) (*AccountingPeriod, error) {
	for _, p := range r.byID {
		if p.ClientID == clientID && p.Status == StatusOpen {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("open period", clientID.String())
}

func (r *fakePeriodRepo) GetPreceding(_ context.Context, clientID id.ID, before time.Time) (*AccountingPeriod, error) {
	var best *AccountingPeriod
	for _, p := range r.byID {
		if p.ClientID != clientID || !p.EndDate.Before(before) {
			continue
		}
		if best == nil || p.EndDate.After(best.EndDate) {
			best = p
		}
	}
	if best == nil {
		return nil, apperror.NewNotFound("preceding period", clientID.String())
	}
	cp := *best
	return &cp, nil
}

func (r *fakePeriodRepo) ListByClient(_ context.Context, clientID id.ID) ([]AccountingPeriod, error) {
	var out []AccountingPeriod
	for _, p := range r.byID {
		if p.ClientID == clientID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePeriodRepo) UpdateStatus(_ context.Context, periodID id.ID, from, to Status) error {
	p, ok := r.byID[periodID]
	if !ok || p.Status != from {
		return apperror.NewConcurrentModification("period", periodID.String())
	}
	p.Status = to
	p.Version++
	return nil
}

type fakePlanningRepo struct {
	sections map[id.ID]*PlanningSection
	seeded   int
}

func newFakePlanningRepo() *fakePlanningRepo {
	return &fakePlanningRepo{sections: map[id.ID]*PlanningSection{}}
}

func (r *fakePlanningRepo) Seed(_ context.Context, sections []PlanningSection) error {
	for i := range sections {
		cp := sections[i]
		r.sections[cp.ID] = &cp
	}
	r.seeded += len(sections)
	return nil
}

func (r *fakePlanningRepo) List(_ context.Context, periodID id.ID) ([]PlanningSection, error) {
	var out []PlanningSection
	for _, s := range r.sections {
		if s.PeriodID == periodID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakePlanningRepo) SetCompleted(_ context.Context, sectionID id.ID, completed bool) error {
	s, ok := r.sections[sectionID]
	if !ok {
		return apperror.NewNotFound("planning section", sectionID.String())
	}
	s.Completed = completed
	return nil
}

func (r *fakePlanningRepo) Completion(_ context.Context, periodID id.ID) (Completion, error) {
	var c Completion
	for _, s := range r.sections {
		if s.PeriodID == periodID {
			c.Total++
			if s.Completed {
				c.Completed++
			}
		}
	}
	return c, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOpen_SeedsChecklistAndOpens(t *testing.T) {
	repo := newFakePeriodRepo()
	planning := newFakePlanningRepo()
	svc := NewService(repo, planning, fakeTxManager{})

	clientID := id.New()
	period := NewAccountingPeriod(clientID, "FY2026", date(2026, 1, 1), date(2026, 12, 31))

	require.NoError(t, svc.Open(context.Background(), period))

	stored, err := repo.GetByID(context.Background(), period.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, stored.Status)

	sections, err := planning.List(context.Background(), period.ID)
	require.NoError(t, err)
	assert.Len(t, sections, len(DefaultPlanningSections))
	for _, s := range sections {
		assert.False(t, s.Completed)
	}
}

func TestOpen_SecondOpenPeriodRejected(t *testing.T) {
	repo := newFakePeriodRepo()
	planning := newFakePlanningRepo()
	svc := NewService(repo, planning, fakeTxManager{})

	clientID := id.New()
	first := NewAccountingPeriod(clientID, "FY2026", date(2026, 1, 1), date(2026, 12, 31))
	require.NoError(t, svc.Open(context.Background(), first))

	second := NewAccountingPeriod(clientID, "FY2027", date(2027, 1, 1), date(2027, 12, 31))
	err := svc.Open(context.Background(), second)

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, first.ID.String(), appErr.Details["openPeriodId"])
}

func TestOpen_OtherClientUnaffected(t *testing.T) {
	repo := newFakePeriodRepo()
	svc := NewService(repo, newFakePlanningRepo(), fakeTxManager{})

	require.NoError(t, svc.Open(context.Background(),
		NewAccountingPeriod(id.New(), "FY2026", date(2026, 1, 1), date(2026, 12, 31))))
	require.NoError(t, svc.Open(context.Background(),
		NewAccountingPeriod(id.New(), "FY2026", date(2026, 1, 1), date(2026, 12, 31))))
}

func TestOpen_ValidationErrors(t *testing.T) {
	svc := NewService(newFakePeriodRepo(), newFakePlanningRepo(), fakeTxManager{})

	tests := []struct {
		name   string
		period *AccountingPeriod
	}{
		{
			name:   "missing client",
			period: NewAccountingPeriod(id.Nil(), "FY2026", date(2026, 1, 1), date(2026, 12, 31)),
		},
		{
			name:   "missing name",
			period: NewAccountingPeriod(id.New(), "", date(2026, 1, 1), date(2026, 12, 31)),
		},
		{
			name:   "inverted dates",
			period: NewAccountingPeriod(id.New(), "FY2026", date(2026, 12, 31), date(2026, 1, 1)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Open(context.Background(), tt.period)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
		})
	}
}

func TestCurrent_ReturnsOpenPeriod(t *testing.T) {
	repo := newFakePeriodRepo()
	svc := NewService(repo, newFakePlanningRepo(), fakeTxManager{})

	clientID := id.New()
	period := NewAccountingPeriod(clientID, "FY2026", date(2026, 1, 1), date(2026, 12, 31))
	require.NoError(t, svc.Open(context.Background(), period))

	current, err := svc.Current(context.Background(), clientID)
	require.NoError(t, err)
	assert.Equal(t, period.ID, current.ID)
}

func TestSetSectionCompleted_TogglesWhileOpen(t *testing.T) {
	repo := newFakePeriodRepo()
	planning := newFakePlanningRepo()
	svc := NewService(repo, planning, fakeTxManager{})

	clientID := id.New()
	period := NewAccountingPeriod(clientID, "FY2026", date(2026, 1, 1), date(2026, 12, 31))
	require.NoError(t, svc.Open(context.Background(), period))

	sections, err := planning.List(context.Background(), period.ID)
	require.NoError(t, err)
	require.NotEmpty(t, sections)

	require.NoError(t, svc.SetSectionCompleted(context.Background(), period.ID, sections[0].ID, true))

	completion, err := planning.Completion(context.Background(), period.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, completion.Completed)
	assert.Equal(t, len(DefaultPlanningSections), completion.Total)
}

func TestSetSectionCompleted_ClosedPeriodRejected(t *testing.T) {
	repo := newFakePeriodRepo()
	planning := newFakePlanningRepo()
	svc := NewService(repo, planning, fakeTxManager{})

	clientID := id.New()
	period := NewAccountingPeriod(clientID, "FY2026", date(2026, 1, 1), date(2026, 12, 31))
	require.NoError(t, svc.Open(context.Background(), period))
	require.NoError(t, repo.UpdateStatus(context.Background(), period.ID, StatusOpen, StatusClosed))

	sections, err := planning.List(context.Background(), period.ID)
	require.NoError(t, err)

	err = svc.SetSectionCompleted(context.Background(), period.ID, sections[0].ID, true)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodePeriodNotOpen))
}

func TestContains_InclusiveBounds(t *testing.T) {
	period := NewAccountingPeriod(id.New(), "FY2026", date(2026, 1, 1), date(2026, 12, 31))

	assert.True(t, period.Contains(date(2026, 1, 1)))
	assert.True(t, period.Contains(date(2026, 12, 31)))
	assert.False(t, period.Contains(date(2025, 12, 31)))
	assert.False(t, period.Contains(date(2027, 1, 1)))
}

func TestDays(t *testing.T) {
	assert.Equal(t, 365,
		NewAccountingPeriod(id.New(), "FY2026", date(2026, 1, 1), date(2026, 12, 31)).Days())
	assert.Equal(t, 366,
		NewAccountingPeriod(id.New(), "FY2028", date(2028, 1, 1), date(2028, 12, 31)).Days())
	assert.Equal(t, 1,
		NewAccountingPeriod(id.New(), "one day", date(2026, 5, 5), date(2026, 5, 5)).Days())
}

func TestCompletion_EmptyChecklistIsComplete(t *testing.T) {
	assert.True(t, Completion{}.IsComplete())
	assert.False(t, Completion{Completed: 2, Total: 5}.IsComplete())
	assert.True(t, Completion{Completed: 5, Total: 5}.IsComplete())
}
