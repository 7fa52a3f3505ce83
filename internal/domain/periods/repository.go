package periods

import (
	"context"
	"time"

	"assetbook/internal/core/id"
)

// Repository is the persistence contract for accounting periods.
type Repository interface {
	Create(ctx context.Context, period *AccountingPeriod) error
	GetByID(ctx context.Context, periodID id.ID) (*AccountingPeriod, error)

	// GetOpenByClient returns the unique OPEN period for a client.
	GetOpenByClient(ctx context.Context, clientID id.ID) (*AccountingPeriod, error)

	// GetPreceding returns the latest period ending before the given start date.
	GetPreceding(ctx context.Context, clientID id.ID, before time.Time) (*AccountingPeriod, error)

	ListByClient(ctx context.Context, clientID id.ID) ([]AccountingPeriod, error)

	// UpdateStatus transitions a period from one status to another.
	// The from-status is part of the WHERE clause: a stale caller gets
	// zero rows and a PERIOD_NOT_OPEN / CONCURRENT_MODIFICATION error
	// instead of silently overwriting.
	UpdateStatus(ctx context.Context, periodID id.ID, from, to Status) error
}

// PlanningRepository is the persistence contract for the planning checklist.
type PlanningRepository interface {
	Seed(ctx context.Context, sections []PlanningSection) error
	List(ctx context.Context, periodID id.ID) ([]PlanningSection, error)
	SetCompleted(ctx context.Context, sectionID id.ID, completed bool) error

	// Completion returns the completed/total tally for a period.
	Completion(ctx context.Context, periodID id.ID) (Completion, error)
}
