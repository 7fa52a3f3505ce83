// Package periods owns the AccountingPeriod lifecycle.
//
// A period moves PLANNED → OPEN → CLOSING → CLOSED. Exactly one period per
// client is OPEN at any time; "current" is derived from that status, not
// stored as a flag (a partial unique index enforces it).
package periods

import (
	"context"
	"time"

	"assetbook/internal/core/apperror"
	"assetbook/internal/core/id"
)

// Status is the lifecycle state of an accounting period.
type Status string

const (
	StatusPlanned Status = "PLANNED"
	StatusOpen    Status = "OPEN"
	StatusClosing Status = "CLOSING"
	StatusClosed  Status = "CLOSED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusOpen, StatusClosing, StatusClosed:
		return true
	}
	return false
}

// AccountingPeriod is one client accounting period.
type AccountingPeriod struct {
	ID        id.ID     `db:"id" json:"id"`
	ClientID  id.ID     `db:"client_id" json:"clientId"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"startDate"`
	EndDate   time.Time `db:"end_date" json:"endDate"`
	Status    Status    `db:"status" json:"status"`
	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewAccountingPeriod creates a period in PLANNED status.
func NewAccountingPeriod(clientID id.ID, name string, start, end time.Time) *AccountingPeriod {
	now := time.Now().UTC()
	return &AccountingPeriod{
		ID:        id.New(),
		ClientID:  clientID,
		Name:      name,
		StartDate: truncateToDay(start),
		EndDate:   truncateToDay(end),
		Status:    StatusPlanned,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks period invariants.
func (p *AccountingPeriod) Validate(ctx context.Context) error {
	if id.IsNil(p.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return apperror.NewValidation("start and end dates are required").
			WithDetail("field", "startDate")
	}
	if p.StartDate.After(p.EndDate) {
		return apperror.NewValidation("start date must not be after end date").
			WithDetail("startDate", p.StartDate.Format(DateLayout)).
			WithDetail("endDate", p.EndDate.Format(DateLayout))
	}
	if !p.Status.Valid() {
		return apperror.NewValidation("invalid period status").
			WithDetail("status", string(p.Status))
	}
	return nil
}

// IsOpen reports whether the period accepts postings.
func (p *AccountingPeriod) IsOpen() bool {
	return p.Status == StatusOpen
}

// Contains reports whether d (a calendar day) falls within the period, inclusive.
func (p *AccountingPeriod) Contains(d time.Time) bool {
	day := truncateToDay(d)
	return !day.Before(truncateToDay(p.StartDate)) && !day.After(truncateToDay(p.EndDate))
}

// Days returns the number of calendar days in the period, inclusive.
func (p *AccountingPeriod) Days() int {
	return int(truncateToDay(p.EndDate).Sub(truncateToDay(p.StartDate)).Hours()/24) + 1
}

// DateLayout is the wire format for period dates.
const DateLayout = "2006-01-02"

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Day normalizes a timestamp to a UTC calendar day.
func Day(t time.Time) time.Time {
	return truncateToDay(t)
}

// PlanningSection is one item of the pre-close planning checklist.
// Rich planning content lives outside the ledger; close validation only
// needs the completed/total tally.
type PlanningSection struct {
	ID        id.ID     `db:"id" json:"id"`
	ClientID  id.ID     `db:"client_id" json:"clientId"`
	PeriodID  id.ID     `db:"period_id" json:"periodId"`
	Name      string    `db:"name" json:"name"`
	Completed bool      `db:"completed" json:"completed"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Completion is the planning checklist tally for a period.
type Completion struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// IsComplete reports whether every section is done (an empty checklist counts
// as complete).
func (c Completion) IsComplete() bool {
	return c.Completed >= c.Total
}
