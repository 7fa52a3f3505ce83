// Package closing orchestrates the period-close saga.
package closing

import (
	"time"

	"assetbook/internal/core/id"
	"assetbook/internal/core/types"
	"assetbook/internal/domain/periods"
)

// NextPeriod describes the period to open once the current one closes.
type NextPeriod struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// CloseRequest asks to close one period and open the next.
type CloseRequest struct {
	ClientID id.ID      `json:"clientId"`
	PeriodID id.ID      `json:"periodId"`
	Next     NextPeriod `json:"next"`

	// Force overrides an incomplete planning checklist.
	Force bool `json:"force"`
}

// ClosePreview is a dry run of the close: what would happen, and what
// would block it. Nothing is written.
type ClosePreview struct {
	Period     *periods.AccountingPeriod `json:"period"`
	Completion periods.Completion        `json:"completion"`

	// AssetsInScope is the number of balance rows the close would touch.
	AssetsInScope int `json:"assetsInScope"`

	// EstimatedCharge is the total depreciation the final recalculation
	// would post.
	EstimatedCharge types.Money `json:"estimatedCharge"`

	Warnings []string `json:"warnings,omitempty"`
}

// CloseResult reports a committed close.
type CloseResult struct {
	PeriodID     id.ID `json:"periodId"`
	NextPeriodID id.ID `json:"nextPeriodId"`

	// AssetsPosted is the number of assets the final recalculation covered.
	AssetsPosted int `json:"assetsPosted"`

	// RolledForward is the number of balance rows seeded into the next
	// period. Fully disposed assets drop out, so this can be lower than
	// AssetsPosted.
	RolledForward int `json:"rolledForward"`

	TotalCharge types.Money `json:"totalCharge"`
	Warnings    []string    `json:"warnings,omitempty"`
}
