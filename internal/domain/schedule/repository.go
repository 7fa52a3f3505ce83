package schedule

import (
	"context"

	"assetbook/internal/core/id"
)

// Repository reads the joined schedule rows for a period.
type Repository interface {
	// ListRows returns one row per asset balance in the period, joined
	// with asset and category master data, ordered by category code then
	// asset code.
	ListRows(ctx context.Context, clientID, periodID id.ID) ([]Row, error)
}
