// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"dividend-hunter/internal/models"
)

// Store persists the current snapshot and the historical trend series. The
// core logic is backend-agnostic: the same refresh and read paths run against
// flat files or an embedded database.
type Store interface {
	// LoadSnapshot returns the persisted snapshot, or (nil, nil) when none
	// has ever been saved.
	LoadSnapshot(ctx context.Context) (*models.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap *models.Snapshot) error

	// LoadHistory returns the persisted per-ticker trend series; an empty
	// map when nothing has been saved.
	LoadHistory(ctx context.Context) (map[string]models.HistoricalSeries, error)
	SaveHistory(ctx context.Context, history map[string]models.HistoricalSeries) error

	Close() error
}
