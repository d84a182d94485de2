// Package cache holds the current snapshot generation and answers filtered,
// sorted read queries without recomputation.
package cache

import (
	"sync"
	"time"

	"dividend-hunter/internal/models"
)

// DefaultTTL is the staleness horizon for read queries.
const DefaultTTL = 24 * time.Hour

// Status describes the usability of the cached snapshot for reads.
type Status string

const (
	// StatusReady means the snapshot is present and fresh.
	StatusReady Status = "ready"
	// StatusStale means a snapshot exists but exceeded the TTL.
	StatusStale Status = "stale"
	// StatusNeedsInit means no snapshot has ever been fetched.
	StatusNeedsInit Status = "needs_initialization"
)

// Cache owns the current snapshot generation exclusively. The snapshot is
// replaced atomically; readers observe either the old generation or the fully
// assembled new one, never a partial state.
type Cache struct {
	mu   sync.RWMutex
	snap *models.Snapshot
	ttl  time.Duration
	now  func() time.Time
}

// New creates a snapshot cache with the given staleness TTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl: ttl,
		now: time.Now,
	}
}

// Replace atomically installs a new snapshot generation. Callers enforce the
// non-empty commit policy; Replace itself swaps whatever it is given.
func (c *Cache) Replace(snap *models.Snapshot) {
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}

// Snapshot returns the current generation and its read status. The returned
// snapshot must be treated as read-only.
func (c *Cache) Snapshot() (*models.Snapshot, Status) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snap == nil {
		return nil, StatusNeedsInit
	}
	if c.now().Sub(c.snap.FetchedAt) >= c.ttl {
		return c.snap, StatusStale
	}
	return c.snap, StatusReady
}

// Status reports snapshot usability without handing out the data.
func (c *Cache) Status() Status {
	_, status := c.Snapshot()
	return status
}
