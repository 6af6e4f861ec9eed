package pipeline

import (
	"sync/atomic"
	"time"

	"github.com/couchcryptid/skywatch-fusion/internal/domain"
)

// ResultCache holds the latest snapshot. Readers never lock; writers replace
// the snapshot wholesale.
type ResultCache struct {
	snap    atomic.Pointer[domain.Snapshot]
	invalid atomic.Bool
}

// NewResultCache returns an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{}
}

// Load returns the stored snapshot, if any.
func (c *ResultCache) Load() (domain.Snapshot, bool) {
	s := c.snap.Load()
	if s == nil {
		return domain.Snapshot{}, false
	}
	return *s, true
}

// Store replaces the snapshot and clears any pending invalidation.
func (c *ResultCache) Store(s domain.Snapshot) {
	c.snap.Store(&s)
	c.invalid.Store(false)
}

// Invalidate forces the next Fresh check to fail. The snapshot itself stays
// available for stale-keep.
func (c *ResultCache) Invalidate() {
	c.invalid.Store(true)
}

// Fresh reports whether the cached snapshot can be served at now without a
// refresh.
func (c *ResultCache) Fresh(now time.Time, interval time.Duration) bool {
	if c.invalid.Load() {
		return false
	}
	s := c.snap.Load()
	if s == nil || len(s.Events) == 0 {
		return false
	}
	return now.Sub(s.FetchedAt) < interval
}
