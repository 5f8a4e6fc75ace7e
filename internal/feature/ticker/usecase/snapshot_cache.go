package usecase

import (
	"sync"

	"market_backend/internal/feature/ticker/domain/entity"
)

// SnapshotCache holds the latest known tick per market for full-state queries.
// Entries live for the process lifetime: a market that stops reporting retains
// its last known value rather than disappearing.
type SnapshotCache struct {
	mu    sync.RWMutex
	ticks map[string]entity.MarketTick
}

// NewSnapshotCache creates an empty SnapshotCache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{ticks: make(map[string]entity.MarketTick)}
}

// UpdateAll upserts a whole cycle's batch under a single write lock, so a
// reader never observes a partially-applied cycle. Every tick overwrites the
// previous entry for its market regardless of whether it is new information.
func (c *SnapshotCache) UpdateAll(ticks []entity.MarketTick) {
	if len(ticks) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range ticks {
		c.ticks[t.Market] = t
	}
}

// GetAll returns a point-in-time copy of the cache contents, optionally
// filtered by exchange. An empty exchange returns everything.
func (c *SnapshotCache) GetAll(exchange string) []entity.MarketTick {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]entity.MarketTick, 0, len(c.ticks))
	for _, t := range c.ticks {
		if exchange != "" && t.Exchange != exchange {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Len returns the number of markets currently cached.
func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ticks)
}
