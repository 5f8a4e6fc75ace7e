package usecase

import (
	"sync"

	"market_backend/internal/feature/ticker/domain/entity"
)

// DeltaFilter decides which ticks of a cycle carry new information. It keeps
// a per-market cursor of the last broadcast trade timestamp; only ticks whose
// timestamp is strictly greater pass. Equal timestamps never count as a
// change, which prevents re-broadcast storms when upstream resends unmodified
// data.
type DeltaFilter struct {
	mu      sync.Mutex
	cursors map[string]int64 // market -> last broadcast trade timestamp (ms)
}

// NewDeltaFilter creates a DeltaFilter with no cursors set.
func NewDeltaFilter() *DeltaFilter {
	return &DeltaFilter{cursors: make(map[string]int64)}
}

// Filter returns the subset of ticks that are new relative to the cursor, in
// input order, and advances the cursor for each accepted tick. A market with
// no cursor yet always passes.
func (f *DeltaFilter) Filter(ticks []entity.MarketTick) []entity.MarketTick {
	if len(ticks) == 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	delta := make([]entity.MarketTick, 0, len(ticks))
	for _, t := range ticks {
		last, seen := f.cursors[t.Market]
		if seen && t.TradeTimestampMs <= last {
			continue
		}
		f.cursors[t.Market] = t.TradeTimestampMs
		delta = append(delta, t)
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}
