// Package stream provides the fan-out hub for delta ticker broadcasts.
package stream

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"market_backend/internal/feature/ticker/domain/entity"
)

// Hub fans one batched delta message per cycle out to every live subscriber.
// Delivery is best-effort: a subscriber whose buffer is full is closed and
// dropped so it never blocks delivery to the others.
type Hub struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]chan []entity.MarketTick
	buffer int
}

// NewHub creates a Hub. buffer is the per-subscriber channel capacity;
// values <= 0 default to 16.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[uuid.UUID]chan []entity.MarketTick),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber and returns its ID and delivery
// channel. The channel is closed by Unsubscribe or when the subscriber is
// dropped for falling behind.
func (h *Hub) Subscribe() (uuid.UUID, <-chan []entity.MarketTick) {
	id := uuid.New()
	ch := make(chan []entity.MarketTick, h.buffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown IDs are
// ignored, so unsubscribing after being dropped is safe.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish delivers one cycle's delta batch to every subscriber. An empty
// batch is never sent. Sends never block: a subscriber that cannot keep up
// is dropped.
func (h *Hub) Publish(ticks []entity.MarketTick) {
	if len(ticks) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- ticks:
		default:
			delete(h.subs, id)
			close(ch)
			slog.Warn("dropped slow ticker subscriber", "subscriber", id)
		}
	}
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
