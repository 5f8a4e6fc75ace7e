// Package adapters provides storage implementations for the dailycandle feature.
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"market_backend/internal/feature/dailycandle/domain/entity"
	"market_backend/internal/feature/dailycandle/usecase"
)

// DefaultTTL is the fixed expiry window applied on every write. It
// deliberately outlives 24h so an entry created near midnight survives into
// the next calendar day for trailing writers.
const DefaultTTL = 48 * time.Hour

// DailyCandleRedis implements usecase.DailyCandleRepository on the shared
// Redis store. The entry itself is owned by an external day-rollover writer;
// this adapter never creates or deletes it.
type DailyCandleRedis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ usecase.DailyCandleRepository = (*DailyCandleRedis)(nil)

// NewDailyCandleRedis creates a new DailyCandleRedis instance.
// If ttl is 0 or negative, DefaultTTL is used.
func NewDailyCandleRedis(client *redis.Client, ttl time.Duration) *DailyCandleRedis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DailyCandleRedis{client: client, ttl: ttl}
}

// candleKey returns the shared-store key for one (exchange, market) pair.
func candleKey(exchange, market string) string {
	return fmt.Sprintf("daily-candle:%s:%s", exchange, market)
}

// Find returns the current daily candle for the key, or (nil, nil) when no
// entry exists. A missing entry is not an error: the day-rollover writer may
// simply not have produced it yet.
func (r *DailyCandleRedis) Find(ctx context.Context, exchange, market string) (*entity.DailyCandle, error) {
	data, err := r.client.Get(ctx, candleKey(exchange, market)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var c entity.DailyCandle
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal daily candle: %w", err)
	}
	return &c, nil
}

// Save writes the candle back with the TTL window refreshed to the fixed
// duration. The TTL is never shortened below or extended beyond that window.
func (r *DailyCandleRedis) Save(ctx context.Context, c *entity.DailyCandle) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal daily candle: %w", err)
	}
	return r.client.Set(ctx, candleKey(c.Exchange, c.Market), data, r.ttl).Err()
}
