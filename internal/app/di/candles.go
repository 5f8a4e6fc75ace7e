package di

import (
	"github.com/redis/go-redis/v9"

	"market_backend/internal/feature/dailycandle/adapters"
	dailyusecase "market_backend/internal/feature/dailycandle/usecase"
	tickerusecase "market_backend/internal/feature/ticker/usecase"
)

// NewCandleMerger creates the daily-candle merge usecase on the shared Redis
// store. If Redis is unavailable, it returns nil and the merge step is
// disabled; the ticker stream keeps running without it.
func NewCandleMerger(rdb *redis.Client) tickerusecase.CandleMerger {
	if rdb == nil {
		return nil
	}
	repo := adapters.NewDailyCandleRedis(rdb, 0)
	return dailyusecase.NewMergeUsecase(repo)
}
