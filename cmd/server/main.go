package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"market_backend/internal/app/di"
	"market_backend/internal/app/router"
	tickerhandler "market_backend/internal/feature/ticker/transport/handler"
	"market_backend/internal/feature/ticker/transport/stream"
	tickerusecase "market_backend/internal/feature/ticker/usecase"
	"market_backend/internal/platform/config"
	infraredis "market_backend/internal/platform/redis"
	"market_backend/internal/shared/ratelimiter"
)

func main() {
	// 設定読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Redis（共有日足ストア）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(cfg.Redis); err != nil {
		log.Println("[WARN] Redis unavailable. Running without daily candle merge.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	market := di.NewUpbitMarket(cfg.Upbit)

	// プロセス共有状態（起動時に一度だけ初期化し、停止まで破棄しない）
	cache := tickerusecase.NewSnapshotCache()
	filter := tickerusecase.NewDeltaFilter()
	hub := stream.NewHub(cfg.SubscriberBuffer)

	// Usecase
	merger := di.NewCandleMerger(rdb)
	limiter := ratelimiter.NewRateLimiter(cfg.RateLimit, time.Minute)
	streamUC := tickerusecase.NewStreamUsecase(market, cache, filter, hub, merger, limiter)

	// Scheduler起動（SIGINT/SIGTERMで停止）
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := tickerusecase.NewScheduler(tickerusecase.SchedulerConfig{
		Partitions: cfg.Partitions(),
		Workers:    cfg.Workers,
	}, streamUC)
	sched.Start(ctx)

	// Handler / Router
	tickerH := tickerhandler.NewTickerHandler(streamUC, hub)
	r := router.NewRouter(tickerH)

	srv := &http.Server{Addr: ":" + cfg.ServerPort, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()

	// 進行中のサイクルを破棄してから HTTP サーバを落とす
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("[ERROR] Server shutdown:", err)
	}
}
