// Package config はアプリケーション全体の設定を環境変数から読み込みます。
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	tickerusecase "market_backend/internal/feature/ticker/usecase"
	"market_backend/internal/platform/externalapi/upbit"
)

// RedisConfig は共有日足ストア（Redis）への接続設定です。
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
}

// AppConfig はシステム全体の設定です。
type AppConfig struct {
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	// ポーリング設定
	PollInterval time.Duration `envconfig:"TICKER_POLL_INTERVAL" default:"1s"`
	Workers      int           `envconfig:"TICKER_WORKERS" default:"4"`
	RateLimit    int           `envconfig:"UPBIT_RATE_LIMIT" default:"300"` // 1分あたりの上限リクエスト数

	// 購読者ごとの配信バッファ
	SubscriberBuffer int `envconfig:"STREAM_SUBSCRIBER_BUFFER" default:"16"`

	// 決済通貨ごとのマーケット一覧（パーティション分割の単位）
	KRWMarkets  []string `envconfig:"KRW_MARKETS" default:"KRW-BTC,KRW-ETH,KRW-XRP,KRW-SOL,KRW-ADA,KRW-DOGE"`
	BTCMarkets  []string `envconfig:"BTC_MARKETS" default:"BTC-ETH,BTC-XRP,BTC-SOL"`
	USDTMarkets []string `envconfig:"USDT_MARKETS" default:"USDT-BTC,USDT-ETH"`

	Upbit upbit.Config // ネストされた構造体も、タグに従って自動で読み込まれます
	Redis RedisConfig
}

// Load は環境変数から設定を自動でマッピングして返します。
func Load() (*AppConfig, error) {
	// .envファイルがあれば読み込む。本番環境など存在しない場合もあるためエラーは無視する
	_ = godotenv.Load()

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Partitions は起動時に列挙する、決済通貨ごとのポーリングパーティションを返します。
// 各パーティションは間隔の1/3ずつオフセットして起動し、上流への負荷を時間的に分散します。
func (c *AppConfig) Partitions() []tickerusecase.Partition {
	defs := []struct {
		name    string
		markets []string
	}{
		{"KRW", c.KRWMarkets},
		{"BTC", c.BTCMarkets},
		{"USDT", c.USDTMarkets},
	}

	step := c.PollInterval / 3
	parts := make([]tickerusecase.Partition, 0, len(defs))
	for i, d := range defs {
		if len(d.markets) == 0 {
			continue
		}
		parts = append(parts, tickerusecase.Partition{
			Name:     d.name,
			Markets:  d.markets,
			Interval: c.PollInterval,
			Offset:   time.Duration(i) * step,
		})
	}
	return parts
}
