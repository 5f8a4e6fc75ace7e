package config

import (
	"testing"
	"time"
)

// TestLoad_Defaults はデフォルト値で設定が読み込まれることを検証します。
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.ServerPort)
	}
	if cfg.PollInterval != time.Second {
		t.Errorf("expected default poll interval 1s, got %v", cfg.PollInterval)
	}
	if cfg.Upbit.BaseURL != "https://api.upbit.com" {
		t.Errorf("expected default upbit base URL, got %s", cfg.Upbit.BaseURL)
	}
	if len(cfg.KRWMarkets) == 0 {
		t.Error("expected default KRW markets")
	}
}

// TestLoad_EnvOverride は環境変数による上書きを検証します。
func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TICKER_POLL_INTERVAL", "5s")
	t.Setenv("KRW_MARKETS", "KRW-BTC,KRW-ETH")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.PollInterval != 5*time.Second {
		t.Errorf("expected poll interval 5s, got %v", cfg.PollInterval)
	}
	if len(cfg.KRWMarkets) != 2 || cfg.KRWMarkets[1] != "KRW-ETH" {
		t.Errorf("expected 2 KRW markets, got %v", cfg.KRWMarkets)
	}
}

// TestAppConfig_Partitions はパーティションが決済通貨ごとに列挙され、
// 間隔の1/3ずつオフセットされることを検証します。
func TestAppConfig_Partitions(t *testing.T) {
	t.Parallel()

	cfg := &AppConfig{
		PollInterval: 3 * time.Second,
		KRWMarkets:   []string{"KRW-BTC", "KRW-ETH"},
		BTCMarkets:   []string{"BTC-ETH"},
		USDTMarkets:  []string{"USDT-BTC"},
	}

	parts := cfg.Partitions()
	if len(parts) != 3 {
		t.Fatalf("expected 3 partitions, got %d", len(parts))
	}

	expected := []struct {
		name   string
		offset time.Duration
	}{
		{"KRW", 0},
		{"BTC", time.Second},
		{"USDT", 2 * time.Second},
	}
	for i, want := range expected {
		if parts[i].Name != want.name {
			t.Errorf("partition %d: expected name %s, got %s", i, want.name, parts[i].Name)
		}
		if parts[i].Offset != want.offset {
			t.Errorf("partition %d: expected offset %v, got %v", i, want.offset, parts[i].Offset)
		}
		if parts[i].Interval != cfg.PollInterval {
			t.Errorf("partition %d: expected interval %v, got %v", i, cfg.PollInterval, parts[i].Interval)
		}
	}
}

// TestAppConfig_Partitions_SkipsEmpty はマーケットのないパーティションが
// 生成されないことを検証します。
func TestAppConfig_Partitions_SkipsEmpty(t *testing.T) {
	t.Parallel()

	cfg := &AppConfig{
		PollInterval: 3 * time.Second,
		KRWMarkets:   []string{"KRW-BTC"},
	}

	parts := cfg.Partitions()
	if len(parts) != 1 {
		t.Fatalf("expected 1 partition, got %d", len(parts))
	}
	if parts[0].Name != "KRW" {
		t.Errorf("expected KRW partition, got %s", parts[0].Name)
	}
}
