package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"market_backend/internal/feature/dailycandle/domain/entity"
	tickerentity "market_backend/internal/feature/ticker/domain/entity"
)

// mockDailyCandleRepository はテスト用のDailyCandleRepositoryモック実装です。
type mockDailyCandleRepository struct {
	findFn func(ctx context.Context, exchange, market string) (*entity.DailyCandle, error)
	saved  []*entity.DailyCandle
}

func (m *mockDailyCandleRepository) Find(ctx context.Context, exchange, market string) (*entity.DailyCandle, error) {
	if m.findFn != nil {
		return m.findFn(ctx, exchange, market)
	}
	return nil, nil
}

func (m *mockDailyCandleRepository) Save(_ context.Context, c *entity.DailyCandle) error {
	cp := *c
	m.saved = append(m.saved, &cp)
	return nil
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func storedCandle(high, low, trade int64) *entity.DailyCandle {
	return &entity.DailyCandle{
		Exchange:       "UPBIT",
		Market:         "KRW-BTC",
		OpeningPrice:   d(95),
		HighPrice:      d(high),
		LowPrice:       d(low),
		TradePrice:     d(trade),
		AccTradeVolume: decimal.RequireFromString("12.5"),
	}
}

func mergeTick(high, low, trade int64) tickerentity.MarketTick {
	return tickerentity.MarketTick{
		Market:     "KRW-BTC",
		Exchange:   "UPBIT",
		HighPrice:  d(high),
		LowPrice:   d(low),
		TradePrice: d(trade),
	}
}

// TestMergeUsecase_MergeAll_Monotonic は高値が単調増加・安値が単調減少であることを検証します。
func TestMergeUsecase_MergeAll_Monotonic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		stored       *entity.DailyCandle
		tick         tickerentity.MarketTick
		expectedHigh int64
		expectedLow  int64
	}{
		{
			name:         "inside range leaves high/low unchanged",
			stored:       storedCandle(100, 90, 95),
			tick:         mergeTick(95, 95, 95),
			expectedHigh: 100,
			expectedLow:  90,
		},
		{
			name:         "wider range expands both",
			stored:       storedCandle(100, 90, 95),
			tick:         mergeTick(110, 85, 108),
			expectedHigh: 110,
			expectedLow:  85,
		},
		{
			name:         "new high only",
			stored:       storedCandle(100, 90, 95),
			tick:         mergeTick(105, 92, 105),
			expectedHigh: 105,
			expectedLow:  90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockDailyCandleRepository{
				findFn: func(ctx context.Context, exchange, market string) (*entity.DailyCandle, error) {
					return tt.stored, nil
				},
			}
			m := NewMergeUsecase(repo)

			m.MergeAll(context.Background(), []tickerentity.MarketTick{tt.tick})

			if len(repo.saved) != 1 {
				t.Fatalf("expected 1 save, got %d", len(repo.saved))
			}
			got := repo.saved[0]
			if !got.HighPrice.Equal(d(tt.expectedHigh)) {
				t.Errorf("expected high %d, got %s", tt.expectedHigh, got.HighPrice)
			}
			if !got.LowPrice.Equal(d(tt.expectedLow)) {
				t.Errorf("expected low %d, got %s", tt.expectedLow, got.LowPrice)
			}
		})
	}
}

// TestMergeUsecase_MergeAll_TradePriceReplaceRule は現在値が「動いたときだけ」
// 置き換えられ、同値のときは格納値がそのまま残ることを検証します。
func TestMergeUsecase_MergeAll_TradePriceReplaceRule(t *testing.T) {
	t.Parallel()

	// ストア側は "95.00"、ティッカー側は "95"（数値として等しいが表現が異なる）
	stored := storedCandle(100, 90, 0)
	stored.TradePrice = decimal.RequireFromString("95.00")

	repo := &mockDailyCandleRepository{
		findFn: func(ctx context.Context, exchange, market string) (*entity.DailyCandle, error) {
			return stored, nil
		},
	}
	m := NewMergeUsecase(repo)

	m.MergeAll(context.Background(), []tickerentity.MarketTick{mergeTick(95, 95, 95)})

	if len(repo.saved) != 1 {
		t.Fatalf("expected 1 save, got %d", len(repo.saved))
	}
	// 同値なので置き換えられず、格納されていた表現のまま
	if repo.saved[0].TradePrice.String() != "95.00" {
		t.Errorf("expected stored trade price kept as 95.00, got %s", repo.saved[0].TradePrice)
	}

	// 値が動いた場合はそのまま置き換わる
	m.MergeAll(context.Background(), []tickerentity.MarketTick{mergeTick(96, 95, 96)})
	if got := repo.saved[1].TradePrice; !got.Equal(d(96)) {
		t.Errorf("expected trade price replaced with 96, got %s", got)
	}
}

// TestMergeUsecase_MergeAll_CarriesOtherFieldsThrough は始値などの他フィールドが
// 再計算されずそのまま持ち越されることを検証します。
func TestMergeUsecase_MergeAll_CarriesOtherFieldsThrough(t *testing.T) {
	t.Parallel()

	repo := &mockDailyCandleRepository{
		findFn: func(ctx context.Context, exchange, market string) (*entity.DailyCandle, error) {
			return storedCandle(100, 90, 95), nil
		},
	}
	m := NewMergeUsecase(repo)

	in := mergeTick(110, 85, 108)
	in.OpeningPrice = d(999) // ティッカー側の始値はマージ対象外
	m.MergeAll(context.Background(), []tickerentity.MarketTick{in})

	got := repo.saved[0]
	if !got.OpeningPrice.Equal(d(95)) {
		t.Errorf("expected opening price carried through as 95, got %s", got.OpeningPrice)
	}
	if got.AccTradeVolume.String() != "12.5" {
		t.Errorf("expected acc volume carried through, got %s", got.AccTradeVolume)
	}
}

// TestMergeUsecase_MergeAll_MissingEntryIsSkipped はエントリ未作成のマーケットが
// 黙ってスキップされる（新規作成しない）ことを検証します。
func TestMergeUsecase_MergeAll_MissingEntryIsSkipped(t *testing.T) {
	t.Parallel()

	repo := &mockDailyCandleRepository{} // Find は常に (nil, nil)
	m := NewMergeUsecase(repo)

	m.MergeAll(context.Background(), []tickerentity.MarketTick{mergeTick(100, 90, 95)})

	if len(repo.saved) != 0 {
		t.Errorf("expected no save for missing entry, got %d", len(repo.saved))
	}
}

// TestMergeUsecase_MergeAll_OneFailureDoesNotStopBatch は1件の失敗が
// 他のマーケットのマージを止めないことを検証します。
func TestMergeUsecase_MergeAll_OneFailureDoesNotStopBatch(t *testing.T) {
	t.Parallel()

	repo := &mockDailyCandleRepository{
		findFn: func(ctx context.Context, exchange, market string) (*entity.DailyCandle, error) {
			if market == "KRW-BTC" {
				return nil, errors.New("redis: connection refused")
			}
			c := storedCandle(20, 10, 15)
			c.Market = market
			return c, nil
		},
	}
	m := NewMergeUsecase(repo)

	other := mergeTick(25, 10, 21)
	other.Market = "KRW-ETH"
	m.MergeAll(context.Background(), []tickerentity.MarketTick{mergeTick(110, 85, 100), other})

	if len(repo.saved) != 1 {
		t.Fatalf("expected the healthy market to still merge, got %d saves", len(repo.saved))
	}
	if repo.saved[0].Market != "KRW-ETH" {
		t.Errorf("expected KRW-ETH saved, got %s", repo.saved[0].Market)
	}
}
