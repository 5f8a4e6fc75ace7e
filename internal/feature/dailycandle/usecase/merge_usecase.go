package usecase

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"market_backend/internal/feature/dailycandle/domain/entity"
	tickerentity "market_backend/internal/feature/ticker/domain/entity"
)

// DailyCandleRepository は共有TTLストア上の日足エントリへのアクセスを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type DailyCandleRepository interface {
	// Find はエントリが存在しない場合 (nil, nil) を返します。
	Find(ctx context.Context, exchange, market string) (*entity.DailyCandle, error)
	Save(ctx context.Context, c *entity.DailyCandle) error
}

// MergeUsecase はティッカーのバッチを「当日の足」集計へ畳み込むユースケースです。
//
// エントリの生成と失効は外部のデイリーロールオーバージョブが所有しており、
// ここでは高値・安値・現在値の3フィールドだけを read-modify-write します。
// ストアは外部ライターと共有のため、読みと書きの間にエントリが書き換えられて
// 更新が失われることがありますが、高値・安値は単調な畳み込みなので
// 次のサイクルで自己修復します。
type MergeUsecase struct {
	repo DailyCandleRepository
}

// NewMergeUsecase は新しい MergeUsecase を作成します。
func NewMergeUsecase(repo DailyCandleRepository) *MergeUsecase {
	return &MergeUsecase{repo: repo}
}

// MergeAll はサイクルの全ティッカーをマーケットごとに独立してマージします。
// 1件の失敗は他のマーケットの処理を止めません。
func (m *MergeUsecase) MergeAll(ctx context.Context, ticks []tickerentity.MarketTick) {
	for _, t := range ticks {
		if err := m.mergeOne(ctx, t); err != nil {
			slog.Warn("failed to merge daily candle", "market", t.Market, "error", err)
		}
	}
}

// mergeOne は1ティッカー分のマージを行います。エントリが存在しない場合は no-op です。
func (m *MergeUsecase) mergeOne(ctx context.Context, t tickerentity.MarketTick) error {
	c, err := m.repo.Find(ctx, t.Exchange, t.Market)
	if err != nil {
		return err
	}
	if c == nil {
		// エントリの生成は外部ジョブの責務なので、存在しなければ何もしない
		return nil
	}

	// 高値は単調増加、安値は単調減少
	c.HighPrice = maxPresent(c.HighPrice, t.HighPrice)
	c.LowPrice = minPresent(c.LowPrice, t.LowPrice)

	// 現在値は動いたときだけ置き換える
	if !t.TradePrice.Equal(c.TradePrice) {
		c.TradePrice = t.TradePrice
	}

	// 始値や累積出来高などの他フィールドはそのまま持ち越し、TTLだけ更新して書き戻す
	return m.repo.Save(ctx, c)
}

// maxPresent は両方存在すれば大きい方、片方だけならその値を返します。
// ゼロ値は「未設定」を意味します。
func maxPresent(a, b decimal.Decimal) decimal.Decimal {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	return decimal.Max(a, b)
}

// minPresent は両方存在すれば小さい方、片方だけならその値を返します。
func minPresent(a, b decimal.Decimal) decimal.Decimal {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	return decimal.Min(a, b)
}
