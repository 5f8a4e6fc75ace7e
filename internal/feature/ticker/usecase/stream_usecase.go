package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"market_backend/internal/feature/ticker/domain/entity"
	"market_backend/internal/shared/ratelimiter"
)

// Partition は1つのスケジュール単位でまとめてポーリングするマーケットの集合です。
// マーケットは決済通貨（KRW/BTC/USDTなど）で分割し、1リクエストのサイズを抑えつつ
// オフセットで上流への負荷を時間的に分散させます。
type Partition struct {
	Name     string        // パーティション識別子（例: "KRW"）
	Markets  []string      // このパーティションに属するマーケットコード
	Interval time.Duration // ポーリング間隔
	Offset   time.Duration // 初回起動までのオフセット
}

// MarketRepository はティッカーデータを取得するリポジトリのインターフェイスです。
// 外部 API の実装を抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	GetTickers(ctx context.Context, markets []string) ([]entity.MarketTick, error)
}

// Broadcaster は1サイクル分の差分ティッカーを購読者に配信するインターフェイスです。
type Broadcaster interface {
	Publish(ticks []entity.MarketTick)
}

// CandleMerger はサイクルのティッカーをその日のローソク足集計へ反映するインターフェイスです。
type CandleMerger interface {
	MergeAll(ctx context.Context, ticks []entity.MarketTick)
}

// StreamUsecase は1サイクル分の 取得→正規化→キャッシュ更新→差分抽出→配信→日足マージ
// のパイプラインを実行するユースケースです。
type StreamUsecase struct {
	market      MarketRepository
	cache       *SnapshotCache
	filter      *DeltaFilter
	broadcaster Broadcaster
	candles     CandleMerger
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewStreamUsecase は新しい StreamUsecase を作成します。
// candles が nil の場合、日足マージは無効になります（Redis未接続時のフォールバック）。
func NewStreamUsecase(market MarketRepository, cache *SnapshotCache, filter *DeltaFilter,
	broadcaster Broadcaster, candles CandleMerger, rateLimiter ratelimiter.RateLimiterInterface) *StreamUsecase {
	return &StreamUsecase{
		market:      market,
		cache:       cache,
		filter:      filter,
		broadcaster: broadcaster,
		candles:     candles,
		rateLimiter: rateLimiter,
	}
}

// RunCycle は1パーティション分のサイクルを実行します。
//
// エラーになったサイクルは no-op です: キャッシュもカーソルも日足も一切変更せず、
// 次のサイクルで自然に回復します。キャンセル済みコンテキストで到着した遅延レスポンスは
// 破棄され、どのキャッシュにも反映されません。
func (u *StreamUsecase) RunCycle(ctx context.Context, p Partition) {
	if u.rateLimiter != nil {
		u.rateLimiter.WaitIfNeeded()
	}

	ticks, err := u.market.GetTickers(ctx, p.Markets)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// 次サイクル開始時に破棄された旧リクエスト
			slog.Debug("stale fetch discarded", "partition", p.Name)
			return
		}
		slog.Warn("ticker fetch failed, skipping cycle", "partition", p.Name, "error", err)
		return
	}
	// フェッチ完了とキャッシュ反映の間にキャンセルされた場合も破棄する
	if ctx.Err() != nil {
		slog.Debug("stale fetch result discarded", "partition", p.Name)
		return
	}
	if len(ticks) == 0 {
		return
	}

	// スナップショットは差分の有無に関係なく常に上書き
	u.cache.UpdateAll(ticks)

	// タイムスタンプが進んだものだけを1バッチで配信
	if delta := u.filter.Filter(ticks); len(delta) > 0 {
		u.broadcaster.Publish(delta)
	}

	// 同じバッチを日足集計へ反映（配信の成否には依存しない）
	if u.candles != nil {
		u.candles.MergeAll(ctx, ticks)
	}
}

// Snapshot は現在キャッシュされている全ティッカーを返します。
// 接続直後のコンシューマが差分購読を始める前の初期状態として利用します。
func (u *StreamUsecase) Snapshot(exchange string) []entity.MarketTick {
	return u.cache.GetAll(exchange)
}
