package upbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"market_backend/internal/feature/ticker/domain/entity"
	"market_backend/internal/feature/ticker/usecase"
	"market_backend/internal/platform/externalapi/upbit/dto"
)

// UpbitMarket はUpbit取引所APIからティッカーデータを取得するMarketRepository実装です。
type UpbitMarket struct {
	cfg    Config
	client *http.Client
}

// UpbitMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*UpbitMarket)(nil)

// NewUpbitMarket は指定された設定とHTTPクライアントでUpbitMarketの新しいインスタンスを生成します。
func NewUpbitMarket(cfg Config, client *http.Client) *UpbitMarket {
	return &UpbitMarket{cfg: cfg, client: client}
}

// GetTickers は指定された全マーケットの最新ティッカーを1回のリクエストで取得し、
// entity.MarketTickのスライスとして返します。
//
// レスポンス全体がデコード不能、またはHTTPエラーの場合はサイクル全体のエラーを返します。
// 配列内の1要素だけが不正な場合は、その要素のみスキップして処理を続けます。
func (u *UpbitMarket) GetTickers(ctx context.Context, markets []string) ([]entity.MarketTick, error) {
	if len(markets) == 0 {
		return nil, fmt.Errorf("upbit: no markets to query")
	}

	q := url.Values{}
	q.Set("markets", strings.Join(markets, ","))

	// URLを生成
	reqURL := fmt.Sprintf("%s/v1/ticker?%s", u.cfg.BaseURL, q.Encode())

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	// リクエストを実行
	res, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("upbit http %d", res.StatusCode)
	}

	// 要素単位でスキップできるよう、まずRawMessageの配列としてデコード
	var raws []json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&raws); err != nil {
		return nil, fmt.Errorf("upbit decode: %w", err)
	}

	ticks := make([]entity.MarketTick, 0, len(raws))
	for _, raw := range raws {
		var d dto.TickerResponse
		if err := json.Unmarshal(raw, &d); err != nil {
			// 1マーケット分の不正データはバッチ全体を失敗させない
			slog.Warn("skipping malformed ticker entry", "error", err)
			continue
		}
		tick, err := u.toMarketTick(d)
		if err != nil {
			slog.Warn("skipping unparseable ticker entry", "market", d.Market, "error", err)
			continue
		}
		ticks = append(ticks, tick)
	}
	return ticks, nil
}

// toMarketTick はUpbitのDTOをドメインエンティティに変換します。
// 価格系フィールドは任意精度のdecimalとしてパースします。
func (u *UpbitMarket) toMarketTick(d dto.TickerResponse) (entity.MarketTick, error) {
	if d.Market == "" {
		return entity.MarketTick{}, fmt.Errorf("missing market code")
	}

	tick := entity.MarketTick{
		Market:            d.Market,
		Exchange:          u.cfg.Exchange,
		TradeDateUTC:      d.TradeDate,
		TradeTimeUTC:      d.TradeTime,
		TradeDateKST:      d.TradeDateKST,
		TradeTimeKST:      d.TradeTimeKST,
		TradeTimestampMs:  d.TradeTimestamp,
		Change:            d.Change,
		Highest52WeekDate: d.Highest52WeekDate,
		Lowest52WeekDate:  d.Lowest52WeekDate,
	}

	// 各フィールドをパース（フィールド名付きでエラーを返す）
	fields := []struct {
		name string
		src  json.Number
		dst  *decimal.Decimal
	}{
		{"opening_price", d.OpeningPrice, &tick.OpeningPrice},
		{"high_price", d.HighPrice, &tick.HighPrice},
		{"low_price", d.LowPrice, &tick.LowPrice},
		{"trade_price", d.TradePrice, &tick.TradePrice},
		{"prev_closing_price", d.PrevClosingPrice, &tick.PrevClosingPrice},
		{"signed_change_price", d.SignedChangePrice, &tick.SignedChangePrice},
		{"signed_change_rate", d.SignedChangeRate, &tick.SignedChangeRate},
		{"trade_volume", d.TradeVolume, &tick.TradeVolume},
		{"acc_trade_price", d.AccTradePrice, &tick.AccTradePrice},
		{"acc_trade_price_24h", d.AccTradePrice24h, &tick.AccTradePrice24h},
		{"acc_trade_volume", d.AccTradeVolume, &tick.AccTradeVolume},
		{"acc_trade_volume_24h", d.AccTradeVolume24h, &tick.AccTradeVolume24h},
		{"highest_52_week_price", d.Highest52WeekPrice, &tick.Highest52WeekPrice},
		{"lowest_52_week_price", d.Lowest52WeekPrice, &tick.Lowest52WeekPrice},
	}
	for _, f := range fields {
		v, err := parseDecimal(f.src)
		if err != nil {
			return entity.MarketTick{}, fmt.Errorf("parse %s %q: %w", f.name, f.src, err)
		}
		*f.dst = v
	}
	return tick, nil
}

// parseDecimal はjson.Numberを任意精度decimalに変換します。空文字（フィールド欠落）はゼロ扱いです。
func parseDecimal(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}
