// Package entity defines the domain models for the ticker feature.
package entity

import "github.com/shopspring/decimal"

// MarketTick represents one price observation for a trading pair as reported
// by the upstream exchange. All prices and volumes are arbitrary-precision
// decimals so repeated merges never accumulate rounding drift.
type MarketTick struct {
	Market   string `json:"market"`   // Exchange-qualified symbol (e.g., "KRW-BTC")
	Exchange string `json:"exchange"` // Source exchange (e.g., "UPBIT")

	TradeDateUTC string `json:"trade_date"`     // Trade date at the exchange (UTC, "20060102")
	TradeTimeUTC string `json:"trade_time"`     // Trade time at the exchange (UTC, "150405")
	TradeDateKST string `json:"trade_date_kst"` // Trade date in local (KST) time
	TradeTimeKST string `json:"trade_time_kst"` // Trade time in local (KST) time

	// TradeTimestampMs is the upstream event time in milliseconds. It is
	// non-decreasing per market within one upstream session; a tick whose
	// timestamp is not strictly greater than the last one seen for the same
	// market carries no new information.
	TradeTimestampMs int64 `json:"trade_timestamp"`

	OpeningPrice     decimal.Decimal `json:"opening_price"`
	HighPrice        decimal.Decimal `json:"high_price"`
	LowPrice         decimal.Decimal `json:"low_price"`
	TradePrice       decimal.Decimal `json:"trade_price"`
	PrevClosingPrice decimal.Decimal `json:"prev_closing_price"`

	Change            string          `json:"change"` // RISE / EVEN / FALL
	SignedChangePrice decimal.Decimal `json:"signed_change_price"`
	SignedChangeRate  decimal.Decimal `json:"signed_change_rate"`

	TradeVolume       decimal.Decimal `json:"trade_volume"`
	AccTradePrice     decimal.Decimal `json:"acc_trade_price"`
	AccTradePrice24h  decimal.Decimal `json:"acc_trade_price_24h"`
	AccTradeVolume    decimal.Decimal `json:"acc_trade_volume"`
	AccTradeVolume24h decimal.Decimal `json:"acc_trade_volume_24h"`

	Highest52WeekPrice decimal.Decimal `json:"highest_52_week_price"`
	Highest52WeekDate  string          `json:"highest_52_week_date"`
	Lowest52WeekPrice  decimal.Decimal `json:"lowest_52_week_price"`
	Lowest52WeekDate   string          `json:"lowest_52_week_date"`
}
