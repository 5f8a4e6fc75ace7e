// Package entity defines the domain models for the dailycandle feature.
package entity

import "github.com/shopspring/decimal"

// DailyCandle is the running OHLC aggregate for the current trading day for
// one market. The entry is created by an external day-rollover job and
// expires from the shared store on its own; this service only ever merges
// high/low/trade price into it.
type DailyCandle struct {
	Exchange string `json:"exchange"`
	Market   string `json:"market"`

	// OpeningPrice is set once by the day-rollover writer and never changed
	// here.
	OpeningPrice decimal.Decimal `json:"opening_price"`
	HighPrice    decimal.Decimal `json:"high_price"`
	LowPrice     decimal.Decimal `json:"low_price"`
	TradePrice   decimal.Decimal `json:"trade_price"`

	// Carried through unmodified on every merge.
	PrevClosingPrice  decimal.Decimal `json:"prev_closing_price"`
	SignedChangePrice decimal.Decimal `json:"signed_change_price"`
	SignedChangeRate  decimal.Decimal `json:"signed_change_rate"`
	AccTradePrice     decimal.Decimal `json:"acc_trade_price"`
	AccTradeVolume    decimal.Decimal `json:"acc_trade_volume"`

	Timestamp int64 `json:"timestamp"` // Last update time (ms) recorded by the writer
}
