// Package dto defines data transfer objects for the Upbit ticker API responses.
package dto

import "encoding/json"

// TickerResponse represents one element of the JSON array returned by the
// Upbit /v1/ticker endpoint. Numeric fields are decoded as json.Number so
// they can be re-parsed into arbitrary-precision decimals without a float64
// round trip.
type TickerResponse struct {
	Market             string      `json:"market"`
	TradeDate          string      `json:"trade_date"`
	TradeTime          string      `json:"trade_time"`
	TradeDateKST       string      `json:"trade_date_kst"`
	TradeTimeKST       string      `json:"trade_time_kst"`
	TradeTimestamp     int64       `json:"trade_timestamp"`
	OpeningPrice       json.Number `json:"opening_price"`
	HighPrice          json.Number `json:"high_price"`
	LowPrice           json.Number `json:"low_price"`
	TradePrice         json.Number `json:"trade_price"`
	PrevClosingPrice   json.Number `json:"prev_closing_price"`
	Change             string      `json:"change"`
	SignedChangePrice  json.Number `json:"signed_change_price"`
	SignedChangeRate   json.Number `json:"signed_change_rate"`
	TradeVolume        json.Number `json:"trade_volume"`
	AccTradePrice      json.Number `json:"acc_trade_price"`
	AccTradePrice24h   json.Number `json:"acc_trade_price_24h"`
	AccTradeVolume     json.Number `json:"acc_trade_volume"`
	AccTradeVolume24h  json.Number `json:"acc_trade_volume_24h"`
	Highest52WeekPrice json.Number `json:"highest_52_week_price"`
	Highest52WeekDate  string      `json:"highest_52_week_date"`
	Lowest52WeekPrice  json.Number `json:"lowest_52_week_price"`
	Lowest52WeekDate   string      `json:"lowest_52_week_date"`
	Timestamp          int64       `json:"timestamp"`
}
