// Package di provides dependency injection factories for creating application components.
package di

import (
	"market_backend/internal/platform/externalapi/upbit"
	infrahttp "market_backend/internal/platform/http"
)

// NewUpbitMarket creates a fully configured UpbitMarket with HTTP client.
func NewUpbitMarket(cfg upbit.Config) *upbit.UpbitMarket {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return upbit.NewUpbitMarket(cfg, httpClient)
}
