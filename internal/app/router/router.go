package router

import (
	tickerhandler "market_backend/internal/feature/ticker/transport/handler"
	"market_backend/internal/platform/http/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(ticker *tickerhandler.TickerHandler) *gin.Engine {
	r := gin.Default()
	// CORS のデフォルト設定を有効
	r.Use(cors.Default())

	// 導通確認用
	r.GET("/healthz", handler.Health)

	// 全マーケットの最新スナップショット（差分購読前の初期状態取得用）
	r.GET("/ticker", ticker.GetSnapshotHandler)
	// 差分ティッカーのSSEストリーム
	r.GET("/ticker/stream", ticker.StreamHandler)

	return r
}
