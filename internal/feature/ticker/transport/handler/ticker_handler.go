// Package handler はtickerフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"market_backend/internal/feature/ticker/domain/entity"
	"market_backend/internal/feature/ticker/transport/stream"
)

// TickerUsecase はティッカー照会のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TickerUsecase interface {
	Snapshot(exchange string) []entity.MarketTick
}

// TickerHandler はティッカーのスナップショット照会とストリーム購読を処理します。
type TickerHandler struct {
	uc  TickerUsecase
	hub *stream.Hub
}

// NewTickerHandler は指定されたusecaseとhubでTickerHandlerの新しいインスタンスを生成します。
func NewTickerHandler(uc TickerUsecase, hub *stream.Hub) *TickerHandler {
	return &TickerHandler{uc: uc, hub: hub}
}

// GetSnapshotHandler は現在キャッシュされている全マーケットの最新ティッカーを返します。
// 接続直後のクライアントが差分購読を始める前の初期状態として利用します。
//
// エンドポイント例:
// GET /ticker?exchange=UPBIT
func (h *TickerHandler) GetSnapshotHandler(c *gin.Context) {
	exchange := c.Query("exchange")
	ticks := h.uc.Snapshot(exchange)
	c.JSON(http.StatusOK, ticks)
}

// StreamHandler は差分ティッカーのSSEストリームを配信します。
// 1サイクルにつき最大1メッセージ（変化したティッカーのバッチ）を送ります。
//
// エンドポイント例:
// GET /ticker/stream
func (h *TickerHandler) StreamHandler(c *gin.Context) {
	id, ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(id)

	c.Header("Cache-Control", "no-store")

	c.Stream(func(w io.Writer) bool {
		select {
		case batch, ok := <-ch:
			if !ok {
				// 配信に追いつけずhubから切断された
				return false
			}
			c.SSEvent("ticker", batch)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
