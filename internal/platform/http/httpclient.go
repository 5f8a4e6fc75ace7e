package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は上流取引所API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Dialer.Timeout: TCP接続タイムアウト（ポーリング間隔より短く保つ）
//   - Dialer.KeepAlive: 再利用可能なTCP接続の維持期間
//   - MaxIdleConns / IdleConnTimeout: 高頻度ポーリングで接続を使い回すための設定
//   - Client.Timeout: リクエスト全体のタイムアウト（呼び出し元から渡される）
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にカスタムクライアントを使用すること
//   - タイムアウト超過はサイクルエラーとして扱われ、次のサイクルで回復する
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
