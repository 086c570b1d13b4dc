// Package http はプラットフォーム共通のHTTPクライアントとミドルウェアを提供します。
package http

import (
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	defaultClientTimeout = 10 * time.Second
	dialTimeout          = 5 * time.Second
	maxIdleConnsPerHost  = 10
)

// NewHTTPClient は市場データAPI呼び出し用のクライアントを作成します。
// timeout が0以下の場合は10秒を使います。http.DefaultClientにはタイムアウトがありません。
// 各リクエストは所要時間とステータスを debug レベルで記録します。
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: dialTimeout,
	}
	return &http.Client{Timeout: timeout, Transport: &loggingTransport{next: base}}
}

// loggingTransport は上流APIの呼び出しを記録します。クエリ文字列はAPIキーを含むため出力しません。
type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	res, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		slog.Warn("upstream request failed", "host", req.URL.Host, "path", req.URL.Path, "duration", elapsed, "error", err)
		return nil, err
	}
	slog.Debug("upstream request", "host", req.URL.Host, "path", req.URL.Path, "status", res.StatusCode, "duration", elapsed)
	return res, nil
}
