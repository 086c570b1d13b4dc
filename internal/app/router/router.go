// Package router はHTTPルーティングを組み立てます。
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	instrumenthandler "pivot_backend/internal/feature/instruments/transport/handler"
	pivothandler "pivot_backend/internal/feature/pivots/transport/handler"
	platformhandler "pivot_backend/internal/platform/http/handler"
	"pivot_backend/internal/platform/http/middleware"
	jwtmw "pivot_backend/internal/platform/jwt"
)

// Handlers はルーターに登録するハンドラーの一覧です。
type Handlers struct {
	Health      *platformhandler.HealthHandler
	Pivots      *pivothandler.PivotHandler
	Instruments *instrumenthandler.InstrumentHandler
	Metrics     http.Handler // nil なら /metrics を公開しない
}

// Options はルーターの認証設定です。
type Options struct {
	JWTSecret string
	// AuthDisabled はローカル開発用に認証を外します。
	AuthDisabled bool
}

func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	// 認証必須のルート
	// → リクエストヘッダーに JWT が必要になる
	auth := r.Group("/")
	if !opts.AuthDisabled {
		auth.Use(jwtmw.AuthRequired(opts.JWTSecret))
	}
	{
		auth.GET("/pivots/:code", h.Pivots.Get)
		auth.GET("/timeframes", h.Pivots.Timeframes)
		auth.GET("/instruments", h.Instruments.List)
	}

	return r
}
