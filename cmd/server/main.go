package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	redisv9 "github.com/redis/go-redis/v9"

	"pivot_backend/internal/app/config"
	"pivot_backend/internal/app/di"
	"pivot_backend/internal/app/router"
	instrumentadapters "pivot_backend/internal/feature/instruments/adapters"
	instrumenthandler "pivot_backend/internal/feature/instruments/transport/handler"
	instrumentusecase "pivot_backend/internal/feature/instruments/usecase"
	pivothandler "pivot_backend/internal/feature/pivots/transport/handler"
	pivotusecase "pivot_backend/internal/feature/pivots/usecase"
	infradb "pivot_backend/internal/platform/db"
	platformhandler "pivot_backend/internal/platform/http/handler"
	"pivot_backend/internal/platform/logger"
	"pivot_backend/internal/platform/metrics"
	infraredis "pivot_backend/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Setup(os.Stdout, logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv())
	if err != nil {
		return err
	}

	// Redis（未設定・接続失敗時はキャッシュなしで動作）
	var rdb *redisv9.Client
	if rcfg, err := infraredis.LoadConfig(); err != nil {
		slog.Warn("invalid Redis configuration, running without cache", "error", err)
	} else if rdb, err = infraredis.NewRedisClient(ctx, rcfg); err != nil {
		slog.Warn("Redis unavailable, running without cache")
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Repository
	market, err := di.NewMarket(cfg, db, rdb, m)
	if err != nil {
		return err
	}
	instrumentRepo := instrumentadapters.NewInstrumentRepository(db)

	// Usecase
	instrumentUC := instrumentusecase.NewInstrumentUsecase(instrumentRepo)
	pivotUC := pivotusecase.NewPivotUsecase(market)

	if err := di.SeedFromFile(ctx, instrumentUC, cfg.InstrumentsFile); err != nil {
		return err
	}

	// Handler
	checks := map[string]platformhandler.Check{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// ルータ生成
	r := router.NewRouter(router.Handlers{
		Health:      platformhandler.NewHealthHandler(checks),
		Pivots:      pivothandler.NewPivotHandler(pivotUC, instrumentUC, m),
		Instruments: instrumenthandler.NewInstrumentHandler(instrumentUC),
		Metrics:     metrics.Handler(prometheus.DefaultGatherer),
	}, router.Options{JWTSecret: cfg.JWTSecret, AuthDisabled: cfg.AuthDisabled})

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWTSecret == "" && !cfg.AuthDisabled {
		slog.Warn("JWT_SECRET is not set; authenticated routes will fail")
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "market_source", cfg.MarketSource)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
