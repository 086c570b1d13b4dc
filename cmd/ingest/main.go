package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"pivot_backend/internal/app/config"
	"pivot_backend/internal/app/di"
	candleadapters "pivot_backend/internal/feature/candles/adapters"
	candleusecase "pivot_backend/internal/feature/candles/usecase"
	instrumentadapters "pivot_backend/internal/feature/instruments/adapters"
	instrumentusecase "pivot_backend/internal/feature/instruments/usecase"
	"pivot_backend/internal/platform/cache"
	infradb "pivot_backend/internal/platform/db"
	"pivot_backend/internal/platform/logger"
	infraredis "pivot_backend/internal/platform/redis"
	"pivot_backend/internal/platform/scheduler"
	"pivot_backend/internal/shared/ratelimiter"
)

// oneShotTimeout は単発実行時の上限です。
const oneShotTimeout = 15 * time.Minute

const ingestJobName = "ingest"

func main() {
	if err := run(); err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
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

	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv())
	if err != nil {
		return err
	}

	// 取り込んだ銘柄のキャッシュを破棄するためにRedisを使う（任意）
	var rdb *redisv9.Client
	if rcfg, err := infraredis.LoadConfig(); err == nil {
		rdb, _ = infraredis.NewRedisClient(ctx, rcfg)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	instrumentUC := instrumentusecase.NewInstrumentUsecase(instrumentadapters.NewInstrumentRepository(db))
	if err := di.SeedFromFile(ctx, instrumentUC, cfg.InstrumentsFile); err != nil {
		return err
	}

	candles := cache.NewInvalidatingCandleRepository(rdb, candleadapters.NewCandleRepository(db), di.CacheNamespace)
	limiter := ratelimiter.NewRateLimiter(cfg.IngestRatePerMinute, time.Minute)
	uc := candleusecase.NewIngestUsecase(di.NewIngestMarket(cfg), candles, limiter)

	job := func(ctx context.Context) error {
		codes, err := instrumentUC.ListActiveCodes(ctx)
		if err != nil {
			return err
		}
		rep, err := uc.IngestAll(ctx, codes)
		slog.Info("ingest finished",
			"succeeded", len(rep.Succeeded),
			"failed", len(rep.Failed),
			"candles", rep.Candles,
		)
		if err != nil {
			return err
		}
		if len(codes) > 0 && len(rep.Succeeded) == 0 {
			return fmt.Errorf("ingest: all %d symbols failed", len(codes))
		}
		return nil
	}

	if cfg.IngestCron == "" {
		ctx, cancel := context.WithTimeout(ctx, oneShotTimeout)
		defer cancel()
		if err := job(ctx); err != nil {
			return err
		}
		return nil
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	s, err := newScheduler(ctx, loc, cfg, job)
	if err != nil {
		return err
	}
	s.Start()
	slog.Info("ingest scheduled", "cron", cfg.IngestCron, "timezone", loc.String())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	s.Stop(stopCtx)
	return nil
}

// newScheduler は取り込みジョブを INGEST_CRON で登録します。
// INGEST_ON_START が有効なら開始前に一度同期実行します。失敗してもスケジュールは続けます。
func newScheduler(ctx context.Context, loc *time.Location, cfg config.Config, job scheduler.Job) (*scheduler.Scheduler, error) {
	s := scheduler.New(ctx, loc)
	if err := s.Register(ingestJobName, cfg.IngestCron, job); err != nil {
		return nil, err
	}
	if cfg.IngestOnStart {
		if err := s.RunNow(ingestJobName); err != nil {
			slog.Warn("initial ingest failed", "error", err)
		}
	}
	return s, nil
}
