// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"pivot_backend/internal/app/config"
	candleadapters "pivot_backend/internal/feature/candles/adapters"
	"pivot_backend/internal/feature/candles/domain/entity"
	candleusecase "pivot_backend/internal/feature/candles/usecase"
	pivotusecase "pivot_backend/internal/feature/pivots/usecase"
	"pivot_backend/internal/platform/cache"
	"pivot_backend/internal/platform/externalapi/twelvedata"
	"pivot_backend/internal/platform/externalapi/yahoo"
	infrahttp "pivot_backend/internal/platform/http"
	"pivot_backend/internal/platform/metrics"
)

// CacheNamespace is the Redis key prefix shared by the read cache and ingest invalidation.
const CacheNamespace = "bars"

// NewTwelveDataMarket creates a fully configured TwelveDataMarket with HTTP client.
func NewTwelveDataMarket() *twelvedata.TwelveDataMarket {
	cfg := twelvedata.LoadConfig()
	return twelvedata.NewTwelveDataMarket(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
}

// NewYahooMarket creates a YahooMarket with HTTP client.
func NewYahooMarket() *yahoo.YahooMarket {
	cfg := yahoo.LoadConfig()
	return yahoo.NewYahooMarket(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
}

// NewMarket はMARKET_SOURCEに応じたデータソースを選び、メトリクスとRedisキャッシュでラップします。
// m と rdb は nil でも構いません。MARKET_SOURCE=db の場合は db が必要です。
func NewMarket(cfg config.Config, db *gorm.DB, rdb *redis.Client, m *metrics.Metrics) (pivotusecase.MarketDataRepository, error) {
	var src pivotusecase.MarketDataRepository
	switch cfg.MarketSource {
	case config.SourceTwelveData:
		src = NewTwelveDataMarket()
	case config.SourceYahoo:
		src = NewYahooMarket()
	case config.SourceDB:
		if db == nil {
			return nil, errors.New("MARKET_SOURCE=db requires a database connection")
		}
		src = candleadapters.NewCandleRepository(db)
	default:
		return nil, fmt.Errorf("unsupported MARKET_SOURCE %q", cfg.MarketSource)
	}

	if m != nil {
		src = metrics.NewInstrumentedMarket(src, cfg.MarketSource, m)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return cache.NewCachingMarketRepository(rdb, src, CacheNamespace, cache.RefreshTTL(loc, cfg.CacheRefreshHour)), nil
}

// NewIngestMarket は INGEST_SOURCE に応じた取り込みジョブの取得元を返します。未設定なら Yahoo です。
// Yahoo は件数指定の取得APIを持たないため、期間指定の取得を件数指定に変換します。
func NewIngestMarket(cfg config.Config) candleusecase.MarketRepository {
	if cfg.IngestSource == config.SourceTwelveData {
		return NewTwelveDataMarket()
	}
	return &rangeSeries{market: NewYahooMarket(), now: time.Now}
}

// rangeSeries adapts a range fetcher to the count-based ingest interface.
type rangeSeries struct {
	market pivotusecase.MarketDataRepository
	now    func() time.Time
}

var _ candleusecase.MarketRepository = (*rangeSeries)(nil)

// GetTimeSeries returns at most outputsize of the latest daily bars.
func (r *rangeSeries) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	if interval != entity.DailyInterval {
		return nil, fmt.Errorf("unsupported interval %q", interval)
	}
	end := r.now().UTC()
	// 週末と祝日を見込んで営業日数の1.5倍の暦日をさかのぼる
	start := end.AddDate(0, 0, -(outputsize*3/2 + 7))

	cs, err := r.market.FetchRange(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if outputsize > 0 && len(cs) > outputsize {
		cs = cs[len(cs)-outputsize:]
	}
	return cs, nil
}
