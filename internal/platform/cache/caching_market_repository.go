// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"pivot_backend/internal/feature/candles/domain/entity"
	candleusecase "pivot_backend/internal/feature/candles/usecase"
	pivotusecase "pivot_backend/internal/feature/pivots/usecase"
)

const (
	defaultTTL       = 5 * time.Minute
	defaultNamespace = "bars"
	keyDateLayout    = "20060102"
)

// CachingMarketRepository decorates a MarketDataRepository with Redis caching.
// A nil Redis client disables caching and every call goes to the inner repository.
type CachingMarketRepository struct {
	inner     pivotusecase.MarketDataRepository
	rdb       *redis.Client
	ttl       func() time.Duration
	namespace string
}

var _ pivotusecase.MarketDataRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository decorates a MarketDataRepository with Redis caching.
// If ttl is nil, entries live for 5 minutes. If namespace is empty, it uses "bars".
func NewCachingMarketRepository(rdb *redis.Client, inner pivotusecase.MarketDataRepository, namespace string, ttl func() time.Duration) *CachingMarketRepository {
	if ttl == nil {
		ttl = func() time.Duration { return defaultTTL }
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &CachingMarketRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FetchRange returns cached bars for the day range when present, otherwise
// it asks the inner repository and stores a non-empty result.
func (c *CachingMarketRepository) FetchRange(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	if c.rdb == nil {
		return c.inner.FetchRange(ctx, symbol, start, end)
	}

	key := c.cacheKey(symbol, start, end)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Candle
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the source
	out, err := c.inner.FetchRange(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort). 空の結果はキャッシュしない
	if len(out) == 0 {
		return out, nil
	}
	if ttl := c.ttl(); ttl > 0 {
		if b, err := json.Marshal(out); err == nil {
			_ = c.rdb.Set(ctx, key, b, ttl).Err()
		}
	}

	return out, nil
}

func (c *CachingMarketRepository) cacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s",
		c.namespace,
		safe(symbol),
		start.Format(keyDateLayout),
		end.Format(keyDateLayout),
	)
}

// InvalidatingCandleRepository decorates the candle store so that every
// upsert drops the cached ranges of the affected symbols.
type InvalidatingCandleRepository struct {
	inner     candleusecase.CandleRepository
	rdb       *redis.Client
	namespace string
}

var _ candleusecase.CandleRepository = (*InvalidatingCandleRepository)(nil)

func NewInvalidatingCandleRepository(rdb *redis.Client, inner candleusecase.CandleRepository, namespace string) *InvalidatingCandleRepository {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &InvalidatingCandleRepository{inner: inner, rdb: rdb, namespace: namespace}
}

// UpsertBatch inserts or updates candles and invalidates related cache entries.
func (c *InvalidatingCandleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if err := c.inner.UpsertBatch(ctx, candles); err != nil {
		return err
	}
	if c.rdb == nil || len(candles) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	for _, cd := range candles {
		prefix := fmt.Sprintf("%s:%s:", c.namespace, safe(cd.Symbol))
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		_ = deleteByPattern(ctx, c.rdb, prefix+"*") // Best effort: don't fail if cache deletion fails
	}
	return nil
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func deleteByPattern(ctx context.Context, rdb *redis.Client, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
