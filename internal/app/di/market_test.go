package di

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pivot_backend/internal/app/config"
	candleadapters "pivot_backend/internal/feature/candles/adapters"
	"pivot_backend/internal/feature/candles/domain/entity"
	"pivot_backend/internal/platform/db"
	"pivot_backend/internal/platform/externalapi/twelvedata"
	"pivot_backend/internal/platform/externalapi/yahoo"
	"pivot_backend/internal/platform/metrics"
)

func testConfig(source string) config.Config {
	return config.Config{
		MarketSource:     source,
		MarketTimezone:   "UTC",
		CacheRefreshHour: 19,
	}
}

func TestNewMarket_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewMarket(testConfig("bloomberg"), nil, nil, nil)
	assert.Error(t, err)

	_, err = NewMarket(testConfig(config.SourceDB), nil, nil, nil)
	assert.Error(t, err)

	cfg := testConfig(config.SourceYahoo)
	cfg.MarketTimezone = "Nowhere/Special"
	_, err = NewMarket(cfg, nil, nil, nil)
	assert.Error(t, err)
}

// TestNewMarket_DB はDBをデータソースにした場合に保存済みの日足が返りメトリクスが記録されることを検証します。
func TestNewMarket_DB(t *testing.T) {
	gdb, err := db.OpenDB(db.Config{Driver: db.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)

	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	require.NoError(t, candleadapters.NewCandleRepository(gdb).UpsertBatch(context.Background(), []entity.Candle{
		{Symbol: "THYAO.IS", Interval: entity.DailyInterval, Time: day, Open: 290, High: 300, Low: 285, Close: 295, Volume: 1000},
		{Symbol: "THYAO.IS", Interval: entity.DailyInterval, Time: day.AddDate(0, 0, 1), Open: 295, High: 305, Low: 292, Close: 301.5, Volume: 1200},
	}))

	m := metrics.New(prometheus.NewRegistry())
	market, err := NewMarket(testConfig(config.SourceDB), gdb, nil, m)
	require.NoError(t, err)

	got, err := market.FetchRange(context.Background(), "THYAO.IS", day.AddDate(0, 0, -7), day.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 301.5, got[1].Close)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MarketFetches.WithLabelValues(config.SourceDB, metrics.OutcomeOK)))
}

type mockMarket struct {
	FetchRangeFunc func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error)
}

func (m *mockMarket) FetchRange(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	return m.FetchRangeFunc(ctx, symbol, start, end)
}

func bars(n int) []entity.Candle {
	out := make([]entity.Candle, n)
	for i := range out {
		out[i] = entity.Candle{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i), Close: float64(i + 1)}
	}
	return out
}

func TestRangeSeries_GetTimeSeries(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	var gotStart, gotEnd time.Time
	r := &rangeSeries{
		market: &mockMarket{FetchRangeFunc: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
			gotStart, gotEnd = start, end
			return bars(12), nil
		}},
		now: func() time.Time { return now },
	}

	got, err := r.GetTimeSeries(context.Background(), "GARAN.IS", entity.DailyInterval, 10)
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, 3.0, got[0].Close)
	assert.Equal(t, 12.0, got[9].Close)
	assert.Equal(t, now, gotEnd)
	assert.Equal(t, now.AddDate(0, 0, -22), gotStart)
}

func TestRangeSeries_GetTimeSeries_Errors(t *testing.T) {
	t.Parallel()

	upstream := errors.New("upstream down")
	r := &rangeSeries{
		market: &mockMarket{FetchRangeFunc: func(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
			return nil, upstream
		}},
		now: time.Now,
	}

	_, err := r.GetTimeSeries(context.Background(), "GARAN.IS", entity.DailyInterval, 10)
	assert.ErrorIs(t, err, upstream)

	_, err = r.GetTimeSeries(context.Background(), "GARAN.IS", "1h", 10)
	assert.Error(t, err)
}

// TestNewIngestMarket は取り込み元が MARKET_SOURCE ではなく INGEST_SOURCE で決まることを検証します。
func TestNewIngestMarket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		marketSource string
		ingestSource string
		wantYahoo    bool
	}{
		{"db read path defaults to yahoo", config.SourceDB, "", true},
		{"db read path with yahoo", config.SourceDB, config.SourceYahoo, true},
		{"db read path with twelvedata", config.SourceDB, config.SourceTwelveData, false},
		{"twelvedata reader still ingests from yahoo", config.SourceTwelveData, config.SourceYahoo, true},
		{"yahoo reader ingesting from twelvedata", config.SourceYahoo, config.SourceTwelveData, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig(tt.marketSource)
			cfg.IngestSource = tt.ingestSource

			switch m := NewIngestMarket(cfg).(type) {
			case *rangeSeries:
				assert.True(t, tt.wantYahoo)
				assert.IsType(t, &yahoo.YahooMarket{}, m.market)
			case *twelvedata.TwelveDataMarket:
				assert.False(t, tt.wantYahoo)
			default:
				t.Fatalf("unexpected ingest market %T", m)
			}
		})
	}
}
