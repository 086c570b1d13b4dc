package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults は環境変数が未設定の場合に既定値が使われることを検証します。
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SourceYahoo, cfg.MarketSource)
	assert.Equal(t, "config/instruments.yaml", cfg.InstrumentsFile)
	assert.Equal(t, 19, cfg.CacheRefreshHour)
	assert.Equal(t, "Europe/Istanbul", cfg.MarketTimezone)
	assert.Equal(t, SourceYahoo, cfg.IngestSource)
	assert.Empty(t, cfg.IngestCron)
	assert.Equal(t, 8, cfg.IngestRatePerMinute)
	assert.False(t, cfg.IngestOnStart)
	assert.False(t, cfg.AuthDisabled)
}

// TestLoad_FromEnv は環境変数の値が反映されることを検証します。
func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MARKET_SOURCE", "twelvedata")
	t.Setenv("CACHE_REFRESH_HOUR", "8")
	t.Setenv("MARKET_TIMEZONE", "UTC")
	t.Setenv("INGEST_CRON", "30 19 * * 1-5")
	t.Setenv("INGEST_SOURCE", "twelvedata")
	t.Setenv("INGEST_ON_START", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, SourceTwelveData, cfg.MarketSource)
	assert.Equal(t, 8, cfg.CacheRefreshHour)
	assert.Equal(t, "30 19 * * 1-5", cfg.IngestCron)
	assert.Equal(t, SourceTwelveData, cfg.IngestSource)
	assert.True(t, cfg.IngestOnStart)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

// TestLoad_Invalid は不正な値でエラーになることを検証します。
func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown source", "MARKET_SOURCE", "bloomberg"},
		{"db is not an ingest source", "INGEST_SOURCE", "db"},
		{"refresh hour too large", "CACHE_REFRESH_HOUR", "24"},
		{"refresh hour not a number", "CACHE_REFRESH_HOUR", "eight"},
		{"unknown timezone", "MARKET_TIMEZONE", "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
