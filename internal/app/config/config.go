// Package config はアプリケーション全体の設定を環境変数から読み込みます。
package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // コンテナにタイムゾーンDBがない場合に備えて埋め込む

	"github.com/kelseyhightower/envconfig"
)

// Market data sources selectable with MARKET_SOURCE.
const (
	SourceTwelveData = "twelvedata"
	SourceYahoo      = "yahoo"
	SourceDB         = "db"
)

// Config はサーバー・取り込みジョブ・CLIで共有される設定です。
// 外部APIやDB、Redisの接続設定は各platformパッケージの LoadConfig が扱います。
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	MarketSource    string `envconfig:"MARKET_SOURCE" default:"yahoo"`
	InstrumentsFile string `envconfig:"INSTRUMENTS_FILE" default:"config/instruments.yaml"`

	// キャッシュは市場タイムゾーンで毎日この時刻に切り替わります
	CacheRefreshHour int    `envconfig:"CACHE_REFRESH_HOUR" default:"19"`
	MarketTimezone   string `envconfig:"MARKET_TIMEZONE" default:"Europe/Istanbul"`

	// 取り込みジョブの取得元 (twelvedata または yahoo)。MARKET_SOURCE=db はこのテーブルを読みます
	IngestSource string `envconfig:"INGEST_SOURCE" default:"yahoo"`
	// 空なら取り込みは一度だけ実行されます
	IngestCron          string `envconfig:"INGEST_CRON"`
	IngestRatePerMinute int    `envconfig:"INGEST_RATE_PER_MINUTE" default:"8"`
	// cron モードで起動直後にも一度取り込みます
	IngestOnStart bool `envconfig:"INGEST_ON_START" default:"false"`

	JWTSecret    string `envconfig:"JWT_SECRET"`
	AuthDisabled bool   `envconfig:"AUTH_DISABLED" default:"false"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load は環境変数から設定を読み込み、検証します。
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values envconfig cannot.
func (c Config) Validate() error {
	switch c.MarketSource {
	case SourceTwelveData, SourceYahoo, SourceDB:
	default:
		return fmt.Errorf("unsupported MARKET_SOURCE %q", c.MarketSource)
	}
	switch c.IngestSource {
	case "", SourceTwelveData, SourceYahoo:
	default:
		return fmt.Errorf("unsupported INGEST_SOURCE %q", c.IngestSource)
	}
	if c.CacheRefreshHour < 0 || c.CacheRefreshHour > 23 {
		return fmt.Errorf("CACHE_REFRESH_HOUR must be within 0-23, got %d", c.CacheRefreshHour)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location は MARKET_TIMEZONE を読み込みます。
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.MarketTimezone)
	if err != nil {
		return nil, fmt.Errorf("MARKET_TIMEZONE: %w", err)
	}
	return loc, nil
}
