package db

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	candleadapters "pivot_backend/internal/feature/candles/adapters"
	instrumentadapters "pivot_backend/internal/feature/instruments/adapters"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config はデータベース接続設定です。
type Config struct {
	Driver         string        `envconfig:"DB_DRIVER" default:"postgres"`
	User           string        `envconfig:"DB_USER"`
	Password       string        `envconfig:"DB_PASSWORD"`
	Name           string        `envconfig:"DB_NAME"`
	Host           string        `envconfig:"DB_HOST" default:"localhost"`
	Port           string        `envconfig:"DB_PORT" default:"5432"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	InstanceName   string        `envconfig:"INSTANCE_CONNECTION_NAME"`
	SQLitePath     string        `envconfig:"DB_SQLITE_PATH" default:"pivot.db"`
	RunMigrations  bool          `envconfig:"RUN_MIGRATIONS"`
	ConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"60s"`
	RetryInterval  time.Duration `envconfig:"DB_RETRY_INTERVAL" default:"3s"`
}

// LoadConfigFromEnv は環境変数から Config を読み込みます。
func LoadConfigFromEnv() Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Warn("invalid database configuration, using defaults", "error", err)
		return Config{Driver: DriverPostgres, Host: "localhost", Port: "5432", SSLMode: "disable", SQLitePath: "pivot.db", ConnectTimeout: 60 * time.Second, RetryInterval: 3 * time.Second}
	}
	return cfg
}

// BuildDSN は Postgres 用の DSN を組み立てます。
// INSTANCE_CONNECTION_NAME があれば Cloud SQL の Unix ソケットを優先します。
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.InstanceName, cfg.User, cfg.Password, cfg.Name)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// Opener は DSN から接続を開く関数です。テストで差し替えます。
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry は timeout に達するまで interval 間隔で接続を試みます。
// 次の試行が期限を越える場合は待たずに最後のエラーを返します。
func ConnectWithRetry(dsn string, timeout, interval time.Duration, open Opener) (*gorm.DB, error) {
	if interval <= 0 {
		interval = time.Second
	}
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "retry_in", interval)
		time.Sleep(interval)
	}
}

// OpenDB は設定に従ってデータベースへ接続し、必要ならマイグレーションを実行します。
// DB_DRIVER=sqlite ではファイル (":memory:" も可) を使うローカルモードになります。
func OpenDB(cfg Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
	case DriverPostgres, "":
		db, err = ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, cfg.RetryInterval, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), &gorm.Config{})
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	// ローカルモードでは常にスキーマを用意する
	if cfg.RunMigrations || cfg.Driver == DriverSQLite {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate はローソク足と銘柄テーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&candleadapters.CandleModel{},
		&instrumentadapters.InstrumentModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
