package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Engine   EngineConfig   `yaml:"engine"`
	Sync     SyncConfig     `yaml:"sync"`
	Notify   NotifyConfig   `yaml:"notify"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// EngineConfig holds instance/streak engine parameters.
type EngineConfig struct {
	// DefaultStreakThreshold is the completion percentage used when a
	// user has no explicit preference.
	DefaultStreakThreshold int `yaml:"default_streak_threshold" env:"ENGINE_DEFAULT_STREAK_THRESHOLD" env-default:"80"`
	// DefaultWeekStart is the weekday a week starts on (0=Sunday).
	DefaultWeekStart int `yaml:"default_week_start" env:"ENGINE_DEFAULT_WEEK_START" env-default:"0"`
	// MaxGenerateRangeDays caps generate-range spans to prevent runaway
	// historical generation.
	MaxGenerateRangeDays int `yaml:"max_generate_range_days" env:"ENGINE_MAX_GENERATE_RANGE_DAYS" env-default:"730"`
	// StreakHistoryLimit bounds how many instances a single streak scan
	// loads from storage.
	StreakHistoryLimit int `yaml:"streak_history_limit" env:"ENGINE_STREAK_HISTORY_LIMIT" env-default:"1000"`
}

// SyncConfig holds offline-sync reconciliation settings.
type SyncConfig struct {
	MaxBatchSize int `yaml:"max_batch_size" env:"SYNC_MAX_BATCH_SIZE" env-default:"500"`
	// ClockSkewTolerance is added to client timestamps before comparing
	// against server updated_at, absorbing small device clock drift.
	ClockSkewTolerance time.Duration `yaml:"clock_skew_tolerance" env:"SYNC_CLOCK_SKEW_TOLERANCE" env-default:"2s"`
}

// NotifyConfig holds notification dispatcher settings.
type NotifyConfig struct {
	QueueSize int `yaml:"queue_size" env:"NOTIFY_QUEUE_SIZE" env-default:"256"`
}

// CleanupConfig holds retention settings for the cleanup CLI.
type CleanupConfig struct {
	// HardDeleteRetentionDays is how long soft-deleted rows are kept
	// before the cleanup job removes them for good.
	HardDeleteRetentionDays int `yaml:"hard_delete_retention_days" env:"CLEANUP_HARD_DELETE_RETENTION_DAYS" env-default:"30"`
}
