// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes settings for the ops
// server, logging, the database, the translation cache and observability.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/text/language"
)

// Translation store backends.
const (
	StoreDB     = "db"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    `envconfig:"ENABLED" default:"false"`                       // OTEL_ENABLED
	Endpoint    string  `envconfig:"EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"` // OTEL_EXPORTER_OTLP_ENDPOINT
	Insecure    bool    `envconfig:"EXPORTER_OTLP_INSECURE" default:"true"`         // true if no TLS
	ServiceName string  `envconfig:"SERVICE_NAME" default:"menufic"`                // OTEL_SERVICE_NAME
	SampleRatio float64 `envconfig:"TRACES_SAMPLER_ARG" default:"1.0"`              // in [0..1]
}

// TranslationConfig configures the translation cache and provider throttling.
type TranslationConfig struct {
	Store       string  `envconfig:"STORE" default:"db"`       // TRANSLATION_STORE: db|redis|memory
	SourceLang  string  `envconfig:"SOURCE_LANG" default:"EN"` // language content is authored in
	RPS         float64 `envconfig:"RPS" default:"5"`          // provider calls per second (0 = unlimited)
	Burst       int     `envconfig:"BURST" default:"10"`       // bucket size (>= 1)
	Concurrency int     `envconfig:"CONCURRENCY" default:"8"`  // field lookups in flight per tree
}

// RedisConfig locates the Redis server used when TRANSLATION_STORE=redis.
type RedisConfig struct {
	Addr   string `envconfig:"ADDR" default:"127.0.0.1:6379"` // REDIS_ADDR
	Prefix string `envconfig:"PREFIX" default:"menufic"`      // REDIS_PREFIX
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        `envconfig:"PORT" default:"8080"`
	ReadTimeout       time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
	WriteTimeout      time.Duration `envconfig:"WRITE_TIMEOUT" default:"20s"`
	IdleTimeout       time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes    int           `envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	GinMode           string        `envconfig:"GIN_MODE" default:"release"` // debug|release|test

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error|fatal|panic
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`

	// Database
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"` // sqlite|postgres
	DBPath      string `envconfig:"DB_PATH" default:"menufic.db"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Schedules are evaluated in this zone ("Local" = host zone).
	Timezone string `envconfig:"SCHEDULE_TIMEZONE" default:"Local"`

	Translation TranslationConfig `envconfig:"TRANSLATION"`
	Redis       RedisConfig       `envconfig:"REDIS"`

	// Observability
	OTEL OTELConfig `envconfig:"OTEL"`
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}

	// --- normalization ---
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	cfg.GinMode = strings.ToLower(strings.TrimSpace(cfg.GinMode))
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.Translation.Store = strings.ToLower(strings.TrimSpace(cfg.Translation.Store))
	cfg.Translation.SourceLang = strings.ToUpper(strings.TrimSpace(cfg.Translation.SourceLang))

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DBDriver {
	case "sqlite":
		if strings.TrimSpace(cfg.DBPath) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return cfg, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return cfg, fmt.Errorf("SCHEDULE_TIMEZONE: %w", err)
	}

	tc := cfg.Translation
	switch tc.Store {
	case StoreDB, StoreMemory:
	case StoreRedis:
		if strings.TrimSpace(cfg.Redis.Addr) == "" {
			return cfg, errors.New("REDIS_ADDR is required when TRANSLATION_STORE=redis")
		}
	default:
		return cfg, errors.New("TRANSLATION_STORE must be one of: db, redis, memory")
	}
	if _, err := language.Parse(tc.SourceLang); err != nil {
		return cfg, fmt.Errorf("TRANSLATION_SOURCE_LANG %q is not a valid language tag", tc.SourceLang)
	}
	if tc.RPS < 0 {
		return cfg, errors.New("TRANSLATION_RPS must be >= 0")
	}
	if tc.Burst < 1 {
		return cfg, errors.New("TRANSLATION_BURST must be >= 1")
	}
	if tc.Concurrency < 1 {
		return cfg, errors.New("TRANSLATION_CONCURRENCY must be >= 1")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// Location returns the schedule evaluation time zone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
