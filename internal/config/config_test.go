package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.Port == "" {
		t.Fatalf("unexpected empty config from MustLoad")
	}
}

// --- Load defaults ---

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8080" || cfg.ReadTimeout != 15*time.Second || cfg.MaxHeaderBytes != 1<<20 || cfg.GinMode != "release" {
		t.Fatalf("server defaults unexpected: %+v", cfg)
	}
	if cfg.LogLevel != "info" || cfg.LogPretty {
		t.Fatalf("logging defaults unexpected: %+v", cfg)
	}
	if cfg.DBDriver != "sqlite" || cfg.DBPath != "menufic.db" || cfg.DatabaseURL != "" {
		t.Fatalf("database defaults unexpected: %+v", cfg)
	}
	if cfg.Timezone != "Local" || cfg.Location() != time.Local {
		t.Fatalf("timezone default unexpected: %q", cfg.Timezone)
	}

	tc := cfg.Translation
	if tc.Store != StoreDB || tc.SourceLang != "EN" || tc.RPS != 5 || tc.Burst != 10 || tc.Concurrency != 8 {
		t.Fatalf("translation defaults unexpected: %+v", tc)
	}
	if cfg.Redis.Addr != "127.0.0.1:6379" || cfg.Redis.Prefix != "menufic" {
		t.Fatalf("redis defaults unexpected: %+v", cfg.Redis)
	}
	if cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "localhost:4317" || !cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "menufic" || cfg.OTEL.SampleRatio != 1.0 {
		t.Fatalf("otel defaults unexpected: %+v", cfg.OTEL)
	}
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_OverridesAndNormalization(t *testing.T) {
	// Server
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging
	t.Setenv("LOG_LEVEL", " Warning ") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "true")

	// Database
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://menufic@localhost/menufic")
	t.Setenv("SCHEDULE_TIMEZONE", "UTC")

	// Translation
	t.Setenv("TRANSLATION_STORE", " REDIS ")
	t.Setenv("TRANSLATION_SOURCE_LANG", "th")
	t.Setenv("TRANSLATION_RPS", "0")
	t.Setenv("TRANSLATION_BURST", "3")
	t.Setenv("TRANSLATION_CONCURRENCY", "2")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PREFIX", "tenant-a")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}
	if cfg.LogLevel != "warn" || !cfg.LogPretty {
		t.Fatalf("logging unexpected: %+v", cfg)
	}
	if cfg.DBDriver != "postgres" || cfg.DatabaseURL == "" {
		t.Fatalf("database unexpected: %+v", cfg)
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("location = %v; want UTC", cfg.Location())
	}

	tc := cfg.Translation
	if tc.Store != StoreRedis || tc.SourceLang != "TH" || tc.RPS != 0 || tc.Burst != 3 || tc.Concurrency != 2 {
		t.Fatalf("translation unexpected: %+v", tc)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.Prefix != "tenant-a" {
		t.Fatalf("redis unexpected: %+v", cfg.Redis)
	}
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_GinModeKeptWhenValid(t *testing.T) {
	t.Setenv("GIN_MODE", "DEBUG")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.GinMode != "debug" {
		t.Fatalf("GinMode = %q; want debug", cfg.GinMode)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"invalid LOG_LEVEL", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"empty PORT via spaces", map[string]string{"PORT": "   "}, "PORT must not be empty"},
		{"non-positive timeouts", map[string]string{"READ_TIMEOUT": "0s"}, "timeouts must be positive"},
		{"max header bytes <= 0", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES"},
		{"unparseable duration", map[string]string{"IDLE_TIMEOUT": "soon"}, "IDLE_TIMEOUT"},
		{"empty DB_PATH", map[string]string{"DB_PATH": "   "}, "DB_PATH must not be empty"},
		{"unknown DB_DRIVER", map[string]string{"DB_DRIVER": "mysql"}, "DB_DRIVER"},
		{"postgres without url", map[string]string{"DB_DRIVER": "postgres"}, "DATABASE_URL"},
		{"bad timezone", map[string]string{"SCHEDULE_TIMEZONE": "Mars/Olympus"}, "SCHEDULE_TIMEZONE"},
		{"unknown store", map[string]string{"TRANSLATION_STORE": "memcached"}, "TRANSLATION_STORE"},
		{"redis without addr", map[string]string{"TRANSLATION_STORE": "redis", "REDIS_ADDR": " "}, "REDIS_ADDR"},
		{"bad source language", map[string]string{"TRANSLATION_SOURCE_LANG": "not a lang!!"}, "TRANSLATION_SOURCE_LANG"},
		{"rps negative", map[string]string{"TRANSLATION_RPS": "-1"}, "TRANSLATION_RPS"},
		{"burst < 1", map[string]string{"TRANSLATION_BURST": "0"}, "TRANSLATION_BURST"},
		{"concurrency < 1", map[string]string{"TRANSLATION_CONCURRENCY": "0"}, "TRANSLATION_CONCURRENCY"},
		{"otel sample ratio out of range", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); !containsErr(err, tt.want) {
				t.Fatalf("expected %s validation error, got: %v", tt.want, err)
			}
		})
	}
}

func TestLocation_FallsBackToLocal(t *testing.T) {
	cfg := Config{Timezone: "Nowhere/Special"}
	if cfg.Location() != time.Local {
		t.Fatalf("invalid zone should fall back to time.Local")
	}
	cfg.Timezone = "Asia/Bangkok"
	if loc := cfg.Location(); loc.String() != "Asia/Bangkok" {
		t.Fatalf("location = %v", loc)
	}
}

// Ensure tests don't leak env to others.
func TestMain(m *testing.M) {
	os.Unsetenv("PORT")
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}
