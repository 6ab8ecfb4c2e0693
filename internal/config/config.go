// Package config handles YAML configuration loading with environment variable
// expansion, plus database bootstrapping.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"go.yaml.in/yaml/v3"
)

// Config is the top-level gateway configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Origin    OriginConfig    `yaml:"origin"`
	Breaker   BreakerConfig   `yaml:"breaker"`
	Warmer    WarmerConfig    `yaml:"warmer"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // file path or ":memory:"
}

// CacheConfig holds cached-library settings.
type CacheConfig struct {
	Enabled    *bool         `yaml:"enabled"`     // nil = true
	Policy     string        `yaml:"policy"`      // "one_shot" or "sticky"
	MaxEntries int           `yaml:"max_entries"` // per keyed cache
	TTL        time.Duration `yaml:"ttl"`         // per-entry expiry, 0 = never
}

// IsEnabled reports whether the cache layer is enabled (defaults to true).
func (c CacheConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// OriginConfig holds origin library settings.
type OriginConfig struct {
	CostPerCall time.Duration `yaml:"cost_per_call"` // simulated processing cost
}

// BreakerConfig holds circuit breaker settings for the origin.
type BreakerConfig struct {
	Enabled        bool          `yaml:"enabled"`
	ErrorThreshold float64       `yaml:"error_threshold"`
	MinSamples     int           `yaml:"min_samples"`
	WindowSeconds  int           `yaml:"window_s"`
	OpenTimeout    time.Duration `yaml:"open_timeout"`
}

// WarmerConfig holds cache warmer settings.
type WarmerConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// TelemetryConfig holds observability settings.
type TelemetryConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// MetricsConfig controls Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TracingConfig controls OpenTelemetry tracing.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Endpoint   string  `yaml:"endpoint"`    // OTLP gRPC endpoint
	SampleRate float64 `yaml:"sample_rate"` // 0.0 to 1.0
}

// CatalogConfig seeds the video catalog on first run.
type CatalogConfig struct {
	File   string       `yaml:"file"` // optional JSON seed file
	Videos []VideoEntry `yaml:"videos"`
}

// VideoEntry is a catalog seed entry in the config file.
type VideoEntry struct {
	ID          string `yaml:"id"` // generated when empty
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Duration    int    `yaml:"duration_s"`
	Content     string `yaml:"content"` // inline payload stand-in
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnv replaces ${VAR} patterns with environment variable values.
func expandEnv(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := string(match[2 : len(match)-1])
		if val, ok := os.LookupEnv(varName); ok {
			return []byte(val)
		}
		return match
	})
}

// Load reads and parses a YAML config file, expanding environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	data = expandEnv(data)

	cfg := &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			DSN: "radagast.db",
		},
		Cache: CacheConfig{
			Policy:     "one_shot",
			MaxEntries: 10_000,
		},
		Origin: OriginConfig{
			CostPerCall: 100 * time.Millisecond,
		},
		Breaker: BreakerConfig{
			ErrorThreshold: 0.5,
			MinSamples:     5,
			WindowSeconds:  30,
			OpenTimeout:    15 * time.Second,
		},
		Warmer: WarmerConfig{
			Interval: 5 * time.Minute,
		},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
