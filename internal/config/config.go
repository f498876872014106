package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "MARKERTRACK_"

// Config holds all settings.
type Config struct {
	Log     LogConfig     `toml:"log" envPrefix:"LOG_"`
	Cache   CacheConfig   `toml:"cache" envPrefix:"CACHE_"`
	Metrics MetricsConfig `toml:"metrics" envPrefix:"METRICS_"`
	Watch   WatchConfig   `toml:"watch" envPrefix:"WATCH_"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" env:"LEVEL"`

	// Format is text or json.
	Format string `toml:"format" env:"FORMAT"`
}

// CacheConfig configures the marker caches of documents.
type CacheConfig struct {
	// Metrics enables Prometheus metrics for caches.
	Metrics bool `toml:"metrics" env:"METRICS"`

	// Rebind enables re-resolving pointer targets on commit.
	Rebind bool `toml:"rebind" env:"REBIND"`
}

// MetricsConfig configures the metrics endpoint.
type MetricsConfig struct {
	// Addr is the listen address. Empty disables the endpoint.
	Addr string `toml:"addr" env:"ADDR"`

	// Path is the HTTP path serving metrics.
	Path string `toml:"path" env:"PATH"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce coalesces file events arriving within this window.
	Debounce Duration `toml:"debounce" env:"DEBOUNCE"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Cache: CacheConfig{
			Metrics: true,
			Rebind:  true,
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
		Watch: WatchConfig{
			Debounce: Duration{100 * time.Millisecond},
		},
	}
}

// Validate checks the settings and returns every problem found.
func (c Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fieldError("log.level", c.Log.Level, "must be debug, info, warn or error"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fieldError("log.format", c.Log.Format, "must be text or json"))
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fieldError("metrics.path", c.Metrics.Path, "must start with /"))
	}
	if c.Watch.Debounce.Duration < 0 {
		errs = append(errs, fieldError("watch.debounce", c.Watch.Debounce.Duration, "must not be negative"))
	}

	return errors.Join(errs...)
}

func fieldError(field string, value any, msg string) error {
	return fmt.Errorf("%w: %s = %v %s", ErrValidationFailed, field, value, msg)
}
