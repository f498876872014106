package tracking

import "log/slog"

// DefaultName is the cache name used in logs and metric labels.
const DefaultName = "default"

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables or disables Prometheus metrics. Enabled by default.
func WithMetrics(enabled bool) Option {
	return func(c *Cache) {
		c.metrics = enabled
	}
}

// WithName sets the name used in logs and metric labels.
func WithName(name string) Option {
	return func(c *Cache) {
		if name != "" {
			c.name = name
		}
	}
}
