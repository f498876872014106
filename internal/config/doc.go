// Package config loads markertrack settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, when a path is given
//  3. MARKERTRACK_* environment variables
//
// Example file:
//
//	[log]
//	level = "debug"
//	format = "json"
//
//	[cache]
//	metrics = true
//	rebind = true
//
//	[metrics]
//	addr = ":9090"
//	path = "/metrics"
//
//	[watch]
//	debounce = "200ms"
//
// The matching environment variables are MARKERTRACK_LOG_LEVEL,
// MARKERTRACK_LOG_FORMAT, MARKERTRACK_CACHE_METRICS, MARKERTRACK_CACHE_REBIND,
// MARKERTRACK_METRICS_ADDR, MARKERTRACK_METRICS_PATH and
// MARKERTRACK_WATCH_DEBOUNCE.
package config
