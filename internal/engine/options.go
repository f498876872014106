package engine

import (
	"log/slog"

	"github.com/dshills/markertrack/internal/engine/pointer"
)

// Option configures a Document during creation.
type Option func(*Document)

// WithContent sets the initial content of the document.
func WithContent(content string) Option {
	return func(d *Document) {
		d.initContent = content
		d.initLength = -1
	}
}

// WithLength creates a content-agnostic document of the given length.
func WithLength(length ByteOffset) Option {
	return func(d *Document) {
		if length >= 0 {
			d.initLength = length
		}
	}
}

// WithLogger sets the logger for the document and its components.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithResolver sets the resolver used to rebind pointer targets.
func WithResolver(r pointer.Resolver) Option {
	return func(d *Document) {
		d.resolver = r
	}
}

// WithMetrics enables or disables cache metrics.
func WithMetrics(enabled bool) Option {
	return func(d *Document) {
		d.metrics = enabled
	}
}

// WithName sets the document's display name.
func WithName(name string) Option {
	return func(d *Document) {
		d.name = name
	}
}
