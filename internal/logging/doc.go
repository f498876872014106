// Package logging builds the slog loggers used across markertrack.
//
// New selects a text or JSON handler and a minimum level from a Config.
// Components derive their own loggers with With("component", ...).
package logging
