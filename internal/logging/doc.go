// Package logging assembles the structured slog loggers used across
// callwatch components.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and defines the standardized field keys (component, file,
// event_type, correlation_id) so every package emits log lines with the
// same shape. A no-op logger is provided for tests and wiring code that
// cannot fail.
package logging
