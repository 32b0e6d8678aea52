// Package logging assembles the structured slog loggers used across the
// arkiv pipeline.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and exposes attribute helpers so stage code tags log lines
// with a consistent shape. The package also provides a no-op logger for tests
// and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same formatting and routing guarantees.
package logging
