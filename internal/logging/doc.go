// Package logging assembles structured slog loggers and formatting helpers used
// across the sdnsurvey workflows.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code can tag log lines
// with the run id and stage name. Diagnostics go to stderr by default so that
// reports printed on stdout stay machine readable. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
