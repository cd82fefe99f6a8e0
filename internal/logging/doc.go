// Package logging assembles the structured slog loggers used by vidmerge.
//
// It owns the console and JSON handlers, fans records out to the terminal and
// the persistent log file, and exposes context helpers so pipeline code can
// tag every line with the run and session identifiers. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
