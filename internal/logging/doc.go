// Package logging assembles structured slog loggers and formatting helpers used
// across promptalbum.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// opens the timestamped log file each organize run writes, and exposes
// context-aware helpers so workflow code can tag log lines with run IDs,
// stages, and album labels. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
package logging
