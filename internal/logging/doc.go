// Package logging constructs the slog loggers used across the pipeline and
// CLI, with console output for interactive runs and JSON for cron captures.
package logging
