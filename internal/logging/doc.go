// Package logging assembles the structured slog loggers used by the mclogs
// commands.
//
// It owns the console and JSON handlers, maps config levels onto slog, and
// tags every record with the run_id of the invocation so concurrent runs
// writing to the same sink can be told apart. Command output goes to stdout;
// diagnostics default to stderr.
package logging
