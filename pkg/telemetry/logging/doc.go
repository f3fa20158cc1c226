// Package logging provides structured logging for the validator.
//
// The package wraps log/slog with JSON, text and console formats and picks
// up run metadata (run ID, configuration file, schema, trace ID) from the
// context:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "validation finished", "violations", 3)
//
// Logs go to stderr by default so reports written to stdout stay parseable.
package logging
