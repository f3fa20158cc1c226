package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for validation run IDs.
	RunIDKey contextKey = "run_id"

	// ConfigFileKey is the context key for the configuration file being
	// validated.
	ConfigFileKey contextKey = "config_file"

	// SchemaKey is the context key for the schema source in use.
	SchemaKey contextKey = "schema"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// WithConfigFile adds a configuration file path to the context.
func WithConfigFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ConfigFileKey, path)
}

// WithSchema adds the schema source to the context.
func WithSchema(ctx context.Context, schema string) context.Context {
	return context.WithValue(ctx, SchemaKey, schema)
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// extractContextFields returns the fields stored in ctx as key-value pairs
// suitable for Logger.With.
func extractContextFields(ctx context.Context) []any {
	var fields []any
	for _, key := range []contextKey{RunIDKey, ConfigFileKey, SchemaKey, TraceIDKey} {
		if v := stringValue(ctx, key); v != "" {
			fields = append(fields, string(key), v)
		}
	}
	return fields
}
