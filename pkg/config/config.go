package config

import "time"

// Config is the root configuration of the webpack options validator.
// It is loaded from YAML and can be overridden with WEBPACK_* environment
// variables.
type Config struct {
	// Schema selects the schema configurations are checked against.
	Schema SchemaConfig `yaml:"schema"`

	// Validation contains report settings.
	Validation ValidationConfig `yaml:"validation"`

	// Watch contains settings for the watch command.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains logging, metrics, tracing and health settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SchemaConfig selects the schema document.
type SchemaConfig struct {
	// Path is a schema document to load instead of the built-in webpack
	// options schema.
	// Default: "" (built-in)
	Path string `yaml:"path"`

	// SkipMetaValidation disables checking the schema document against the
	// document meta-schema. Structural checks still run.
	// Default: false
	SkipMetaValidation bool `yaml:"skip_meta_validation"`

	// MaxFileSize bounds schema and configuration files, in bytes.
	// Default: 4194304 (4MB)
	MaxFileSize int64 `yaml:"max_file_size"`
}

// ValidationConfig contains report settings.
type ValidationConfig struct {
	// Header replaces the first line of failure reports.
	// Default: "" (the header of the selected schema)
	Header string `yaml:"header"`

	// Format is the default output format of reports.
	// Options: "text", "json"
	// Default: "text"
	Format string `yaml:"format"`
}

// WatchConfig contains settings for the watch command.
type WatchConfig struct {
	// DebounceInterval groups bursts of file events into one run.
	// Default: 100ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// Extensions limits which files in watched directories trigger a run.
	// Default: [".yaml", ".yml", ".json"]
	Extensions []string `yaml:"extensions"`

	// Schedule is an optional cron expression for periodic revalidation,
	// e.g. "*/5 * * * *".
	// Default: "" (disabled)
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health endpoint configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served in watch mode.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where the metrics and health endpoints listen.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "webpack"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "validator"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for run duration (seconds).
	// Default: [0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio", "parent"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio" or "parent".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "webpack-validator"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS for the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for trace exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// HealthConfig contains health endpoint configuration. The endpoints share
// the metrics listener.
type HealthConfig struct {
	// Enabled controls whether health endpoints are served in watch mode.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// LivenessPath is the path for the liveness probe endpoint.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness probe endpoint.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// CheckTimeout is the timeout for individual readiness checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}
