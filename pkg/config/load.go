package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WEBPACK_"

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "webpack-validator.yaml"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// Unknown keys are rejected. The configuration is not modified by
// environment variables; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention WEBPACK_SECTION_FIELD (e.g., WEBPACK_TELEMETRY_LOGGING_LEVEL).
// Environment variables always take precedence over file-based configuration.
//
// An empty path means DefaultPath; when that file does not exist the
// defaults are used. A path given explicitly must exist.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := loadOrDefault(path)
	if err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func loadOrDefault(path string) (*Config, error) {
	if path != "" {
		return LoadConfig(path)
	}
	if _, err := os.Stat(DefaultPath); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return LoadConfig(DefaultPath)
}

// applyEnvOverrides applies WEBPACK_* environment variables. A variable that
// is set but cannot be parsed is an error rather than silently ignored.
func applyEnvOverrides(cfg *Config) error {
	o := &overrides{}

	o.str("SCHEMA_PATH", &cfg.Schema.Path)
	o.boolean("SCHEMA_SKIP_META_VALIDATION", &cfg.Schema.SkipMetaValidation)
	o.int64("SCHEMA_MAX_FILE_SIZE", &cfg.Schema.MaxFileSize)

	o.str("VALIDATION_HEADER", &cfg.Validation.Header)
	o.str("VALIDATION_FORMAT", &cfg.Validation.Format)

	o.duration("WATCH_DEBOUNCE_INTERVAL", &cfg.Watch.DebounceInterval)
	o.list("WATCH_EXTENSIONS", &cfg.Watch.Extensions)
	o.str("WATCH_SCHEDULE", &cfg.Watch.Schedule)

	o.str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	o.str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	o.boolean("TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)

	o.boolean("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	o.str("TELEMETRY_METRICS_LISTEN_ADDRESS", &cfg.Telemetry.Metrics.ListenAddress)
	o.str("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)

	o.boolean("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	o.str("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	o.str("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	o.float("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
	o.boolean("TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)

	o.boolean("TELEMETRY_HEALTH_ENABLED", &cfg.Telemetry.Health.Enabled)

	if len(o.errs) > 0 {
		return ValidationError{Errors: o.errs}
	}
	return nil
}

// overrides reads typed environment variables into configuration fields and
// collects parse failures.
type overrides struct {
	errs []FieldError
}

func (o *overrides) lookup(name string) (string, bool) {
	val, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

func (o *overrides) fail(name, val string, err error) {
	o.errs = append(o.errs, FieldError{
		Field:   EnvPrefix + name,
		Message: fmt.Sprintf("cannot parse %q: %v", val, err),
	})
}

func (o *overrides) str(name string, dst *string) {
	if val, ok := o.lookup(name); ok {
		*dst = val
	}
}

func (o *overrides) list(name string, dst *[]string) {
	val, ok := o.lookup(name)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func (o *overrides) boolean(name string, dst *bool) {
	val, ok := o.lookup(name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		o.fail(name, val, err)
		return
	}
	*dst = b
}

func (o *overrides) int64(name string, dst *int64) {
	val, ok := o.lookup(name)
	if !ok {
		return
	}
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		o.fail(name, val, err)
		return
	}
	*dst = i
}

func (o *overrides) float(name string, dst *float64) {
	val, ok := o.lookup(name)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		o.fail(name, val, err)
		return
	}
	*dst = f
}

func (o *overrides) duration(name string, dst *time.Duration) {
	val, ok := o.lookup(name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		o.fail(name, val, err)
		return
	}
	*dst = d
}
