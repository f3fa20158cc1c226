// Package metrics provides Prometheus metrics for the validator.
//
// # Metrics
//
//   - runs_total{outcome}, run_duration_seconds{outcome}
//   - configurations_total, load_errors_total
//   - violations_total{kind}, property_violations_total{property}
//   - last_run_timestamp_seconds, last_run_violations
//   - watch_events_total{op}, triggers_total{trigger}
//   - schema_loads_total{source,result}
//
// Every name is prefixed with the configured namespace and subsystem
// (webpack_validator_ by default).
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRun(metrics.OutcomeInvalid, elapsed, 1, 3)
//	mux.Handle("/metrics", collector.Handler())
//
// Property labels are capped by a CardinalityLimiter; values past the limit
// are recorded as "other".
package metrics
