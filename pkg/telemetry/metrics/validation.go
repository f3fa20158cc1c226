package metrics

import (
	"time"

	"github.com/CubeSugarZhang/webpack/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ValidationMetrics tracks validation runs and the violations they report.
//
// Metrics:
//   - webpack_validator_runs_total: Validation runs by outcome
//   - webpack_validator_run_duration_seconds: Run duration
//   - webpack_validator_configurations_total: Configurations checked
//   - webpack_validator_violations_total: Violations by kind
//   - webpack_validator_property_violations_total: Violations by top-level property
//   - webpack_validator_load_errors_total: Configuration files that failed to load
type ValidationMetrics struct {
	runsTotal           *prometheus.CounterVec
	runDuration         *prometheus.HistogramVec
	configurationsTotal prometheus.Counter
	violationsTotal     *prometheus.CounterVec
	propertyViolations  *prometheus.CounterVec
	loadErrorsTotal     prometheus.Counter
	lastRunTimestamp    prometheus.Gauge
	lastRunViolations   prometheus.Gauge
}

// NewValidationMetrics creates and registers validation metrics with the
// provided registry.
func NewValidationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of validation runs",
			},
			[]string{"outcome"},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of validation runs in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"outcome"},
		),

		configurationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "configurations_total",
				Help:      "Total number of configurations checked",
			},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "violations_total",
				Help:      "Total number of reported violations by kind",
			},
			[]string{"kind"},
		),

		propertyViolations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "property_violations_total",
				Help:      "Total number of reported violations by top-level property",
			},
			[]string{"property"},
		),

		loadErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "load_errors_total",
				Help:      "Total number of configuration files that failed to load",
			},
		),

		lastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time of the last completed validation run",
			},
		),

		lastRunViolations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "last_run_violations",
				Help:      "Number of violations reported by the last validation run",
			},
		),
	}

	registry.MustRegister(
		vm.runsTotal,
		vm.runDuration,
		vm.configurationsTotal,
		vm.violationsTotal,
		vm.propertyViolations,
		vm.loadErrorsTotal,
		vm.lastRunTimestamp,
		vm.lastRunViolations,
	)

	return vm
}

// RecordRun records a completed run.
func (vm *ValidationMetrics) RecordRun(outcome string, duration time.Duration, configurations, violations int) {
	vm.runsTotal.WithLabelValues(outcome).Inc()
	vm.runDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	vm.configurationsTotal.Add(float64(configurations))
	vm.lastRunTimestamp.SetToCurrentTime()
	vm.lastRunViolations.Set(float64(violations))
}

// RecordViolation records one reported violation.
func (vm *ValidationMetrics) RecordViolation(kind, property string) {
	vm.violationsTotal.WithLabelValues(kind).Inc()
	vm.propertyViolations.WithLabelValues(property).Inc()
}

// RecordLoadError records a configuration file that could not be loaded.
func (vm *ValidationMetrics) RecordLoadError() {
	vm.loadErrorsTotal.Inc()
}
