package metrics

import (
	"sync"
	"time"

	"github.com/CubeSugarZhang/webpack/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes used as label values.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// otherProperty replaces property labels once the cardinality limit is hit.
const otherProperty = "other"

// Collector owns the Prometheus registry of the validator and records
// metrics for validation runs and watch mode. Recording is a no-op when
// metrics are disabled in the configuration.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	validationMetrics *ValidationMetrics
	watchMetrics      *WatchMetrics

	// Property labels come from user configurations, so they are bounded.
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh registry
// is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:             cfg,
		registry:           registry,
		validationMetrics:  NewValidationMetrics(cfg, registry),
		watchMetrics:       NewWatchMetrics(cfg, registry),
		cardinalityLimiter: NewCardinalityLimiter(100),
	}
}

// RecordRun records a completed validation run.
//
// Parameters:
//   - outcome: OutcomeValid, OutcomeInvalid or OutcomeError
//   - duration: Total run duration
//   - configurations: Number of configurations checked
//   - violations: Number of reported violations
func (c *Collector) RecordRun(outcome string, duration time.Duration, configurations, violations int) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.validationMetrics.RecordRun(outcome, duration, configurations, violations)
}

// RecordViolation records one reported violation of the given kind against a
// top-level configuration property ("" for the configuration itself).
func (c *Collector) RecordViolation(kind, property string) {
	if c == nil || !c.config.Enabled {
		return
	}
	if property == "" {
		property = "configuration"
	}
	if !c.cardinalityLimiter.Allow(property) {
		property = otherProperty
	}
	c.validationMetrics.RecordViolation(kind, property)
}

// RecordLoadError records a configuration file that failed to load.
func (c *Collector) RecordLoadError() {
	if c == nil || !c.config.Enabled {
		return
	}
	c.validationMetrics.RecordLoadError()
}

// RecordWatchEvent records a file system event seen by the watcher.
func (c *Collector) RecordWatchEvent(op string) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.watchMetrics.RecordEvent(op)
}

// RecordTrigger records a revalidation and what caused it ("startup",
// "file", "schedule").
func (c *Collector) RecordTrigger(trigger string) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.watchMetrics.RecordTrigger(trigger)
}

// RecordSchemaLoad records a schema load from source ("builtin" or "file").
func (c *Collector) RecordSchemaLoad(source string, err error) {
	if c == nil || !c.config.Enabled {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	c.watchMetrics.RecordSchemaLoad(source, result)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether a label value may be used: it is already known or
// the limit has not been reached yet.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
