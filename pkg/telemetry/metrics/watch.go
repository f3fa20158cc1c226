package metrics

import (
	"github.com/CubeSugarZhang/webpack/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// WatchMetrics tracks what triggers revalidation in watch mode.
//
// Metrics:
//   - webpack_validator_watch_events_total: File events by operation
//   - webpack_validator_triggers_total: Revalidations by trigger
//   - webpack_validator_schema_loads_total: Schema loads by source and result
type WatchMetrics struct {
	eventsTotal      *prometheus.CounterVec
	triggersTotal    *prometheus.CounterVec
	schemaLoadsTotal *prometheus.CounterVec
}

// NewWatchMetrics creates and registers watch metrics with the provided registry.
func NewWatchMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *WatchMetrics {
	wm := &WatchMetrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watch_events_total",
				Help:      "Total number of file system events seen by the watcher",
			},
			[]string{"op"},
		),

		triggersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "triggers_total",
				Help:      "Total number of revalidations by trigger",
			},
			[]string{"trigger"},
		),

		schemaLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "schema_loads_total",
				Help:      "Total number of schema loads by source and result",
			},
			[]string{"source", "result"},
		),
	}

	registry.MustRegister(
		wm.eventsTotal,
		wm.triggersTotal,
		wm.schemaLoadsTotal,
	)

	return wm
}

// RecordEvent records a file system event.
func (wm *WatchMetrics) RecordEvent(op string) {
	wm.eventsTotal.WithLabelValues(op).Inc()
}

// RecordTrigger records a revalidation and what caused it.
func (wm *WatchMetrics) RecordTrigger(trigger string) {
	wm.triggersTotal.WithLabelValues(trigger).Inc()
}

// RecordSchemaLoad records a schema load.
func (wm *WatchMetrics) RecordSchemaLoad(source, result string) {
	wm.schemaLoadsTotal.WithLabelValues(source, result).Inc()
}
