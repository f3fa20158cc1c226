// Package telemetry groups the observability packages of the validator.
//
// # Components
//
//   - logging: structured logging on log/slog with run context fields
//   - metrics: Prometheus metrics for validation runs and watch mode
//   - tracing: OpenTelemetry spans for runs, exported over OTLP gRPC
//   - health: liveness and readiness endpoints for watch mode
//
// Each component is configured from the telemetry section of the tool
// configuration:
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
//	  health:
//	    enabled: true
package telemetry
