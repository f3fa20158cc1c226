package tracing

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/propagation"
)

// Environment variables carrying W3C trace context from a parent process,
// such as a CI pipeline step.
const (
	EnvTraceParent = "TRACEPARENT"
	EnvTraceState  = "TRACESTATE"
)

func newPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// ExtractFromEnv returns ctx carrying the remote span context found in
// TRACEPARENT/TRACESTATE. ctx is returned unchanged when they are unset or
// malformed.
func (t *Tracer) ExtractFromEnv(ctx context.Context) context.Context {
	return t.ExtractFromMap(ctx, map[string]string{
		"traceparent": os.Getenv(EnvTraceParent),
		"tracestate":  os.Getenv(EnvTraceState),
	})
}

// ExtractFromMap extracts trace context from a string carrier.
func (t *Tracer) ExtractFromMap(ctx context.Context, carrier map[string]string) context.Context {
	if t == nil {
		return ctx
	}
	return t.propagator.Extract(ctx, propagation.MapCarrier(carrier))
}

// InjectToMap writes the trace context of ctx into carrier.
func (t *Tracer) InjectToMap(ctx context.Context, carrier map[string]string) {
	if t == nil {
		return
	}
	t.propagator.Inject(ctx, propagation.MapCarrier(carrier))
}
