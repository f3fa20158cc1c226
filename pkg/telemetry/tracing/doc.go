// Package tracing records OpenTelemetry spans for validation runs.
//
// Each run produces a "validation.run" span with one child per loaded file
// and one for the validation pass. Spans are exported over OTLP/gRPC when
// telemetry.tracing.enabled is set; otherwise the Tracer is a noop.
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx = tracer.ExtractFromEnv(ctx)
//	ctx, span := tracer.Start(ctx, tracing.SpanValidationRun)
//	defer span.End()
//
// ExtractFromEnv continues a trace handed down through the TRACEPARENT and
// TRACESTATE environment variables, so a run inside a CI step shows up under
// the pipeline's trace. Sampling strategies are always, never, ratio and
// parent (ratio for root spans, the parent's decision otherwise).
package tracing
