package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanValidationRun = "validation.run"
	SpanLoadFile      = "configfile.load"
	SpanValidate      = "validation.validate"
)

// Attribute keys recorded on validation spans.
const (
	AttrRunID          = "webpack.run_id"
	AttrTrigger        = "webpack.trigger"
	AttrFiles          = "webpack.files"
	AttrFile           = "webpack.file"
	AttrSchema         = "webpack.schema"
	AttrConfigurations = "webpack.configurations"
	AttrViolations     = "webpack.violations"
	AttrValid          = "webpack.valid"
	AttrErrorMessage   = "error.message"
)

// EventViolation is the span event added per reported violation.
const EventViolation = "violation"

// RunAttributes describes a validation run.
type RunAttributes struct {
	RunID   string
	Trigger string
	Files   []string
	Schema  string
}

// SetRunAttributes sets the attributes known when a run starts.
func SetRunAttributes(span trace.Span, run RunAttributes) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrRunID, run.RunID),
		attribute.StringSlice(AttrFiles, run.Files),
	}
	if run.Trigger != "" {
		attrs = append(attrs, attribute.String(AttrTrigger, run.Trigger))
	}
	if run.Schema != "" {
		attrs = append(attrs, attribute.String(AttrSchema, run.Schema))
	}
	span.SetAttributes(attrs...)
}

// SetResultAttributes sets the outcome of a run.
func SetResultAttributes(span trace.Span, configurations, violations int) {
	span.SetAttributes(
		attribute.Int(AttrConfigurations, configurations),
		attribute.Int(AttrViolations, violations),
		attribute.Bool(AttrValid, violations == 0),
	)
}

// AddViolationEvent records one violation as a span event.
func AddViolationEvent(span trace.Span, path, kind string) {
	if !span.IsRecording() {
		return
	}
	span.AddEvent(EventViolation, trace.WithAttributes(
		attribute.String("path", path),
		attribute.String("kind", kind),
	))
}
