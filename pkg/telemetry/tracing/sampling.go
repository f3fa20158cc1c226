package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sampling strategies accepted in telemetry.tracing.sampler.
const (
	SamplerAlways = "always"
	SamplerNever  = "never"
	SamplerRatio  = "ratio"

	// SamplerParent follows the sampling decision of a parent propagated
	// through TRACEPARENT and falls back to ratio sampling for root spans.
	SamplerParent = "parent"
)

// createSampler builds the sampler for strategy. ratio is used by the ratio
// and parent strategies.
//
//	telemetry:
//	  tracing:
//	    sampler: ratio
//	    sample_ratio: 0.1
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	switch strategy {
	case SamplerAlways:
		return sdktrace.AlwaysSample(), nil
	case SamplerNever:
		return sdktrace.NeverSample(), nil
	case SamplerRatio, "":
		if err := checkRatio(ratio); err != nil {
			return nil, err
		}
		return sdktrace.TraceIDRatioBased(ratio), nil
	case SamplerParent:
		if err := checkRatio(ratio); err != nil {
			return nil, err
		}
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio)), nil
	default:
		return nil, fmt.Errorf("unknown sampler strategy: %s (valid: always, never, ratio, parent)", strategy)
	}
}

func checkRatio(ratio float64) error {
	if ratio < 0.0 || ratio > 1.0 {
		return fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", ratio)
	}
	return nil
}
