// Package runner ties configuration loading, validation and telemetry
// together for one validation run.
//
//	r := runner.New(validator,
//	    runner.WithLogger(logger),
//	    runner.WithMetrics(collector),
//	    runner.WithTracer(tracer),
//	)
//	report, err := r.ValidateFiles(ctx, []string{"webpack.config.yaml"})
//
// Every run gets a UUID that appears in the Report, in log records and on
// the "validation.run" span. An invalid configuration yields both a Report
// and the *validation.ValidationError; a file that cannot be loaded yields
// only the error.
package runner
