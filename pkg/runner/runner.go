package runner

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/CubeSugarZhang/webpack/pkg/configfile"
	"github.com/CubeSugarZhang/webpack/pkg/telemetry/logging"
	"github.com/CubeSugarZhang/webpack/pkg/telemetry/metrics"
	"github.com/CubeSugarZhang/webpack/pkg/telemetry/tracing"
	"github.com/CubeSugarZhang/webpack/pkg/validation"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel/trace"
)

// Triggers recorded for runs.
const (
	TriggerManual   = "manual"
	TriggerStartup  = "startup"
	TriggerFile     = "file"
	TriggerSchedule = "schedule"
)

type triggerKey struct{}

// WithTrigger records what caused the run started with ctx.
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, triggerKey{}, trigger)
}

func triggerFrom(ctx context.Context) string {
	if t, ok := ctx.Value(triggerKey{}).(string); ok && t != "" {
		return t
	}
	return TriggerManual
}

// Runner loads configuration files, validates them and records logs,
// metrics and spans for every run. A Runner is safe for concurrent use.
type Runner struct {
	validator    *validation.Validator
	loader       *configfile.Loader
	logger       *logging.Logger
	metrics      *metrics.Collector
	tracer       *tracing.Tracer
	schemaSource string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithMetrics sets the metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) { r.metrics = c }
}

// WithTracer sets the tracer.
func WithTracer(t *tracing.Tracer) Option {
	return func(r *Runner) { r.tracer = t }
}

// WithLoader replaces the configuration file loader.
func WithLoader(l *configfile.Loader) Option {
	return func(r *Runner) { r.loader = l }
}

// WithSchemaSource names the schema in logs and spans, e.g. its file path.
func WithSchemaSource(source string) Option {
	return func(r *Runner) { r.schemaSource = source }
}

// New creates a Runner for validator.
func New(validator *validation.Validator, opts ...Option) *Runner {
	r := &Runner{
		validator:    validator,
		loader:       configfile.NewLoader(),
		logger:       logging.Nop(),
		tracer:       tracing.Noop(),
		schemaSource: "builtin",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ValidateFiles loads paths and validates their configurations as one run.
// Several files, or a file with several documents, are validated as an
// array of configurations.
//
// When a configuration is invalid the report is returned together with the
// *validation.ValidationError. When a file cannot be loaded no report is
// produced and the aggregated load error is returned.
func (r *Runner) ValidateFiles(ctx context.Context, paths []string) (*Report, error) {
	run := r.begin(ctx, paths)
	defer run.span.End()

	_, loadSpan := r.tracer.Start(run.ctx, tracing.SpanLoadFile)
	files, err := r.loader.LoadFiles(paths)
	tracing.SetError(loadSpan, err)
	loadSpan.End()

	if err != nil {
		r.loadFailed(run, err)
		return nil, err
	}

	return r.check(run, configfile.Combine(files))
}

// ValidateBytes validates configuration data read from source, such as
// standard input.
func (r *Runner) ValidateBytes(ctx context.Context, data []byte, source string) (*Report, error) {
	run := r.begin(ctx, []string{source})
	defer run.span.End()

	cfg, err := r.loader.LoadBytes(data, source)
	if err != nil {
		r.loadFailed(run, err)
		return nil, err
	}
	return r.check(run, cfg)
}

type runState struct {
	ctx    context.Context
	span   trace.Span
	report *Report
	start  time.Time
}

func (r *Runner) begin(ctx context.Context, paths []string) *runState {
	report := &Report{
		RunID:   uuid.NewString(),
		Trigger: triggerFrom(ctx),
		Files:   append([]string(nil), paths...),
	}

	ctx = logging.WithRunID(ctx, report.RunID)
	ctx = logging.WithConfigFile(ctx, strings.Join(paths, ","))
	ctx = logging.WithSchema(ctx, r.schemaSource)
	ctx, span := r.tracer.Start(ctx, tracing.SpanValidationRun)
	if traceID := tracing.TraceID(ctx); traceID != "" {
		ctx = logging.WithTraceID(ctx, traceID)
	}
	tracing.SetRunAttributes(span, tracing.RunAttributes{
		RunID:   report.RunID,
		Trigger: report.Trigger,
		Files:   report.Files,
		Schema:  r.schemaSource,
	})
	r.metrics.RecordTrigger(report.Trigger)
	r.logger.DebugContext(ctx, "Validation run started", "files", report.Files, "trigger", report.Trigger)

	return &runState{ctx: ctx, span: span, report: report, start: time.Now()}
}

func (r *Runner) check(run *runState, cfg any) (*Report, error) {
	_, span := r.tracer.Start(run.ctx, tracing.SpanValidate)
	res := r.validator.Check(cfg)
	span.End()

	report := run.report
	report.Duration = time.Since(run.start)
	report.Configurations = res.Configurations
	report.Valid = res.Valid()

	violations := res.Violations()
	tracing.SetResultAttributes(run.span, res.Configurations, len(violations))

	if report.Valid {
		r.metrics.RecordRun(metrics.OutcomeValid, report.Duration, res.Configurations, 0)
		tracing.SetError(run.span, nil)
		r.logger.InfoContext(run.ctx, "Configuration valid",
			"configurations", res.Configurations,
			"duration_ms", report.Duration.Milliseconds(),
		)
		return report, nil
	}

	err := r.validator.Err(res)
	report.Text = err.Error()
	report.Entries = newEntries(violations)

	for _, v := range violations {
		r.metrics.RecordViolation(string(v.Kind), topLevelProperty(v))
		tracing.AddViolationEvent(run.span, v.Path.String(), string(v.Kind))
	}
	r.metrics.RecordRun(metrics.OutcomeInvalid, report.Duration, res.Configurations, len(violations))
	tracing.SetError(run.span, validation.ErrInvalidConfiguration)
	r.logger.WarnContext(run.ctx, "Configuration invalid",
		"configurations", res.Configurations,
		"violations", len(violations),
		"duration_ms", report.Duration.Milliseconds(),
	)

	return report, err
}

func (r *Runner) loadFailed(run *runState, err error) {
	failures := 1
	var merr *multierror.Error
	if errors.As(err, &merr) {
		failures = len(merr.Errors)
	}
	for i := 0; i < failures; i++ {
		r.metrics.RecordLoadError()
	}
	r.metrics.RecordRun(metrics.OutcomeError, time.Since(run.start), 0, 0)
	tracing.SetError(run.span, err)
	r.logger.ErrorContext(run.ctx, "Failed to load configuration", "error", err)
}
