package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CubeSugarZhang/webpack/pkg/config"
	"github.com/CubeSugarZhang/webpack/pkg/options"
	"github.com/CubeSugarZhang/webpack/pkg/schema"
	"github.com/CubeSugarZhang/webpack/pkg/telemetry/logging"
	"github.com/CubeSugarZhang/webpack/pkg/telemetry/metrics"
	"github.com/CubeSugarZhang/webpack/pkg/telemetry/tracing"
	"github.com/CubeSugarZhang/webpack/pkg/validation"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func testValidator() *validation.Validator {
	root := schema.Object(
		schema.RequiredProp("entry", schema.NonEmptyString()),
		schema.Prop("context", schema.AbsolutePath(true)),
	)
	return validation.NewValidator(root)
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// metricValue returns the value of the series of name whose labels include
// every pair in labels.
func metricValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if hasLabels(m, labels) {
				switch {
				case m.GetCounter() != nil:
					return m.GetCounter().GetValue()
				case m.GetGauge() != nil:
					return m.GetGauge().GetValue()
				case m.GetHistogram() != nil:
					return float64(m.GetHistogram().GetSampleCount())
				}
			}
		}
	}
	return 0
}

func hasLabels(m *dto.Metric, labels map[string]string) bool {
	for k, v := range labels {
		found := false
		for _, lp := range m.GetLabel() {
			if lp.GetName() == k && lp.GetValue() == v {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestValidateFiles_Valid(t *testing.T) {
	path := writeConfig(t, "webpack.config.yaml", "entry: ./src\ncontext: /app\n")

	r := New(testValidator())
	report, err := r.ValidateFiles(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("ValidateFiles() error = %v", err)
	}

	if !report.Valid || report.Configurations != 1 || len(report.Entries) != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
	if report.RunID == "" {
		t.Error("expected a run ID")
	}
	if report.Trigger != TriggerManual {
		t.Errorf("Trigger = %q, want %q", report.Trigger, TriggerManual)
	}
	if want := "1 configuration valid (" + path + ")"; report.String() != want {
		t.Errorf("String() = %q, want %q", report.String(), want)
	}
}

func TestValidateFiles_Invalid(t *testing.T) {
	path := writeConfig(t, "webpack.config.yaml", "context: src\n")

	r := New(testValidator())
	report, err := r.ValidateFiles(context.Background(), []string{path})

	if !validation.IsValidationError(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if report == nil || report.Valid {
		t.Fatalf("expected an invalid report, got %+v", report)
	}

	want := validation.DefaultHeader + "\n" +
		" - configuration misses the property 'entry'.\n" +
		"   non-empty string\n" +
		` - configuration.context: The provided value "src" is not an absolute path!`
	if report.Text != want {
		t.Errorf("Text =\n%s\nwant\n%s", report.Text, want)
	}
	if report.Text != err.Error() {
		t.Error("report text and error message differ")
	}
	if report.String() != report.Text {
		t.Error("String() of an invalid report should be its text")
	}

	wantEntries := []Entry{
		{Path: "configuration.entry", Kind: "missing-required-property", Message: "configuration misses the property 'entry'.\n   non-empty string"},
		{Path: "configuration.context", Kind: "custom-semantic", Message: `configuration.context: The provided value "src" is not an absolute path!`},
	}
	if len(report.Entries) != len(wantEntries) {
		t.Fatalf("Entries = %+v, want %+v", report.Entries, wantEntries)
	}
	for i, want := range wantEntries {
		if report.Entries[i] != want {
			t.Errorf("Entries[%d] = %+v, want %+v", i, report.Entries[i], want)
		}
	}
	if rows := report.Rows(); len(rows) != 2 || rows[1][1] != "custom-semantic" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestValidateFiles_MultipleFiles(t *testing.T) {
	first := writeConfig(t, "a.yaml", "entry: ./a\n")
	second := writeConfig(t, "b.yaml", "entry: ./b\n---\nentry: ''\n")

	r := New(testValidator())
	report, err := r.ValidateFiles(context.Background(), []string{first, second})
	if !validation.IsValidationError(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}

	if report.Configurations != 3 {
		t.Errorf("Configurations = %d, want 3", report.Configurations)
	}
	if len(report.Entries) != 1 || report.Entries[0].Path != "configuration[2].entry" {
		t.Errorf("unexpected entries: %+v", report.Entries)
	}
}

func TestValidateFiles_LoadErrors(t *testing.T) {
	good := writeConfig(t, "good.yaml", "entry: ./src\n")
	bad := writeConfig(t, "bad.yaml", "entry: [unclosed\n")
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true, Namespace: "test", Subsystem: "runner"}, reg)

	r := New(testValidator(), WithMetrics(collector))
	report, err := r.ValidateFiles(context.Background(), []string{good, bad, missing})

	if err == nil || report != nil {
		t.Fatalf("expected a load error and no report, got %v / %+v", err, report)
	}
	if validation.IsValidationError(err) {
		t.Error("load failures must not look like validation errors")
	}
	if got := metricValue(t, reg, "test_runner_load_errors_total", nil); got != 2 {
		t.Errorf("load_errors_total = %v, want 2", got)
	}
	if got := metricValue(t, reg, "test_runner_runs_total", map[string]string{"outcome": metrics.OutcomeError}); got != 1 {
		t.Errorf("runs_total{outcome=error} = %v, want 1", got)
	}
}

func TestValidateBytes(t *testing.T) {
	r := New(testValidator())

	report, err := r.ValidateBytes(context.Background(), []byte(`{"entry": "./src"}`), "<stdin>")
	if err != nil {
		t.Fatalf("ValidateBytes() error = %v", err)
	}
	if !report.Valid || report.Files[0] != "<stdin>" {
		t.Errorf("unexpected report: %+v", report)
	}

	if _, err := r.ValidateBytes(context.Background(), nil, "<stdin>"); err == nil {
		t.Error("expected an error for empty input")
	}
}

func TestRunner_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true, Namespace: "test", Subsystem: "runner"}, reg)
	r := New(testValidator(), WithMetrics(collector))

	invalid := writeConfig(t, "invalid.yaml", "context: src\n")
	valid := writeConfig(t, "valid.yaml", "entry: ./src\n")

	ctx := WithTrigger(context.Background(), TriggerFile)
	_, _ = r.ValidateFiles(ctx, []string{invalid})
	_, _ = r.ValidateFiles(ctx, []string{valid})

	tests := []struct {
		name   string
		metric string
		labels map[string]string
		want   float64
	}{
		{name: "invalid runs", metric: "test_runner_runs_total", labels: map[string]string{"outcome": "invalid"}, want: 1},
		{name: "valid runs", metric: "test_runner_runs_total", labels: map[string]string{"outcome": "valid"}, want: 1},
		{name: "duration observations", metric: "test_runner_run_duration_seconds", labels: map[string]string{"outcome": "valid"}, want: 1},
		{name: "missing property", metric: "test_runner_violations_total", labels: map[string]string{"kind": "missing-required-property"}, want: 1},
		{name: "custom", metric: "test_runner_violations_total", labels: map[string]string{"kind": "custom-semantic"}, want: 1},
		{name: "entry property", metric: "test_runner_property_violations_total", labels: map[string]string{"property": "entry"}, want: 1},
		{name: "context property", metric: "test_runner_property_violations_total", labels: map[string]string{"property": "context"}, want: 1},
		{name: "configurations", metric: "test_runner_configurations_total", want: 2},
		{name: "file triggers", metric: "test_runner_triggers_total", labels: map[string]string{"trigger": "file"}, want: 2},
		{name: "last run violations", metric: "test_runner_last_run_violations", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := metricValue(t, reg, tt.metric, tt.labels); got != tt.want {
				t.Errorf("%s%v = %v, want %v", tt.metric, tt.labels, got, tt.want)
			}
		})
	}
}

func TestRunner_Tracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := tracing.NewWithExporter(&config.TracingConfig{Enabled: true, Sampler: tracing.SamplerAlways}, "test", sdktrace.WithSyncer(exporter))
	if err != nil {
		t.Fatal(err)
	}
	defer tracer.Shutdown(context.Background())

	r := New(testValidator(), WithTracer(tracer), WithSchemaSource("test-schema.yaml"))
	path := writeConfig(t, "webpack.config.yaml", "context: src\n")
	report, _ := r.ValidateFiles(context.Background(), []string{path})

	spans := exporter.GetSpans()
	names := make([]string, 0, len(spans))
	for _, s := range spans {
		names = append(names, s.Name)
	}
	want := []string{tracing.SpanLoadFile, tracing.SpanValidate, tracing.SpanValidationRun}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("spans = %v, want %v", names, want)
	}

	run := spans[2]
	var runID string
	for _, kv := range run.Attributes {
		if string(kv.Key) == tracing.AttrRunID {
			runID = kv.Value.AsString()
		}
	}
	if runID != report.RunID {
		t.Errorf("span run ID = %q, want %q", runID, report.RunID)
	}
	violationEvents := 0
	for _, ev := range run.Events {
		if ev.Name == tracing.EventViolation {
			violationEvents++
		}
	}
	if violationEvents != 2 {
		t.Errorf("expected one event per violation, got %d", violationEvents)
	}
}

func TestRunner_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	r := New(testValidator(), WithLogger(logger))
	path := writeConfig(t, "webpack.config.yaml", "entry: ./src\n")
	report, err := r.ValidateFiles(context.Background(), []string{path})
	if err != nil {
		t.Fatal(err)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "Configuration valid" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["run_id"] != report.RunID {
		t.Errorf("run_id = %v, want %s", entry["run_id"], report.RunID)
	}
	if entry["schema"] != "builtin" {
		t.Errorf("schema = %v, want builtin", entry["schema"])
	}
	if entry["config_file"] != path {
		t.Errorf("config_file = %v, want %s", entry["config_file"], path)
	}
}

func TestRunner_WebpackOptions(t *testing.T) {
	v, err := options.NewValidator(validation.WithHeader(options.Header))
	if err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, "webpack.config.yaml", "entry: ./src\noutput:\n  filename: /abs/bundle.js\n")

	report, err := New(v).ValidateFiles(context.Background(), []string{path})
	var ve *validation.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if !strings.HasPrefix(report.Text, options.Header+"\n - configuration.output.filename: ") {
		t.Errorf("unexpected report:\n%s", report.Text)
	}
}

func TestTopLevelProperty(t *testing.T) {
	tests := []struct {
		name string
		v    validation.Violation
		want string
	}{
		{name: "root", v: validation.Violation{Path: validation.Root()}, want: ""},
		{name: "unknown key on root", v: validation.Violation{Path: validation.Root(), Property: "debug"}, want: "debug"},
		{name: "nested", v: validation.Violation{Path: validation.Root().Property("module").Property("rules").Index(0)}, want: "module"},
		{name: "indexed configuration", v: validation.Violation{Path: validation.Root().Index(1).Property("output")}, want: "output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := topLevelProperty(tt.v); got != tt.want {
				t.Errorf("topLevelProperty() = %q, want %q", got, tt.want)
			}
		})
	}
}
