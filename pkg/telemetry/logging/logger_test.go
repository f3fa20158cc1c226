package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/CubeSugarZhang/webpack/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "valid JSON config", config: Config{Level: "info", Format: "json"}},
		{name: "valid text config", config: Config{Level: "debug", Format: "text"}},
		{name: "valid console config", config: Config{Level: "warn", Format: "console"}},
		{name: "empty config uses defaults", config: Config{}},
		{name: "invalid log level", config: Config{Level: "invalid", Format: "json"}, wantErr: true},
		{name: "invalid format", config: Config{Level: "info", Format: "invalid"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "warn", Format: "text", Writer: buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	for _, absent := range []string{"debug message", "info message"} {
		if strings.Contains(out, absent) {
			t.Errorf("output should not contain %q: %s", absent, out)
		}
	}
	for _, present := range []string{"warn message", "error message"} {
		if !strings.Contains(out, present) {
			t.Errorf("output should contain %q: %s", present, out)
		}
	}

	if logger.Enabled(slog.LevelInfo) {
		t.Error("Enabled(info) = true for a warn logger")
	}
	if !logger.Enabled(slog.LevelError) {
		t.Error("Enabled(error) = false for a warn logger")
	}
}

func TestLogger_JSONFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Writer: buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.With("component", "runner").Info("validation finished", "violations", 2)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "validation finished" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["component"] != "runner" {
		t.Errorf("component = %v", entry["component"])
	}
	if entry["violations"] != float64(2) {
		t.Errorf("violations = %v", entry["violations"])
	}
}

func TestLogger_ConsoleOmitsTime(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Format: "console", Writer: buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("watching")
	if strings.Contains(buf.String(), "time=") {
		t.Errorf("console output should omit time: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "msg=watching") {
		t.Errorf("unexpected console output: %s", buf.String())
	}
}

func TestLogger_ContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "debug", Format: "text", Writer: buf})
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithRunID(context.Background(), "run-1")
	ctx = WithConfigFile(ctx, "webpack.config.yaml")

	logger.InfoContext(ctx, "loaded")
	out := buf.String()
	if !strings.Contains(out, "run_id=run-1") || !strings.Contains(out, "config_file=webpack.config.yaml") {
		t.Errorf("context fields missing: %s", out)
	}

	buf.Reset()
	logger.WithContext(ctx).Warn("slow")
	if !strings.Contains(buf.String(), "run_id=run-1") {
		t.Errorf("WithContext fields missing: %s", buf.String())
	}
}

func TestFromConfig(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := FromConfig(config.LoggingConfig{Level: "error", Format: "json", AddSource: true}, buf)
	if cfg.Level != "error" || cfg.Format != "json" || !cfg.AddSource || cfg.Writer != buf {
		t.Errorf("FromConfig() = %+v", cfg)
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("dropped")
	if logger.Enabled(slog.LevelError) {
		t.Error("Nop logger should not be enabled at any level")
	}
}
