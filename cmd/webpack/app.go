package main

import (
	"context"
	"fmt"
	"time"

	"github.com/CubeSugarZhang/webpack/pkg/cli"
	"github.com/CubeSugarZhang/webpack/pkg/config"
	"github.com/CubeSugarZhang/webpack/pkg/configfile"
	"github.com/CubeSugarZhang/webpack/pkg/options"
	"github.com/CubeSugarZhang/webpack/pkg/runner"
	"github.com/CubeSugarZhang/webpack/pkg/schema/parser"
	"github.com/CubeSugarZhang/webpack/pkg/telemetry/logging"
	"github.com/CubeSugarZhang/webpack/pkg/telemetry/metrics"
	"github.com/CubeSugarZhang/webpack/pkg/telemetry/tracing"
	"github.com/CubeSugarZhang/webpack/pkg/validation"

	"github.com/spf13/cobra"
)

const (
	schemaSourceBuiltin = "builtin"
	schemaSourceFile    = "file"
)

// app holds what every command needs: the tool configuration and the
// telemetry built from it.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// schemaFlags are shared by the commands that select a schema.
type schemaFlags struct {
	path   string
	header string
}

func (f *schemaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.path, "schema", "s", "", "schema document to validate against (default: built-in webpack options)")
	cmd.Flags().StringVar(&f.header, "header", "", "first line of failure reports")
}

// newApp loads the tool configuration, applies flag overrides and sets up
// logging, metrics and tracing. Call close when the command is done.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("config", fmt.Sprintf("failed to load %s: %v", cfgFile, err))
	}

	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	config.SetConfig(cfg)

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, cmd.ErrOrStderr()))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		tracer:  tracer,
	}, nil
}

// close flushes pending spans.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to flush traces", "error", err)
	}
}

// schemaPath returns the schema document selected by flag or
// configuration, "" for the built-in schema.
func (a *app) schemaPath(flags *schemaFlags) string {
	if flags.path != "" {
		return flags.path
	}
	return a.cfg.Schema.Path
}

// loadValidator builds a validator for the selected schema and reports
// which schema it uses.
func (a *app) loadValidator(flags *schemaFlags) (*validation.Validator, string, error) {
	var opts []validation.Option
	header := flags.header
	if header == "" {
		header = a.cfg.Validation.Header
	}
	if header != "" {
		opts = append(opts, validation.WithHeader(header))
	}

	path := a.schemaPath(flags)
	if path == "" {
		v, err := options.NewValidator(opts...)
		a.metrics.RecordSchemaLoad(schemaSourceBuiltin, err)
		if err != nil {
			return nil, "", err
		}
		return v, schemaSourceBuiltin, nil
	}

	root, err := parser.NewParser().
		WithMaxFileSize(a.cfg.Schema.MaxFileSize).
		WithMetaValidation(!a.cfg.Schema.SkipMetaValidation).
		Parse(path)
	a.metrics.RecordSchemaLoad(schemaSourceFile, err)
	if err != nil {
		return nil, "", err
	}
	a.logger.Debug("schema loaded", "path", path)
	return validation.NewValidator(root, opts...), path, nil
}

// newRunner wires a runner for v with the app's telemetry.
func (a *app) newRunner(v *validation.Validator, source string) *runner.Runner {
	return runner.New(v,
		runner.WithLogger(a.logger),
		runner.WithMetrics(a.metrics),
		runner.WithTracer(a.tracer),
		runner.WithLoader(configfile.NewLoader().WithMaxFileSize(a.cfg.Schema.MaxFileSize)),
		runner.WithSchemaSource(source),
	)
}

// outputFormat resolves the --format flag, falling back to the configured
// default.
func (a *app) outputFormat(flag string) (cli.OutputFormat, error) {
	if flag == "" {
		flag = a.cfg.Validation.Format
	}
	return cli.ParseFormat(flag)
}

// commandContext returns the command's context with any trace parent from
// the environment.
func (a *app) commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return a.tracer.ExtractFromEnv(ctx)
}
