package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/CubeSugarZhang/webpack/pkg/cli"
	"github.com/CubeSugarZhang/webpack/pkg/config"
	"github.com/CubeSugarZhang/webpack/pkg/runner"
	"github.com/CubeSugarZhang/webpack/pkg/telemetry/health"
	"github.com/CubeSugarZhang/webpack/pkg/validation"
	"github.com/CubeSugarZhang/webpack/pkg/watch"

	"github.com/spf13/cobra"
)

var watchFlags struct {
	schema   schemaFlags
	format   string
	schedule string
}

var watchCmd = &cobra.Command{
	Use:   "watch [files...]",
	Short: "Revalidate configuration files when they change",
	Long: `Validate configuration files, then validate them again whenever they
or the schema document change.

Each run prints a report. A schema document that no longer loads is
reported and the previous schema stays in use. With a cron schedule the
files are also revalidated periodically.

When --config names a file it is watched too. Its validation, schema and
watch extension settings apply from the next run; telemetry, the schedule
and the schema path take effect on restart.

When metrics or health endpoints are enabled they are served on
telemetry.metrics.listen_address while watching.

Examples:
  # Watch a configuration
  webpack watch webpack.config.yaml

  # Watch a directory of configurations
  webpack watch configs/

  # Also revalidate every five minutes
  webpack watch --schedule "*/5 * * * *" webpack.config.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: watchConfigs,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchFlags.schema.register(watchCmd)
	watchCmd.Flags().StringVarP(&watchFlags.format, "format", "f", "", "output format: text, json, csv (default from config)")
	watchCmd.Flags().StringVar(&watchFlags.schedule, "schedule", "", "cron expression for periodic revalidation (overrides watch.schedule)")
}

func watchConfigs(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	format, err := a.outputFormat(watchFlags.format)
	if err != nil {
		return err
	}
	if watchFlags.schedule != "" {
		a.cfg.Watch.Schedule = watchFlags.schedule
	}

	s, err := newWatchSession(a, &watchFlags.schema, args, format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx, stop := cli.SetupSignalHandler(a.commandContext(cmd))
	defer stop()

	stopServer, err := s.serve(ctx)
	if err != nil {
		return err
	}
	defer stopServer()

	s.revalidate(ctx, runner.TriggerStartup)

	paths := append([]string(nil), args...)
	if s.schemaPath != "" {
		paths = append(paths, s.schemaPath)
	}
	if s.configPath != "" {
		paths = append(paths, s.configPath)
	}
	fwCfg := watch.ConfigFromWatch(a.cfg.Watch, paths)
	fwCfg.Recorder = a.metrics
	fw, err := watch.NewFileWatcher(fwCfg, a.logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer fw.Stop()

	scheduler := watch.NewScheduler(a.cfg.Watch.Schedule, a.logger)
	if err := scheduler.Start(ctx, func(ctx context.Context) {
		s.revalidate(ctx, runner.TriggerSchedule)
	}); err != nil {
		return cli.NewConfigError("watch.schedule", err.Error())
	}
	defer scheduler.Stop()
	if scheduler.IsRunning() {
		if next := scheduler.NextRun(); next != nil {
			a.logger.Info("next scheduled revalidation", "at", next.Format(time.RFC3339))
		}
	}

	s.watcherReady.Set(nil)
	err = fw.Watch(ctx, s.onChange(ctx))
	s.watcherReady.Set(errors.New("file watcher stopped"))
	return err
}

// watchSession revalidates a fixed set of files with a schema that may be
// reloaded while watching.
type watchSession struct {
	app        *app
	flags      *schemaFlags
	files      []string
	schemaPath string // absolute; "" for the built-in schema
	configPath string // absolute; "" without --config
	format     cli.OutputFormat
	out        io.Writer

	runner atomic.Pointer[runner.Runner]

	// mu serializes runs and report output.
	mu sync.Mutex

	schemaReady  *health.Condition
	watcherReady *health.Condition
	checker      *health.Checker
}

func newWatchSession(a *app, flags *schemaFlags, files []string, format cli.OutputFormat, out io.Writer) (*watchSession, error) {
	s := &watchSession{
		app:          a,
		flags:        flags,
		files:        files,
		format:       format,
		out:          out,
		schemaReady:  health.NewCondition("schema not loaded"),
		watcherReady: health.NewCondition("file watcher not started"),
		checker:      health.New(a.cfg.Telemetry.Health.CheckTimeout),
	}
	s.checker.RegisterCheck("schema", s.schemaReady.Check)
	s.checker.RegisterCheck("watcher", s.watcherReady.Check)

	if path := a.schemaPath(flags); path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve schema path: %w", err)
		}
		s.schemaPath = abs
	}
	if cfgFile != "" {
		abs, err := filepath.Abs(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		s.configPath = abs
	}

	if err := s.reloadSchema(); err != nil {
		return nil, cli.NewCommandError("watch", err)
	}
	return s, nil
}

// reloadSchema loads the schema again. On failure the previous runner is
// kept and the schema condition reports the error.
func (s *watchSession) reloadSchema() error {
	v, source, err := s.app.loadValidator(s.flags)
	if err != nil {
		s.schemaReady.Set(fmt.Errorf("schema failed to load: %w", err))
		return err
	}
	s.runner.Store(s.app.newRunner(v, source))
	s.schemaReady.Set(nil)
	return nil
}

// revalidate runs the validator over the watched files and prints the
// report. Load failures are logged; they never stop watching.
func (s *watchSession) revalidate(ctx context.Context, trigger string) *runner.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := configFiles(s.files, s.app.cfg.Watch.Extensions)
	if err != nil {
		fmt.Fprintf(s.out, "configuration files could not be listed: %v\n", err)
		return nil
	}

	report, err := s.runner.Load().ValidateFiles(runner.WithTrigger(ctx, trigger), files)
	if report == nil {
		fmt.Fprintf(s.out, "configuration files could not be loaded: %v\n", err)
		return nil
	}
	if err != nil && !validation.IsValidationError(err) {
		s.app.logger.Error("validation run failed", "error", err)
	}
	if err := cli.NewFormatter(s.format).FormatTo(s.out, report); err != nil {
		s.app.logger.Error("failed to write report", "error", err)
	}
	return report
}

func (s *watchSession) schemaName() string {
	if s.schemaPath == "" {
		return schemaSourceBuiltin
	}
	return s.schemaPath
}

// reloadConfig reloads the tool configuration file. Telemetry, the
// schedule and the schema path stay as they were when watching started.
func (s *watchSession) reloadConfig() error {
	if err := config.ReloadConfig(s.configPath); err != nil {
		return err
	}
	next := *config.GetConfig()

	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.app.cfg
	next.Telemetry = cur.Telemetry
	next.Watch.Schedule = cur.Watch.Schedule
	next.Watch.DebounceInterval = cur.Watch.DebounceInterval
	next.Schema.Path = cur.Schema.Path
	s.app.cfg = &next
	return nil
}

// onChange reacts to a debounced burst of file events. A change to the
// tool configuration or the schema document reloads the schema before
// revalidating.
func (s *watchSession) onChange(ctx context.Context) func(watch.Event) {
	return func(ev watch.Event) {
		reload := false
		if s.configPath != "" && ev.Touches(s.configPath) {
			if err := s.reloadConfig(); err != nil {
				s.app.logger.Error("configuration reload failed, keeping previous configuration",
					"path", s.configPath,
					"error", err,
				)
				fmt.Fprintf(s.out, "tool configuration %s could not be loaded: %v\n", s.configPath, err)
			} else {
				s.app.logger.Info("configuration reloaded", "path", s.configPath)
				reload = true
			}
		}
		if s.schemaPath != "" && ev.Touches(s.schemaPath) {
			reload = true
		}

		if reload {
			if err := s.reloadSchema(); err != nil {
				s.app.logger.Error("schema reload failed, keeping previous schema",
					"schema", s.schemaName(),
					"error", err,
				)
				fmt.Fprintf(s.out, "schema %s could not be loaded: %v\n", s.schemaName(), err)
				return
			}
			s.app.logger.Info("schema reloaded", "schema", s.schemaName())
		}
		s.revalidate(ctx, runner.TriggerFile)
	}
}

// serve exposes metrics and health endpoints when either is enabled. The
// returned function shuts the server down.
func (s *watchSession) serve(ctx context.Context) (func(), error) {
	telemetry := s.app.cfg.Telemetry
	if !telemetry.Metrics.Enabled && !telemetry.Health.Enabled {
		return func() {}, nil
	}

	mux := http.NewServeMux()
	if telemetry.Metrics.Enabled {
		mux.Handle(telemetry.Metrics.Path, s.app.metrics.Handler())
	}
	health.Register(mux, s.checker, telemetry.Health)

	server := &http.Server{
		Addr:              telemetry.Metrics.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Surface bind errors before the first run.
	select {
	case err := <-errCh:
		return nil, fmt.Errorf("failed to serve telemetry on %s: %w", server.Addr, err)
	case <-time.After(50 * time.Millisecond):
	}
	s.app.logger.Info("telemetry endpoints listening", "address", server.Addr)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.app.logger.Warn("telemetry server shutdown failed", "error", err)
		}
	}, nil
}

// configFiles expands directories in paths to the configuration files
// below them, in lexical order. Hidden files and directories are skipped.
func configFiles(paths, extensions []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			// Missing files are reported by the loader.
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			hidden := p != path && strings.HasPrefix(d.Name(), ".")
			if d.IsDir() {
				if hidden {
					return filepath.SkipDir
				}
				return nil
			}
			if !hidden && slices.Contains(extensions, strings.ToLower(filepath.Ext(p))) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %q: %w", path, err)
		}
	}
	if len(files) == 0 {
		return nil, errors.New("no configuration files found")
	}
	return files, nil
}
