package main

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/CubeSugarZhang/webpack/pkg/cli"
	"github.com/CubeSugarZhang/webpack/pkg/config"
	"github.com/CubeSugarZhang/webpack/pkg/runner"
	"github.com/CubeSugarZhang/webpack/pkg/watch"
)

func newTestSession(t *testing.T, flags *schemaFlags, files []string) (*watchSession, *syncBuffer) {
	t.Helper()

	stdout, _ := setupCommand(t, watchCmd)
	a, err := newApp(watchCmd)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	t.Cleanup(a.close)

	s, err := newWatchSession(a, flags, files, cli.FormatText, stdout)
	if err != nil {
		t.Fatalf("newWatchSession() error = %v", err)
	}
	return s, stdout
}

func TestWatchSession_Revalidate(t *testing.T) {
	s, stdout := newTestSession(t, &schemaFlags{}, []string{"testdata/invalid.yaml"})

	report := s.revalidate(context.Background(), runner.TriggerStartup)
	if report == nil {
		t.Fatal("expected a report")
	}
	if report.Valid || report.Trigger != runner.TriggerStartup {
		t.Errorf("unexpected report: %+v", report)
	}
	if !strings.Contains(stdout.String(), "configuration.context") {
		t.Errorf("report not printed:\n%s", stdout.String())
	}
}

func TestWatchSession_LoadFailureKeepsWatching(t *testing.T) {
	s, stdout := newTestSession(t, &schemaFlags{}, []string{"testdata/nonexistent.yaml"})

	if report := s.revalidate(context.Background(), runner.TriggerFile); report != nil {
		t.Errorf("expected no report, got %+v", report)
	}
	if !strings.Contains(stdout.String(), "could not be loaded") {
		t.Errorf("load failure not reported:\n%s", stdout.String())
	}
}

const regionSchema = `type: object
properties:
  name:
    type: string
  replicas:
    type: number
  mode:
    type: string
  region:
    type: string
required: [name, region]
`

func TestWatchSession_SchemaReload(t *testing.T) {
	dir := t.TempDir()
	schemaPath := copyFile(t, "testdata/service.schema.yaml", dir)
	configPath := copyFile(t, "testdata/service.yaml", dir)

	s, stdout := newTestSession(t, &schemaFlags{path: schemaPath}, []string{configPath})
	ctx := context.Background()
	onChange := s.onChange(ctx)

	if err := s.schemaReady.Check(ctx); err != nil {
		t.Fatalf("schema should be ready: %v", err)
	}

	// A broken schema is reported and the previous one stays in use.
	broken, err := os.ReadFile("testdata/broken.schema.yaml")
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, schemaPath, string(broken))
	onChange(watch.Event{Path: schemaPath, Op: "WRITE"})

	if err := s.schemaReady.Check(ctx); err == nil {
		t.Error("schema condition should report the failed reload")
	}
	if !strings.Contains(stdout.String(), "could not be loaded") {
		t.Errorf("reload failure not reported:\n%s", stdout.String())
	}
	if report := s.revalidate(ctx, runner.TriggerFile); report == nil || !report.Valid {
		t.Errorf("previous schema should still validate the file, got %+v", report)
	}

	// A schema requiring a new property takes effect immediately.
	writeFile(t, schemaPath, regionSchema)
	onChange(watch.Event{Path: schemaPath, Op: "WRITE"})

	if err := s.schemaReady.Check(ctx); err != nil {
		t.Errorf("schema should be ready after a good reload: %v", err)
	}
	if !strings.Contains(stdout.String(), "misses the property 'region'") {
		t.Errorf("new schema not applied:\n%s", stdout.String())
	}
}

func TestWatchSession_SchemaChangedInSameBurst(t *testing.T) {
	dir := t.TempDir()
	schemaPath := copyFile(t, "testdata/service.schema.yaml", dir)
	configPath := copyFile(t, "testdata/service.yaml", dir)

	s, stdout := newTestSession(t, &schemaFlags{path: schemaPath}, []string{configPath})

	// Both files saved together; the config file is the last event.
	writeFile(t, schemaPath, regionSchema)
	s.onChange(context.Background())(watch.Event{
		Path:  configPath,
		Op:    "WRITE",
		Paths: []string{schemaPath, configPath},
	})

	if !strings.Contains(stdout.String(), "misses the property 'region'") {
		t.Errorf("schema change in the same burst not applied:\n%s", stdout.String())
	}
}

func TestWatchSession_ToolConfigReload(t *testing.T) {
	dir := t.TempDir()
	toolPath := filepath.Join(dir, "tool.yaml")
	writeFile(t, toolPath, "validation:\n  header: \"First header.\"\n")
	cfgFile = toolPath

	s, stdout := newTestSession(t, &schemaFlags{}, []string{"testdata/invalid.yaml"})
	onChange := s.onChange(context.Background())

	writeFile(t, toolPath, "validation:\n  header: \"Second header.\"\n")
	onChange(watch.Event{Path: toolPath, Op: "WRITE"})

	if !strings.Contains(stdout.String(), "Second header.\n") {
		t.Errorf("reloaded header not used:\n%s", stdout.String())
	}
	if got := config.GetConfig().Validation.Header; got != "Second header." {
		t.Errorf("GetConfig().Validation.Header = %q, want %q", got, "Second header.")
	}

	writeFile(t, toolPath, "validation:\n  format: xml\n")
	onChange(watch.Event{Path: toolPath, Op: "WRITE"})

	if !strings.Contains(stdout.String(), "tool configuration "+toolPath+" could not be loaded") {
		t.Errorf("reload failure not reported:\n%s", stdout.String())
	}
	if got := s.app.cfg.Validation.Header; got != "Second header." {
		t.Errorf("header after failed reload = %q, want the previous one", got)
	}
}

func TestWatchSession_Readiness(t *testing.T) {
	s, _ := newTestSession(t, &schemaFlags{}, []string{"testdata/valid.yaml"})
	ctx := context.Background()

	if s.checker.CheckReadiness(ctx).Ready() {
		t.Error("should not be ready before the watcher starts")
	}
	s.watcherReady.Set(nil)
	if status := s.checker.CheckReadiness(ctx); !status.Ready() {
		t.Errorf("expected ready, got %+v", status)
	}
	if got := s.checker.Checks(); !reflect.DeepEqual(got, []string{"schema", "watcher"}) {
		t.Errorf("Checks() = %v", got)
	}
}

func TestWatchSession_ServeDisabled(t *testing.T) {
	s, _ := newTestSession(t, &schemaFlags{}, []string{"testdata/valid.yaml"})

	stop, err := s.serve(context.Background())
	if err != nil {
		t.Fatalf("serve() error = %v", err)
	}
	stop()
}

func TestConfigFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.json", "notes.txt", ".hidden.yaml"} {
		writeFile(t, filepath.Join(dir, name), "entry: a\n")
	}
	for _, sub := range []string{"nested", ".git"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
		writeFile(t, filepath.Join(dir, sub, "c.yml"), "entry: a\n")
	}

	got, err := configFiles([]string{dir, "testdata/valid.yaml"}, []string{".yaml", ".yml", ".json"})
	if err != nil {
		t.Fatalf("configFiles() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "nested", "c.yml"),
		"testdata/valid.yaml",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("configFiles() = %v, want %v", got, want)
	}

	if _, err := configFiles([]string{t.TempDir()}, []string{".yaml"}); err == nil {
		t.Error("expected an error for a directory without configurations")
	}
}

func TestWatchConfigs(t *testing.T) {
	dir := t.TempDir()
	configPath := copyFile(t, "testdata/valid.yaml", dir)

	stdout, _ := setupCommand(t, watchCmd)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchCmd.SetContext(ctx)

	done := make(chan error, 1)
	go func() {
		done <- watchConfigs(watchCmd, []string{configPath})
	}()

	waitFor(t, stdout, "1 configuration valid", nil)

	// Rewrite until the watcher, which starts after the first run, sees it.
	waitFor(t, stdout, "is not an absolute path", func() {
		writeFile(t, configPath, "entry: ./src/index.js\ncontext: src\n")
	})

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchConfigs() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchConfigs did not stop after cancellation")
	}
}

// waitFor polls out until it contains want, calling poke before each poll.
func waitFor(t *testing.T, out *syncBuffer, want string, poke func()) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if poke != nil {
			poke()
		}
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in output:\n%s", want, out.String())
}
