package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes of watch
// callbacks and reads from the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// setupCommand points cmd at fresh output buffers and resets global flags
// when the test ends.
func setupCommand(t *testing.T, cmd *cobra.Command) (stdout, stderr *syncBuffer) {
	t.Helper()

	stdout, stderr = &syncBuffer{}, &syncBuffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetContext(context.Background())

	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
		cmd.SetIn(nil)
		cfgFile = ""
		verbose = false
		logLevel = ""
		validateFlags.schema, validateFlags.format = schemaFlags{}, ""
		watchFlags.schema, watchFlags.format, watchFlags.schedule = schemaFlags{}, "", ""
		describeFlags.schema, describeFlags.format, describeFlags.meta = schemaFlags{}, "text", false
	})
	return stdout, stderr
}

// copyFile copies a testdata file into dir and returns the new path.
func copyFile(t *testing.T, src, dir string) string {
	t.Helper()

	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("failed to read %s: %v", src, err)
	}
	dst := filepath.Join(dir, filepath.Base(src))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", dst, err)
	}
	return dst
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
