package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/CubeSugarZhang/webpack/pkg/config"
	"github.com/CubeSugarZhang/webpack/pkg/telemetry/logging"

	"github.com/fsnotify/fsnotify"
)

// ErrAlreadyRunning is returned by Watch when the watcher is in use.
var ErrAlreadyRunning = errors.New("watcher already running")

// Event describes the file change that triggered a callback. After
// debouncing Path and Op are the last event of the burst and Paths holds
// every distinct path changed during it, in arrival order.
type Event struct {
	Path  string
	Op    string
	Paths []string
}

// Touches reports whether path changed during the burst.
func (e Event) Touches(path string) bool {
	path = filepath.Clean(path)
	if filepath.Clean(e.Path) == path {
		return true
	}
	for _, p := range e.Paths {
		if filepath.Clean(p) == path {
			return true
		}
	}
	return false
}

// burst collects the paths of events that share one debounced callback.
type burst struct {
	mu    sync.Mutex
	paths []string
}

func (b *burst) add(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !slices.Contains(b.paths, path) {
		b.paths = append(b.paths, path)
	}
}

// take empties the burst. A burst already taken by an earlier callback
// yields just last.
func (b *burst) take(last string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	paths := b.paths
	b.paths = nil
	if len(paths) == 0 {
		paths = []string{last}
	}
	return paths
}

// EventRecorder observes every accepted file event before debouncing.
type EventRecorder interface {
	RecordWatchEvent(op string)
}

// FileWatcherConfig contains configuration for the file watcher.
type FileWatcherConfig struct {
	// Paths are configuration files or directories. A file is watched
	// through its parent directory so that editors replacing the file by
	// rename keep triggering events.
	Paths []string

	// DebounceInterval is the quiet period after the last event before the
	// callback runs (default: 100ms).
	DebounceInterval time.Duration

	// Extensions filters files found in watched directories. Files named in
	// Paths are always accepted.
	Extensions []string

	// SkipHidden ignores dot files and dot directories.
	SkipHidden bool

	// Recorder, when set, is told about every accepted event.
	Recorder EventRecorder
}

// ConfigFromWatch builds a FileWatcherConfig from the watch settings.
func ConfigFromWatch(cfg config.WatchConfig, paths []string) *FileWatcherConfig {
	return &FileWatcherConfig{
		Paths:            paths,
		DebounceInterval: cfg.DebounceInterval,
		Extensions:       cfg.Extensions,
		SkipHidden:       true,
	}
}

// FileWatcher watches configuration files and reports debounced changes.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *logging.Logger
	config   *FileWatcherConfig
	debounce *Debouncer

	// files holds the cleaned absolute paths named directly in Paths.
	files map[string]struct{}
	// dirs holds the directories named in Paths.
	dirs []string

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	stop    sync.Once
}

// NewFileWatcher creates a file watcher. The paths must exist.
func NewFileWatcher(cfg *FileWatcherConfig, logger *logging.Logger) (*FileWatcher, error) {
	if cfg == nil || len(cfg.Paths) == 0 {
		return nil, errors.New("no paths to watch")
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = config.DefaultDebounceInterval
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = append([]string(nil), config.DefaultWatchExtensions...)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		logger:   logger.With("component", "watch.files"),
		config:   cfg,
		debounce: NewDebouncer(cfg.DebounceInterval),
		files:    make(map[string]struct{}),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	for _, path := range cfg.Paths {
		if err := fw.addPath(path); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %q: %w", path, err)
		}
	}

	return fw, nil
}

// Watch processes file events until ctx is cancelled or Stop is called.
// onChange runs on the debouncer goroutine, never concurrently with itself.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func(Event)) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return ErrAlreadyRunning
	}
	fw.running = true
	fw.mu.Unlock()

	defer close(fw.doneCh)

	fw.logger.Info("File watcher started",
		"paths", fw.config.Paths,
		"debounce_ms", fw.config.DebounceInterval.Milliseconds(),
	)

	var (
		callbackMu sync.Mutex
		pending    burst
	)
	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("File watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("File watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !fw.shouldProcessEvent(event) {
				continue
			}

			ev := Event{Path: event.Name, Op: event.Op.String()}
			fw.logger.Debug("File event detected", "path", ev.Path, "op", ev.Op)
			if fw.config.Recorder != nil {
				fw.config.Recorder.RecordWatchEvent(ev.Op)
			}

			pending.add(ev.Path)
			fw.debounce.Trigger(func() {
				callbackMu.Lock()
				defer callbackMu.Unlock()
				ev.Paths = pending.take(ev.Path)
				onChange(ev)
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			fw.logger.Error("File watcher error", "error", err)
		}
	}
}

// Stop stops a running Watch, cancels pending callbacks and releases the
// underlying watcher. It is safe to call more than once.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stop.Do(func() {
		close(fw.stopCh)

		fw.mu.Lock()
		running := fw.running
		fw.mu.Unlock()
		if running {
			<-fw.doneCh
		}

		fw.debounce.Stop()
		if cerr := fw.watcher.Close(); cerr != nil {
			err = fmt.Errorf("failed to close watcher: %w", cerr)
		}
	})
	return err
}

func (fw *FileWatcher) addPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	if info.IsDir() {
		fw.dirs = append(fw.dirs, abs)
		return fw.addDirectory(abs)
	}

	fw.files[abs] = struct{}{}
	return fw.watcher.Add(filepath.Dir(abs))
}

// addDirectory adds a directory and all subdirectories to the watcher.
func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && fw.config.SkipHidden && isHidden(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		fw.logger.Debug("Watching directory", "path", path)
		return nil
	})
}

// shouldProcessEvent reports whether an event concerns a watched file.
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	name := filepath.Clean(event.Name)
	if _, ok := fw.files[name]; ok {
		return true
	}
	if fw.config.SkipHidden && isHidden(name) {
		return false
	}
	if !fw.inWatchedDirectory(name) {
		return false
	}
	return fw.hasValidExtension(strings.ToLower(filepath.Ext(name)))
}

func (fw *FileWatcher) inWatchedDirectory(name string) bool {
	for _, dir := range fw.dirs {
		if rel, err := filepath.Rel(dir, name); err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) hasValidExtension(ext string) bool {
	for _, validExt := range fw.config.Extensions {
		if ext == strings.ToLower(validExt) {
			return true
		}
	}
	return false
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
