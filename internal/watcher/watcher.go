// Package watcher reruns a build when Rust sources change.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/marijnhurkens/serverless-rust/internal/output"
	"github.com/marijnhurkens/serverless-rust/internal/paths"
)

// DefaultDebounce batches bursts of file events into one rebuild.
const DefaultDebounce = 400 * time.Millisecond

// skipDirs are directory names never watched. Hidden directories are
// skipped too.
var skipDirs = map[string]bool{
	"target":       true,
	"node_modules": true,
}

// Watcher reruns a callback when Rust sources under Dir change.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	Logger   *output.Logger
}

// New returns a watcher over dir with the default debounce.
func New(dir string, logger *output.Logger) *Watcher {
	return &Watcher{Dir: dir, Debounce: DefaultDebounce, Logger: logger}
}

// Run blocks, invoking rebuild after every batch of source changes,
// until the context is canceled. A failing rebuild is logged and the
// loop keeps going, so the next change gets a fresh attempt.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addRecursive(fw, w.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.Dir, err)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	w.logger().Cyan("Watching %s for changes...", w.Dir)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if watchable(filepath.Base(event.Name)) {
						_ = w.addRecursive(fw, event.Name)
					}
					continue
				}
			}
			if !isSource(event.Name) {
				continue
			}
			w.logger().Debug("Change detected: %s", event.Name)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger().Warn("File watcher error: %v", err)

		case <-timer.C:
			if err := rebuild(ctx); err != nil {
				w.logger().Error("Rebuild failed: %v", err)
			}
		}
	}
}

func (w *Watcher) addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && !watchable(d.Name()) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

func (w *Watcher) logger() *output.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return output.DefaultLogger
}

// watchable reports whether a directory name is worth watching.
func watchable(name string) bool {
	return !skipDirs[name] && !strings.HasPrefix(name, ".")
}

// isSource reports whether a path is a Rust source or project manifest.
func isSource(name string) bool {
	base := filepath.Base(name)
	if base == paths.CargoToml || base == paths.CargoLock {
		return true
	}
	return strings.HasSuffix(base, ".rs")
}
