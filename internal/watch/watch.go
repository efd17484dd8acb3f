// Package watch re-runs a callback when watched test files change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reports debounced changes to a set of files and directories.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	dirs     []string
	debounce time.Duration
}

// New watches paths. Files are watched through their parent directory so
// editors that save by renaming are still seen. Directories are watched
// recursively, skipping node_modules.
//
// Parameters:
//   - paths: Files or directories to watch
//   - debounce: Quiet period before a batch of changes is reported
//
// Returns:
//   - *Watcher: The watcher; call Close when done
//   - error: If a path cannot be watched
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{watcher: fw, files: make(map[string]bool), debounce: debounce}
	watched := make(map[string]bool)
	add := func(dir string) error {
		if watched[dir] {
			return nil
		}
		watched[dir] = true
		return fw.Add(dir)
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("cannot watch %s: %w", p, err)
		}

		if !info.IsDir() {
			w.files[abs] = true
			if err := add(filepath.Dir(abs)); err != nil {
				fw.Close()
				return nil, fmt.Errorf("cannot watch %s: %w", p, err)
			}
			continue
		}

		w.dirs = append(w.dirs, abs)
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if d.Name() == "node_modules" || (path != abs && strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return add(path)
		})
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("cannot watch %s: %w", p, err)
		}
	}

	return w, nil
}

// relevant reports whether an event path belongs to a watched target.
func (w *Watcher) relevant(path string) bool {
	if w.files[path] {
		return true
	}
	for _, dir := range w.dirs {
		if strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run calls onChange with the sorted set of changed paths after each quiet
// period, until ctx is cancelled. onChange runs on the caller's goroutine, so
// changes arriving during a call are batched into the next one.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			log.Debug("File changed", "path", event.Name, "op", event.Op.String())
			pending[event.Name] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("File watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			onChange(changed)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
