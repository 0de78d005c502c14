package driver

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher re-runs a callback when watched source files change. Parent
// directories are watched rather than the files themselves so that editors
// which save by renaming a temporary file are still seen.
type Watcher struct {
	w        *fsnotify.Watcher
	files    map[string]bool
	Debounce time.Duration
}

// NewWatcher watches the given files.
func NewWatcher(paths []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &Watcher{w: w, files: make(map[string]bool), Debounce: DefaultDebounce}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, err
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, err
		}
	}
	return fw, nil
}

// Run blocks until ctx is done or the watcher fails, calling onChange with
// the set of changed files after each quiet period. Paths passed to onChange
// are absolute.
func (fw *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(fw.Debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.w.Events:
			if !ok {
				return nil
			}
			path, ok := fw.relevant(ev)
			if !ok {
				continue
			}
			pending[path] = true
			timer.Reset(fw.Debounce)

		case err, ok := <-fw.w.Errors:
			if !ok {
				return nil
			}
			return err

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			onChange(changed)
		}
	}
}

// relevant reports the absolute path of a write or create event on a
// watched file.
func (fw *Watcher) relevant(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return "", false
	}
	abs, err := filepath.Abs(ev.Name)
	return abs, err == nil && fw.files[abs]
}

func (fw *Watcher) Close() error { return fw.w.Close() }
