// Package watch runs a callback whenever a source tree changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/erraggy/oasrepo/logging"
)

// DefaultDebounce is how long the tree must be quiet before OnChange runs.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches Dir recursively.
type Watcher struct {
	// Dir is the directory to watch. Subdirectories created later are
	// picked up.
	Dir string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Ignore lists files whose changes never trigger OnChange, typically
	// the output file when it lives inside Dir.
	Ignore []string
	// OnChange runs once at start and after every quiet period following a
	// change. Errors are logged and watching continues.
	OnChange func(ctx context.Context) error
	// Logger defaults to a no-op logger.
	Logger logging.Logger
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.OnChange == nil {
		return fmt.Errorf("watch: OnChange is required")
	}
	log := logging.OrNop(w.Logger).With("component", "watch")
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ignore := make(map[string]bool, len(w.Ignore))
	for _, p := range w.Ignore {
		if abs, err := filepath.Abs(p); err == nil {
			ignore[abs] = true
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer func() { _ = fw.Close() }()
	if err := addDirsRecursive(fw, w.Dir, log); err != nil {
		return err
	}

	w.run(ctx, log)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if shouldIgnore(ev.Name, ignore) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addDirsRecursive(fw, ev.Name, log)
				}
			}
			log.Debug("file change detected", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.run(ctx, log)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) run(ctx context.Context, log logging.Logger) {
	if err := w.OnChange(ctx); err != nil {
		log.Error("rebuild failed", "error", err)
		return
	}
	log.Info("rebuilt")
}

func addDirsRecursive(fw *fsnotify.Watcher, root string, log logging.Logger) error {
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				log.Warn("watch add failed", "dir", path, "error", err)
			}
		}
		return nil
	})
}

// shouldIgnore filters hidden files, editor swap files and the ignore set.
func shouldIgnore(path string, ignore map[string]bool) bool {
	if abs, err := filepath.Abs(path); err == nil && ignore[abs] {
		return true
	}
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
