package dupehash

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is how long the tree must be quiet before a rescan
const DefaultWatchDebounce = 500 * time.Millisecond

// ReportFunc receives the outcome of every scan in watch mode
type ReportFunc func(*Report, error)

// Watcher reruns FindDuplicates whenever the scanned tree changes
type Watcher struct {
	opts     *ScanOptions
	delay    time.Duration
	onReport ReportFunc

	mu       sync.Mutex
	debounce *time.Timer
	trigger  chan struct{}
}

// NewWatcher creates a watcher. A non-positive delay uses DefaultWatchDebounce.
func NewWatcher(opts *ScanOptions, delay time.Duration, onReport ReportFunc) *Watcher {
	if delay <= 0 {
		delay = DefaultWatchDebounce
	}
	return &Watcher{
		opts:     opts,
		delay:    delay,
		onReport: onReport,
		trigger:  make(chan struct{}, 1),
	}
}

// Run scans once, then rescans after each burst of filesystem events until
// ctx is cancelled. Configuration errors from the first scan are returned.
func (w *Watcher) Run(ctx context.Context) error {
	report, err := FindDuplicates(ctx, w.opts)
	if err != nil && IsConfigError(err) {
		return err
	}
	w.onReport(report, err)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := w.addTree(watcher, w.opts.Root); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.stopDebounce()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if IsDebugEnabled(DebugWatch) {
				VerboseLog(2, "watch: %s %s", event.Op, event.Name)
			}
			if event.Op&fsnotify.Create != 0 && w.opts.Recursive {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(watcher, event.Name); err != nil {
						Logger().Warn().Err(err).Str("path", event.Name).Msg("watch: cannot watch new directory")
					}
				}
			}
			w.debounceScan()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			Logger().Warn().Err(err).Msg("watch: error")

		case <-w.trigger:
			report, err := FindDuplicates(ctx, w.opts)
			if ctx.Err() != nil {
				return nil
			}
			w.onReport(report, err)
		}
	}
}

// addTree watches dir, and every directory below it in recursive mode
func (w *Watcher) addTree(watcher *fsnotify.Watcher, dir string) error {
	if !w.opts.Recursive {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch: failed to watch %s: %w", dir, err)
		}
		return nil
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped the same way the traverser skips them
			if path == dir {
				return fmt.Errorf("watch: failed to walk %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.opts.ExcludeDots && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch: failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) debounceScan() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopDebounce() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
}
