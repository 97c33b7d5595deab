// Package watch reruns a build when the site's sources change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thecodebarbarian/barbarian/internal/logfields"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Dirs     []string // watched recursively
	Ignore   []string // directories skipped, such as the output folder
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher watches directory trees and calls a rebuild function after
// changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	ignore   []string
	debounce time.Duration
	log      *slog.Logger
}

// New starts watching opts.Dirs. Changes made after New returns are seen
// by Run.
func New(opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{fsw: fsw, debounce: opts.Debounce, log: opts.Logger}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.log == nil {
		w.log = slog.Default()
	}
	for _, dir := range opts.Ignore {
		abs, err := filepath.Abs(dir)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch: %w", err)
		}
		w.ignore = append(w.ignore, abs)
	}
	for _, dir := range opts.Dirs {
		if err := w.addRecursive(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls rebuild after each settled burst of changes until ctx is done.
// Rebuilds never overlap; changes during a rebuild cause one more. A failed
// rebuild is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	requests := make(chan struct{}, 1)
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() {
			select {
			case requests <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	done := make(chan struct{})
	defer func() {
		cancel()
		<-done
	}()
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-requests:
				w.log.Info("Change detected; rebuilding site")
				if err := rebuild(ctx); err != nil {
					w.log.Warn("Rebuild failed", logfields.Error(err))
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.ignored(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = w.addRecursive(ev.Name)
				}
			}
			w.log.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && hidden(d.Name()) || w.under(p) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// ignored reports whether a change to name should not trigger a rebuild.
func (w *Watcher) ignored(name string) bool {
	return hidden(filepath.Base(name)) || w.under(name)
}

// hidden matches dotfiles and editor backups.
func hidden(base string) bool {
	if base == "." || base == ".." {
		return false
	}
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")
}

// under reports whether name is an ignored directory or inside one.
func (w *Watcher) under(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	for _, dir := range w.ignore {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
