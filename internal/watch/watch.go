// Package watch reloads a template directory when its files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/kerygma/internal/engine"
	"github.com/leapstack-labs/kerygma/pkg/core"
)

// DefaultDebounce is how long the watcher waits for a burst of events to settle.
const DefaultDebounce = 100 * time.Millisecond

// Target is the template collection kept in sync with the directory.
type Target interface {
	Discover(ctx context.Context, opts engine.DiscoveryOptions) (*engine.DiscoveryResult, error)
	RemoveSource(path string) []string
	GetTemplate(id string) (*core.Template, bool)
	IsTemplateFile(name string) bool
}

// Reload describes one debounced reload.
type Reload struct {
	// Paths are the changed template files, sorted
	Paths []string
	// Removed lists template ids that disappeared with their files
	Removed []string
	Result  *engine.DiscoveryResult
	Err     error
}

// Config configures a Watcher.
type Config struct {
	Dir      string
	Target   Target
	Debounce time.Duration // default DefaultDebounce
	// OnReload is called after each reload from the watcher goroutine (optional)
	OnReload func(Reload)
	Logger   *slog.Logger
}

// Watcher watches a template tree and reloads it into its target.
type Watcher struct {
	dir      string
	target   Target
	debounce time.Duration
	onReload func(Reload)
	logger   *slog.Logger
	ready    chan struct{}
}

// New validates cfg and creates a watcher.
func New(cfg Config) (*Watcher, error) {
	if cfg.Target == nil {
		return nil, errors.New("watch: no target")
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", cfg.Dir)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	onReload := cfg.OnReload
	if onReload == nil {
		onReload = func(Reload) {}
	}

	return &Watcher{
		dir:      cfg.Dir,
		target:   cfg.Target,
		debounce: debounce,
		onReload: onReload,
		logger:   logger,
		ready:    make(chan struct{}),
	}, nil
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
// The caller is expected to have loaded the directory once already.
// Run may only be called once.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := w.watchDir(fsw, w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching templates", slog.String("dir", w.dir))
	close(w.ready)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = make(map[string]struct{})
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(fsw, event) {
				continue
			}
			pending[event.Name] = struct{}{}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			slices.Sort(paths)
			w.onReload(w.reload(ctx, paths))

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

// Ready is closed once the directory tree is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// relevant reports whether event should trigger a reload. New directories
// are added to the watch list and count as a change.
func (w *Watcher) relevant(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watchDir(fsw, event.Name); err != nil {
				w.logger.Warn("failed to watch new directory",
					slog.String("dir", event.Name), slog.String("error", err.Error()))
			}
			return true
		}
	}

	return w.target.IsTemplateFile(filepath.Base(event.Name))
}

// reload drops templates owned by the changed paths, then rediscovers the tree.
func (w *Watcher) reload(ctx context.Context, paths []string) Reload {
	var dropped []string
	for _, p := range paths {
		dropped = append(dropped, w.target.RemoveSource(p)...)
	}

	result, err := w.target.Discover(ctx, engine.DiscoveryOptions{Dir: w.dir})

	var removed []string
	for _, id := range dropped {
		if _, ok := w.target.GetTemplate(id); !ok {
			removed = append(removed, id)
		}
	}

	if err != nil {
		w.logger.Error("reload failed", slog.String("error", err.Error()))
	} else {
		w.logger.Info("templates reloaded",
			slog.Int("changed_files", len(paths)),
			slog.Int("loaded", result.Loaded),
			slog.Int("removed", len(removed)))
	}

	return Reload{Paths: paths, Removed: removed, Result: result, Err: err}
}

// watchDir recursively adds a directory to the watcher, skipping hidden ones.
func (w *Watcher) watchDir(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}
