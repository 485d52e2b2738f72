// Package watcher reports changed markdown documents under a directory.
//
// It backs `folio watch`, which revalidates documents as they are edited.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceDelay is used when Config.DebounceDelay is zero.
const DefaultDebounceDelay = 100 * time.Millisecond

// Watcher monitors a directory tree and calls OnChange for each markdown
// file once writes to it have settled.
type Watcher struct {
	root string

	debounceDelay time.Duration
	logger        *slog.Logger

	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	mu        sync.Mutex

	onChange func(path string)
	onRemove func(path string)
}

// Config holds configuration options for the Watcher.
type Config struct {
	Root          string
	DebounceDelay time.Duration
	Logger        *slog.Logger

	// OnChange receives the absolute path of a created or written file.
	OnChange func(path string)
	// OnRemove is optional.
	OnRemove func(path string)
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("root directory is required")
	}
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = DefaultDebounceDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		root:          root,
		debounceDelay: debounce,
		logger:        logger,
		pending:       make(map[string]time.Time),
		onChange:      cfg.OnChange,
		onRemove:      cfg.OnRemove,
	}, nil
}

// Root returns the absolute directory being watched.
func (w *Watcher) Root() string {
	return w.root
}

// Start begins watching. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatchRecursive(w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}
	w.logger.Debug("watching", "root", w.root)

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if !strings.HasSuffix(path, ".md") {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				if err := w.addWatchRecursive(path); err != nil {
					w.logger.Debug("failed to watch new directory", "path", path, "error", err)
				}
			}
		}
		return
	}
	if w.shouldIgnore(path) {
		return
	}

	w.logger.Debug("event", "op", event.Op.String(), "path", path)

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.schedule(path)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		if w.onRemove != nil {
			w.onRemove(path)
		}
	}
}

// schedule adds a file to the pending queue, restarting its delay.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = time.Now()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(w.debounceDelay / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.processPending(now)
		}
	}
}

// processPending hands files whose delay has passed to OnChange, in path
// order.
func (w *Watcher) processPending(now time.Time) {
	w.mu.Lock()
	var ready []string
	for path, scheduledAt := range w.pending {
		if now.Sub(scheduledAt) >= w.debounceDelay {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	sort.Strings(ready)
	for _, path := range ready {
		w.onChange(path)
	}
}

// addWatchRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && ignoredDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			w.logger.Debug("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// shouldIgnore reports whether path lies under an ignored directory.
func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	for _, part := range parts[:len(parts)-1] {
		if ignoredDir(part) {
			return true
		}
	}
	return false
}

func ignoredDir(name string) bool {
	return name == ".git" || name == ".trash" || name == "node_modules"
}
