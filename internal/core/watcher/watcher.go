// Package watcher reports debounced batches of changed source files.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"i18nscan/internal/shared/observability"
)

// DefaultExcludeDirs are never descended into.
var DefaultExcludeDirs = []string{"node_modules", ".git", "dist", "build", ".next", "coverage", ".i18nscan"}

type Options struct {
	Debounce    time.Duration
	ExcludeDirs []string
	// Extensions limits events to these file extensions (".tsx"). Empty
	// accepts every file.
	Extensions []string
	// Skip drops files the caller never wants to see, e.g. ignored or test
	// files.
	Skip func(path string) bool
}

type Watcher struct {
	fsWatcher   *fsnotify.Watcher
	debounce    time.Duration
	excludeDirs []glob.Glob
	extFilters  map[string]bool
	skip        func(string) bool
	onChange    func([]string)
	callbackMu  sync.Mutex

	pending   map[string]time.Time
	hashes    map[string]uint64
	pendingMu sync.Mutex
	timer     *time.Timer
	closed    bool
	done      chan struct{}
}

func NewWatcher(opts Options, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}

	excludeDirs := opts.ExcludeDirs
	if len(excludeDirs) == 0 {
		excludeDirs = DefaultExcludeDirs
	}
	compiledDirs := make([]glob.Glob, 0, len(excludeDirs))
	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		compiledDirs = append(compiledDirs, g)
	}

	extFilters := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		extFilters[normalized] = true
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher:   fsw,
		debounce:    opts.Debounce,
		excludeDirs: compiledDirs,
		extFilters:  extFilters,
		skip:        opts.Skip,
		onChange:    onChange,
		pending:     make(map[string]time.Time),
		hashes:      make(map[string]uint64),
		done:        make(chan struct{}),
	}, nil
}

func (w *Watcher) SetDebounce(debounce time.Duration) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	w.debounce = debounce
}

// Watch registers every non-excluded directory under paths, records the
// current content hashes and starts the event loop.
func (w *Watcher) Watch(paths []string) error {
	for _, path := range paths {
		if err := w.watchRecursive(path); err != nil {
			return err
		}
		w.recordExisting(path)
	}

	go w.run()
	return nil
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != root && w.shouldExcludeDir(path) {
				return filepath.SkipDir
			}
			return w.fsWatcher.Add(path)
		}

		return nil
	})
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()

			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if !w.shouldExcludeDir(event.Name) {
						if err := w.watchRecursive(event.Name); err != nil {
							slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
						} else {
							w.enqueueExistingFiles(event.Name)
						}
					}
					continue
				}
			}

			if w.shouldExcludeFile(event.Name) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.scheduleChange(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	if w.closed {
		return
	}

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

// flushChanges hands the pending batch to the callback, dropping files whose
// content hash is unchanged since the last batch. Removed files are always
// reported.
func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		if w.contentChangedLocked(path) {
			paths = append(paths, path)
		}
	}
	w.pending = make(map[string]time.Time)
	closed := w.closed
	w.pendingMu.Unlock()

	if len(paths) > 0 && !closed {
		w.callbackMu.Lock()
		defer w.callbackMu.Unlock()
		w.onChange(paths)
	}
}

func (w *Watcher) contentChangedLocked(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		_, known := w.hashes[path]
		delete(w.hashes, path)
		return known || os.IsNotExist(err)
	}
	sum := xxhash.Sum64(data)
	if prev, ok := w.hashes[path]; ok && prev == sum {
		return false
	}
	w.hashes[path] = sum
	return true
}

func (w *Watcher) shouldExcludeDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (w *Watcher) shouldExcludeFile(path string) bool {
	if len(w.extFilters) > 0 && !w.extFilters[strings.ToLower(filepath.Ext(path))] {
		return true
	}
	return w.skip != nil && w.skip(path)
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.closed {
		w.pendingMu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}

// Done is closed once the event loop has exited after Close.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) recordExisting(root string) {
	w.walkFiles(root, func(path string) {
		if data, err := os.ReadFile(path); err == nil {
			w.pendingMu.Lock()
			w.hashes[path] = xxhash.Sum64(data)
			w.pendingMu.Unlock()
		}
	})
}

func (w *Watcher) enqueueExistingFiles(root string) {
	w.walkFiles(root, w.scheduleChange)
}

func (w *Watcher) walkFiles(root string, fn func(string)) {
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil {
			return nil
		}
		if info.IsDir() {
			if path != root && w.shouldExcludeDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.shouldExcludeFile(path) {
			return nil
		}
		fn(path)
		return nil
	})
}
