package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"i18nscan/internal/core/config"
	"i18nscan/internal/core/watcher"
	"i18nscan/internal/engine/aggregate"
	"i18nscan/internal/engine/finding"
	"i18nscan/internal/shared/observability"
	"i18nscan/internal/shared/util"
)

// StartWatcher watches the scan paths and rescans changed files until ctx is
// done or StopWatcher is called. An initial RunScan is expected to have
// filled the report cache.
func (a *App) StartWatcher(ctx context.Context) error {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.activeWatcher != nil {
		return nil
	}

	rate := a.Config.Watch.MaxRescansPerSecond
	if rate <= 0 {
		rate = config.DefaultRescansPerSec
	}
	a.rescanLimiter = util.NewLimiter(rate, 1)

	w, err := watcher.NewWatcher(watcher.Options{
		Debounce:   a.Config.Watch.Debounce,
		Extensions: a.codeParser.SupportedExtensions(),
		Skip: func(path string) bool {
			eng := a.currentEngine()
			if !eng.cfg.Scan.IncludeTests && a.codeParser.IsTestFile(path) {
				return true
			}
			return a.isIgnored(eng, path)
		},
	}, func(paths []string) {
		a.HandleChanges(ctx, paths)
	})
	if err != nil {
		return err
	}
	if err := w.Watch(watchRoots(a.Paths.ScanPaths)); err != nil {
		w.Close()
		return err
	}
	a.activeWatcher = w

	go func() {
		select {
		case <-ctx.Done():
			a.StopWatcher()
		case <-w.Done():
		}
	}()
	slog.Info("watching for changes", "paths", a.Paths.ScanPaths, "debounce", a.Config.Watch.Debounce)
	return nil
}

func (a *App) StopWatcher() {
	a.watchMu.Lock()
	w := a.activeWatcher
	a.activeWatcher = nil
	a.watchMu.Unlock()
	if w != nil {
		if err := w.Close(); err != nil {
			slog.Warn("failed to close watcher", "error", err)
		}
	}
}

// HandleChanges rescans the changed files, drops reports of removed or now
// excluded files and re-aggregates with the cached reports of every other
// file.
func (a *App) HandleChanges(ctx context.Context, paths []string) {
	slog.Info("detected changes", "count", len(paths))
	start := time.Now()

	if a.rescanLimiter != nil && !a.rescanLimiter.Allow(1) {
		observability.RescansThrottledTotal.Inc()
		if err := a.rescanLimiter.Wait(ctx, 1); err != nil {
			return
		}
	}

	eng := a.currentEngine()
	rescan := make([]string, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			a.dropReport(path)
			continue
		}
		if !a.wantFile(eng, path, info.Size()) {
			a.dropReport(path)
			continue
		}
		rescan = append(rescan, path)
	}

	if len(rescan) > 0 {
		a.scanPaths(ctx, rescan)
	}
	if ctx.Err() != nil {
		return
	}

	report := aggregate.Aggregate(a.cachedReports()...)
	if _, err := a.GenerateOutputs(report); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}

	duration := time.Since(start)
	observability.RunDuration.Observe(duration.Seconds())
	a.emitUpdate(Update{
		ChangedFiles:   len(paths),
		FileCount:      report.ScannedFiles(),
		HardcodedCount: report.Count(finding.CategoryHardcoded),
		ExtractedCount: report.Count(finding.CategoryExtracted),
		DynamicCount:   report.DynamicCount(),
		Report:         report,
		Duration:       duration,
	})
}

// WatchConfig reloads path on change and applies the new engine settings.
// The returned watcher must be stopped by the caller.
func (a *App) WatchConfig(ctx context.Context, path string) (*config.Watcher, error) {
	w := config.NewWatcher(path, func(cfg *config.Config) {
		if err := a.ApplyConfig(cfg); err != nil {
			slog.Error("reloaded configuration rejected", "error", err)
			return
		}
		paths, err := a.DiscoverFiles(a.Paths.ScanPaths)
		if err != nil {
			slog.Error("rediscovery after config reload failed", "error", err)
			return
		}
		a.HandleChanges(ctx, paths)
	})
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// watchRoots maps file scan paths to their directories.
func watchRoots(paths []string) []string {
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			p = filepath.Dir(p)
		}
		roots = append(roots, p)
	}
	return util.UniqueRoots(roots)
}
