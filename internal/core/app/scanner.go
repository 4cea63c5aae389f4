package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"i18nscan/internal/core/errors"
	"i18nscan/internal/core/ports"
	"i18nscan/internal/core/watcher"
	"i18nscan/internal/engine/aggregate"
	"i18nscan/internal/engine/finding"
	"i18nscan/internal/engine/syntax"
	"i18nscan/internal/shared/observability"
	"i18nscan/internal/shared/util"
)

// DiscoverFiles walks roots and returns every supported source file, sorted.
// Excluded directories, test files (unless included), ignored paths and files
// above the size limit are left out.
func (a *App) DiscoverFiles(roots []string) ([]string, error) {
	eng := a.currentEngine()

	dirGlobs := make([]glob.Glob, 0, len(watcher.DefaultExcludeDirs))
	for _, p := range watcher.DefaultExcludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		dirGlobs = append(dirGlobs, g)
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string, size int64) {
		if seen[path] || !a.wantFile(eng, path, size) {
			return
		}
		seen[path] = true
		files = append(files, path)
	}

	for _, root := range util.UniqueRoots(roots) {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "scan path not found"), errors.CtxPath, root)
		}
		if !info.IsDir() {
			add(root, info.Size())
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path == root {
					return nil
				}
				base := filepath.Base(path)
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return err
			}
			add(path, info.Size())
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// wantFile applies the per-file discovery filters.
func (a *App) wantFile(eng engine, path string, size int64) bool {
	if !a.codeParser.IsSupportedPath(path) {
		return false
	}
	if !eng.cfg.Scan.IncludeTests && a.codeParser.IsTestFile(path) {
		return false
	}
	if a.isIgnored(eng, path) {
		return false
	}
	if limit := eng.cfg.Scan.MaxFileBytes; limit > 0 && size > limit {
		slog.Debug("skipping oversized file", "path", path, "size", size, "limit", limit)
		return false
	}
	return true
}

// isIgnored matches ignore patterns against the project-relative path and
// the path as given.
func (a *App) isIgnored(eng engine, path string) bool {
	if rel, err := filepath.Rel(a.Paths.ProjectRoot, path); err == nil && !strings.HasPrefix(rel, "..") {
		if eng.settings.IsIgnored(rel) {
			return true
		}
	}
	return eng.settings.IsIgnored(path)
}

// parseFiles reads and parses paths on the worker pool. Files that cannot be
// read or parsed come back as failed reports in place of a syntax tree.
func (a *App) parseFiles(ctx context.Context, paths []string) ([]*syntax.File, []finding.FileReport) {
	parsed := make([]*syntax.File, len(paths))
	failures := make([]*finding.FileReport, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		err := a.pool.Submit(ctx, func(ctx context.Context) {
			defer wg.Done()
			file, err := a.parseFile(ctx, path)
			if err != nil {
				failures[i] = &finding.FileReport{
					Path:     path,
					Language: a.codeParser.GetLanguage(path),
					Findings: []finding.Finding{},
					Err:      err,
				}
				return
			}
			parsed[i] = file
		})
		if err != nil {
			wg.Done()
			failures[i] = &finding.FileReport{Path: path, Findings: []finding.Finding{}, Err: err}
		}
	}
	wg.Wait()

	files := make([]*syntax.File, 0, len(paths))
	var failed []finding.FileReport
	for i := range paths {
		if failures[i] != nil {
			failed = append(failed, *failures[i])
			continue
		}
		files = append(files, parsed[i])
	}
	return files, failed
}

func (a *App) parseFile(ctx context.Context, path string) (*syntax.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read source file"), errors.CtxPath, path)
	}
	file, err := a.codeParser.ParseFile(path, content)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// scanPaths parses and scans paths and caches the per-file reports.
func (a *App) scanPaths(ctx context.Context, paths []string) []finding.FileReport {
	eng := a.currentEngine()

	observability.WorkerPoolRunning.Set(float64(a.pool.Stats().Running))
	files, failed := a.parseFiles(ctx, paths)
	reports := eng.scanner.ScanAll(ctx, a.pool, files)
	reports = append(reports, failed...)
	observability.WorkerPoolRunning.Set(float64(a.pool.Stats().Running))

	a.reportMu.Lock()
	for _, r := range reports {
		a.reports[r.Path] = r
	}
	a.reportMu.Unlock()

	recordFileMetrics(reports)
	return reports
}

// RunScan discovers, parses, scans and aggregates. With history enabled the
// run is recorded and old runs are pruned.
func (a *App) RunScan(ctx context.Context, req ports.ScanRequest) (ports.ScanResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.RunScan")
	defer span.End()

	started := time.Now()
	roots := a.Paths.ScanPaths
	if len(req.Paths) > 0 {
		roots = req.Paths
	}

	paths, err := a.DiscoverFiles(roots)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "discovery failed")
		return ports.ScanResult{}, errors.AddContext(err, errors.CtxOperation, "discover_files")
	}
	span.SetAttributes(attribute.Int("files", len(paths)))
	slog.Debug("discovered source files", "count", len(paths))

	a.reportMu.Lock()
	a.reports = make(map[string]finding.FileReport, len(paths))
	a.reportMu.Unlock()

	reports := a.scanPaths(ctx, paths)
	report := aggregate.Aggregate(reports...)
	duration := time.Since(started)

	observability.RunDuration.Observe(duration.Seconds())

	result := ports.ScanResult{
		Report:   report,
		Started:  started,
		Duration: duration,
	}
	for _, failed := range report.FailedFiles {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", failed.Path, failed.Error))
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if a.history != nil {
		run, err := a.recordRun(ctx, report, started, duration)
		if err != nil {
			slog.Warn("failed to record run history", "error", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("history: %v", err))
		} else {
			result.RunID = run.ID
		}
	}

	slog.Info("scan finished",
		"files", report.ScannedFiles(),
		"hardcoded", report.Count(finding.CategoryHardcoded),
		"extracted", report.Count(finding.CategoryExtracted),
		"failed", len(report.FailedFiles),
		"duration", duration,
	)
	return result, nil
}

func recordFileMetrics(reports []finding.FileReport) {
	for _, r := range reports {
		status := "ok"
		switch {
		case r.Skipped:
			status = "skipped"
		case r.Err != nil:
			status = "failed"
		}
		observability.FilesScannedTotal.WithLabelValues(status).Inc()
		for _, f := range r.Findings {
			observability.FindingsTotal.WithLabelValues(f.RuleID, string(f.Category)).Inc()
		}
		for _, d := range r.Diagnostics {
			if d.Kind == finding.DiagnosticRuleCrashed {
				observability.RuleCrashesTotal.WithLabelValues(d.RuleID).Inc()
			}
		}
	}
}
