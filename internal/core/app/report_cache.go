package app

import (
	"sort"

	"i18nscan/internal/engine/finding"
)

func (a *App) cachedReports() []finding.FileReport {
	a.reportMu.RLock()
	defer a.reportMu.RUnlock()

	paths := make([]string, 0, len(a.reports))
	for path := range a.reports {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	out := make([]finding.FileReport, 0, len(paths))
	for _, path := range paths {
		out = append(out, a.reports[path])
	}
	return out
}

func (a *App) dropReport(path string) {
	a.reportMu.Lock()
	defer a.reportMu.Unlock()
	delete(a.reports, path)
}
