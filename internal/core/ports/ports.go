package ports

import (
	"context"
	"time"

	"i18nscan/internal/data/history"
	"i18nscan/internal/engine/finding"
	"i18nscan/internal/engine/syntax"
)

// CodeParser abstracts source parsing and language-file support checks.
type CodeParser interface {
	ParseFile(path string, content []byte) (*syntax.File, error)
	GetLanguage(path string) string
	IsSupportedPath(filePath string) bool
	IsTestFile(path string) bool
	SupportedExtensions() []string
}

// HistoryStore abstracts run persistence for trend workflows.
type HistoryStore interface {
	SaveRun(ctx context.Context, run history.Run) (history.Run, error)
	LoadRuns(ctx context.Context, project string, since time.Time, limit int) ([]history.Run, error)
	Prune(ctx context.Context, project string, keep int) (int64, error)
	Close() error
}

// ScanRequest narrows a run to specific paths. Empty Paths scans the
// configured roots.
type ScanRequest struct {
	Paths []string
}

// ScanResult is one completed analysis run.
type ScanResult struct {
	Report   finding.Report
	Started  time.Time
	Duration time.Duration
	// RunID is set when the run was recorded in history.
	RunID    string
	Warnings []string
}

// HistoryTrendRequest selects the runs a trend report covers.
type HistoryTrendRequest struct {
	Since  time.Time
	Limit  int
	Window time.Duration
}

// WatchUpdate is emitted after every watch-mode rescan.
type WatchUpdate struct {
	ChangedFiles   int
	FileCount      int
	HardcodedCount int
	ExtractedCount int
	DynamicCount   int
	Report         finding.Report
	Duration       time.Duration
}

// AnalysisService is the driving port used by the CLI.
type AnalysisService interface {
	RunScan(ctx context.Context, req ScanRequest) (ScanResult, error)
	CaptureHistoryTrend(ctx context.Context, req HistoryTrendRequest) (history.TrendReport, error)
	Close(ctx context.Context) error
}
