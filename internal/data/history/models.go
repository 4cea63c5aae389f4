package history

import (
	"time"

	"github.com/google/uuid"

	"i18nscan/internal/engine/finding"
)

const SchemaVersion = 1

// Run is the persisted summary of one scan.
type Run struct {
	SchemaVersion   int            `json:"schema_version"`
	ID              string         `json:"id"`
	Project         string         `json:"project"`
	Timestamp       time.Time      `json:"timestamp"`
	Duration        time.Duration  `json:"duration"`
	FileCount       int            `json:"file_count"`
	FailedFileCount int            `json:"failed_file_count"`
	HardcodedCount  int            `json:"hardcoded_count"`
	ExtractedCount  int            `json:"extracted_count"`
	DynamicKeyCount int            `json:"dynamic_key_count"`
	DiagnosticCount int            `json:"diagnostic_count"`
	CountsByRule    map[string]int `json:"counts_by_rule,omitempty"`
}

// NewRun summarizes an aggregated report under a fresh run id.
func NewRun(project string, report finding.Report, started time.Time, duration time.Duration) Run {
	counts := make(map[string]int, len(report.CountsByRule))
	for id, n := range report.CountsByRule {
		counts[id] = n
	}
	return Run{
		SchemaVersion:   SchemaVersion,
		ID:              uuid.New().String(),
		Project:         project,
		Timestamp:       started.UTC(),
		Duration:        duration,
		FileCount:       report.ScannedFiles(),
		FailedFileCount: len(report.FailedFiles),
		HardcodedCount:  report.Count(finding.CategoryHardcoded),
		ExtractedCount:  report.Count(finding.CategoryExtracted),
		DynamicKeyCount: report.DynamicCount(),
		DiagnosticCount: len(report.Diagnostics),
		CountsByRule:    counts,
	}
}

type TrendPoint struct {
	RunID            string    `json:"run_id"`
	Timestamp        time.Time `json:"timestamp"`
	FileCount        int       `json:"file_count"`
	HardcodedCount   int       `json:"hardcoded_count"`
	ExtractedCount   int       `json:"extracted_count"`
	DynamicKeyCount  int       `json:"dynamic_key_count"`
	DiagnosticCount  int       `json:"diagnostic_count"`
	DeltaFiles       int       `json:"delta_files"`
	DeltaHardcoded   int       `json:"delta_hardcoded"`
	DeltaExtracted   int       `json:"delta_extracted"`
	DeltaDynamicKeys int       `json:"delta_dynamic_keys"`
	// Coverage is extracted / (extracted + hardcoded) as a percentage.
	Coverage     float64 `json:"coverage_pct"`
	AvgHardcoded float64 `json:"avg_hardcoded"`
	WindowHours  float64 `json:"window_hours"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	Project       string       `json:"project"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	RunCount      int          `json:"run_count"`
	Points        []TrendPoint `json:"points"`
}
