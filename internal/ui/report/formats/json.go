package formats

import (
	"encoding/json"

	"i18nscan/internal/engine/finding"
	"i18nscan/internal/shared/version"
)

type jsonSummary struct {
	FilesScanned     int                      `json:"files_scanned"`
	Hardcoded        int                      `json:"hardcoded"`
	Extracted        int                      `json:"extracted"`
	DynamicKeys      int                      `json:"dynamic_keys"`
	CountsByRule     map[string]int           `json:"counts_by_rule"`
	CountsByFile     map[string]int           `json:"counts_by_file"`
	CountsByCategory map[finding.Category]int `json:"counts_by_category"`
}

type jsonDocument struct {
	Tool        string               `json:"tool"`
	Version     string               `json:"version"`
	Summary     jsonSummary          `json:"summary"`
	Findings    []finding.Finding    `json:"findings"`
	Diagnostics []finding.Diagnostic `json:"diagnostics"`
	FailedFiles []finding.FileError  `json:"failed_files"`
}

// GenerateJSON renders the flat finding list with a summary. File paths are
// made relative to projectRoot.
func GenerateJSON(projectRoot string, report finding.Report) ([]byte, error) {
	doc := jsonDocument{
		Tool:    toolName,
		Version: version.Version,
		Summary: jsonSummary{
			FilesScanned:     report.ScannedFiles(),
			Hardcoded:        report.Count(finding.CategoryHardcoded),
			Extracted:        report.Count(finding.CategoryExtracted),
			DynamicKeys:      report.DynamicCount(),
			CountsByRule:     nonNilCounts(report.CountsByRule),
			CountsByFile:     make(map[string]int, len(report.CountsByFile)),
			CountsByCategory: report.CountsByCategory,
		},
		Findings:    make([]finding.Finding, 0, len(report.Findings)),
		Diagnostics: make([]finding.Diagnostic, 0, len(report.Diagnostics)),
		FailedFiles: make([]finding.FileError, 0, len(report.FailedFiles)),
	}
	if doc.Summary.CountsByCategory == nil {
		doc.Summary.CountsByCategory = map[finding.Category]int{}
	}
	for file, n := range report.CountsByFile {
		doc.Summary.CountsByFile[relativeURI(projectRoot, file)] = n
	}
	for _, f := range report.Findings {
		f.File = relativeURI(projectRoot, f.File)
		doc.Findings = append(doc.Findings, f)
	}
	for _, d := range report.Diagnostics {
		d.File = relativeURI(projectRoot, d.File)
		doc.Diagnostics = append(doc.Diagnostics, d)
	}
	for _, failed := range report.FailedFiles {
		failed.Path = relativeURI(projectRoot, failed.Path)
		doc.FailedFiles = append(doc.FailedFiles, failed)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func nonNilCounts(in map[string]int) map[string]int {
	if in == nil {
		return map[string]int{}
	}
	return in
}
