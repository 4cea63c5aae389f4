// Package aggregate merges per-file reports into one deterministic Report.
package aggregate

import (
	"sort"

	"i18nscan/internal/engine/finding"
	"i18nscan/internal/engine/syntax"
)

type findingKey struct {
	ruleID string
	path   string
	span   syntax.Span
}

// Aggregate merges reports, drops exact (rule, path, span) duplicates, sorts
// by path and position and computes the per-rule, per-file and per-category
// counts. Findings of different rules on the same span are all kept.
func Aggregate(reports ...finding.FileReport) finding.Report {
	byPath := make(map[string]*finding.FileReport, len(reports))
	order := make([]string, 0, len(reports))
	for _, r := range reports {
		merged, ok := byPath[r.Path]
		if !ok {
			copied := finding.FileReport{
				Path:     r.Path,
				Language: r.Language,
				Skipped:  r.Skipped,
				Err:      r.Err,
			}
			merged = &copied
			byPath[r.Path] = merged
			order = append(order, r.Path)
		} else {
			merged.Skipped = merged.Skipped && r.Skipped
			if merged.Err == nil {
				merged.Err = r.Err
			}
			if merged.Language == "" {
				merged.Language = r.Language
			}
		}
		merged.Findings = append(merged.Findings, r.Findings...)
		merged.Diagnostics = append(merged.Diagnostics, r.Diagnostics...)
	}
	sort.Strings(order)

	out := finding.Report{
		Files:            make([]finding.FileReport, 0, len(order)),
		Findings:         []finding.Finding{},
		CountsByRule:     make(map[string]int),
		CountsByFile:     make(map[string]int),
		CountsByCategory: make(map[finding.Category]int),
	}
	for _, path := range order {
		file := byPath[path]
		file.Findings = dedupe(file.Findings)
		sortFindings(file.Findings)
		sortDiagnostics(file.Diagnostics)

		for _, f := range file.Findings {
			out.CountsByRule[f.RuleID]++
			out.CountsByCategory[f.Category]++
		}
		if len(file.Findings) > 0 {
			out.CountsByFile[path] = len(file.Findings)
		}
		out.Findings = append(out.Findings, file.Findings...)
		out.Diagnostics = append(out.Diagnostics, file.Diagnostics...)
		if file.Err != nil {
			out.FailedFiles = append(out.FailedFiles, finding.FileError{Path: path, Error: file.Err.Error()})
		}
		out.Files = append(out.Files, *file)
	}
	return out
}

func dedupe(findings []finding.Finding) []finding.Finding {
	seen := make(map[findingKey]bool, len(findings))
	out := make([]finding.Finding, 0, len(findings))
	for _, f := range findings {
		key := findingKey{ruleID: f.RuleID, path: f.File, span: f.Span}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}

func sortFindings(findings []finding.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return finding.Less(findings[i], findings[j])
	})
}

func sortDiagnostics(diags []finding.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Span.StartByte != b.Span.StartByte {
			return a.Span.StartByte < b.Span.StartByte
		}
		return a.RuleID < b.RuleID
	})
}
