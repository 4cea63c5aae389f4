// Package finding defines what the rule engine reports.
package finding

import (
	"i18nscan/internal/engine/syntax"
)

type Category string

const (
	CategoryHardcoded Category = "hardcoded-string"
	CategoryExtracted Category = "extracted-key"
)

type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// Finding is one hardcoded string or one extracted key/value pair.
type Finding struct {
	RuleID     string      `json:"rule_id"`
	Category   Category    `json:"category"`
	Confidence Confidence  `json:"confidence"`
	Dynamic    bool        `json:"dynamic,omitempty"`
	File       string      `json:"file"`
	Span       syntax.Span `json:"span"`
	Text       string      `json:"text"`
	Message    string      `json:"message,omitempty"`

	// SuggestedKey is set by code-detection rules.
	SuggestedKey string `json:"suggested_key,omitempty"`

	// Key, DefaultValue and Locale are set by key-extraction rules.
	Key          string `json:"key,omitempty"`
	DefaultValue string `json:"default_value,omitempty"`
	Locale       string `json:"locale,omitempty"`
}

// Less orders findings by path, position, end and rule id.
func Less(a, b Finding) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	if a.Span.Start.Line != b.Span.Start.Line {
		return a.Span.Start.Line < b.Span.Start.Line
	}
	if a.Span.Start.Column != b.Span.Start.Column {
		return a.Span.Start.Column < b.Span.Start.Column
	}
	if a.Span.EndByte != b.Span.EndByte {
		return a.Span.EndByte < b.Span.EndByte
	}
	if a.RuleID != b.RuleID {
		return a.RuleID < b.RuleID
	}
	return a.Key < b.Key
}

// DiagnosticKind classifies engine-side problems that are not findings.
type DiagnosticKind string

const (
	DiagnosticRuleCrashed    DiagnosticKind = "rule-crashed"
	DiagnosticInvalidFinding DiagnosticKind = "invalid-finding"
)

type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	RuleID  string         `json:"rule_id"`
	File    string         `json:"file"`
	Span    syntax.Span    `json:"span"`
	Message string         `json:"message"`
}

// FileReport is the outcome of scanning one file. Err is set when the file
// could not be scanned to the end; Findings gathered before that stay valid.
type FileReport struct {
	Path        string       `json:"path"`
	Language    string       `json:"language,omitempty"`
	Findings    []Finding    `json:"findings"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Skipped     bool         `json:"skipped,omitempty"`
	Err         error        `json:"-"`
}

// Failed reports whether the file ended with a file-level error.
func (r FileReport) Failed() bool {
	return r.Err != nil
}

// FileError is a file-level failure carried into the aggregate report.
type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Report is the aggregated, deterministic result of a run.
type Report struct {
	Files            []FileReport     `json:"files"`
	Findings         []Finding        `json:"findings"`
	Diagnostics      []Diagnostic     `json:"diagnostics,omitempty"`
	FailedFiles      []FileError      `json:"failed_files,omitempty"`
	CountsByRule     map[string]int   `json:"counts_by_rule"`
	CountsByFile     map[string]int   `json:"counts_by_file"`
	CountsByCategory map[Category]int `json:"counts_by_category"`
}

// Count returns the number of findings in category.
func (r Report) Count(category Category) int {
	return r.CountsByCategory[category]
}

// DynamicCount returns the number of low-confidence dynamic-key findings.
func (r Report) DynamicCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.Dynamic {
			n++
		}
	}
	return n
}

// ScannedFiles counts files that were not skipped.
func (r Report) ScannedFiles() int {
	n := 0
	for _, f := range r.Files {
		if !f.Skipped {
			n++
		}
	}
	return n
}
