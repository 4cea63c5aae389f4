package formats

import (
	"errors"
	"testing"

	"i18nscan/internal/engine/aggregate"
	"i18nscan/internal/engine/finding"
	"i18nscan/internal/engine/syntax"
)

func span(line, col, endCol int) syntax.Span {
	return syntax.Span{
		Start:     syntax.Position{Line: line, Column: col},
		End:       syntax.Position{Line: line, Column: endCol},
		StartByte: line*100 + col,
		EndByte:   line*100 + endCol,
	}
}

func sampleReport() finding.Report {
	return aggregate.Aggregate(
		finding.FileReport{
			Path: "/project/src/Header.tsx",
			Findings: []finding.Finding{
				{
					RuleID:       "checkJsxText",
					Category:     finding.CategoryHardcoded,
					Confidence:   finding.ConfidenceHigh,
					File:         "/project/src/Header.tsx",
					Span:         span(4, 9, 21),
					Text:         "Welcome back",
					SuggestedKey: "header.welcomeBack",
				},
				{
					RuleID:       "checkTranslationFunction",
					Category:     finding.CategoryExtracted,
					Confidence:   finding.ConfidenceHigh,
					File:         "/project/src/Header.tsx",
					Span:         span(7, 5, 30),
					Text:         `t("nav.home", "Home")`,
					Key:          "nav.home",
					DefaultValue: "Home",
				},
				{
					RuleID:     "checkTranslationFunction",
					Category:   finding.CategoryExtracted,
					Confidence: finding.ConfidenceLow,
					Dynamic:    true,
					File:       "/project/src/Header.tsx",
					Span:       span(9, 5, 20),
					Text:       "`nav.${id}`",
				},
			},
		},
		finding.FileReport{
			Path: "/project/src/locales.ts",
			Findings: []finding.Finding{
				{
					RuleID:       "checkDataStructure",
					Category:     finding.CategoryExtracted,
					Confidence:   finding.ConfidenceHigh,
					File:         "/project/src/locales.ts",
					Span:         span(2, 3, 20),
					Text:         `greeting: "Hello"`,
					Key:          "greeting",
					DefaultValue: "Hello",
					Locale:       "en",
				},
			},
			Diagnostics: []finding.Diagnostic{
				{
					Kind:    finding.DiagnosticRuleCrashed,
					RuleID:  "checkJsxAttribute",
					File:    "/project/src/locales.ts",
					Span:    span(5, 1, 4),
					Message: "index out of range",
				},
			},
		},
		finding.FileReport{
			Path: "/project/src/Broken.tsx",
			Err:  errors.New("parse timeout"),
		},
	)
}

func TestRelativeURI(t *testing.T) {
	tests := []struct {
		root string
		path string
		want string
	}{
		{"/project", "/project/src/App.tsx", "src/App.tsx"},
		{"/project", "/elsewhere/App.tsx", "/elsewhere/App.tsx"},
		{"", "/project/src/App.tsx", "/project/src/App.tsx"},
		{"/project", "src/App.tsx", "src/App.tsx"},
	}
	for _, tt := range tests {
		if got := relativeURI(tt.root, tt.path); got != tt.want {
			t.Errorf("relativeURI(%q, %q) = %q, want %q", tt.root, tt.path, got, tt.want)
		}
	}
}

func TestFindingSummary(t *testing.T) {
	report := sampleReport()
	want := map[string]string{
		"checkJsxText":       `hardcoded string "Welcome back", suggested key header.welcomeBack`,
		"checkDataStructure": `translation key "greeting" = "Hello" [en]`,
	}
	for _, f := range report.Findings {
		w, ok := want[f.RuleID]
		if !ok {
			continue
		}
		if got := findingSummary(f); got != w {
			t.Errorf("findingSummary(%s) = %q, want %q", f.RuleID, got, w)
		}
	}

	dynamic := finding.Finding{Dynamic: true, Text: "`nav.${id}`", Category: finding.CategoryExtracted}
	if got := findingSummary(dynamic); got != "dynamic translation key `nav.${id}`" {
		t.Errorf("unexpected dynamic summary %q", got)
	}
	custom := finding.Finding{Message: "custom"}
	if got := findingSummary(custom); got != "custom" {
		t.Errorf("explicit message should win, got %q", got)
	}
}

func TestSanitizeCell(t *testing.T) {
	if got := sanitizeCell("a\tb\nc\rd"); got != "a b c d" {
		t.Errorf("sanitizeCell = %q", got)
	}
}
