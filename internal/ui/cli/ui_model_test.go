package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"i18nscan/internal/core/ports"
	"i18nscan/internal/data/history"
	"i18nscan/internal/engine/finding"
	"i18nscan/internal/engine/syntax"
)

func at(line, col int) syntax.Span {
	return syntax.Span{
		Start: syntax.Position{Line: line, Column: col},
		End:   syntax.Position{Line: line, Column: col + 5},
	}
}

func sampleUpdate() ports.WatchUpdate {
	return ports.WatchUpdate{
		ChangedFiles:   1,
		FileCount:      2,
		HardcodedCount: 1,
		ExtractedCount: 1,
		DynamicCount:   1,
		Report: finding.Report{
			Findings: []finding.Finding{
				{RuleID: "checkJsxText", Category: finding.CategoryHardcoded, File: "/repo/src/App.tsx", Span: at(4, 11), Text: "Welcome back", SuggestedKey: "app.welcomeBack"},
				{RuleID: "checkTranslationFunction", Category: finding.CategoryExtracted, File: "/repo/src/App.tsx", Span: at(5, 12), Text: "errors.notFound", Key: "errors.notFound", DefaultValue: "Not found"},
				{RuleID: "checkTranslationFunction", Category: finding.CategoryExtracted, Dynamic: true, File: "/repo/src/Nav.tsx", Span: at(9, 3), Text: "nav.${id}"},
			},
		},
	}
}

func TestModel_UpdateSplitsPanels(t *testing.T) {
	m := initialModel("/repo", nil)

	updated, _ := m.Update(updateMsg{update: sampleUpdate()})
	state, ok := updated.(model)
	if !ok {
		t.Fatalf("expected model type, got %T", updated)
	}
	if len(state.issueList.Items()) != 2 {
		t.Fatalf("expected hardcoded and dynamic findings as issues, got %d", len(state.issueList.Items()))
	}
	if len(state.keyList.Items()) != 1 {
		t.Fatalf("expected 1 key item, got %d", len(state.keyList.Items()))
	}
	if state.hardcodedCount != 1 || state.fileCount != 2 {
		t.Fatalf("unexpected counters: %+v", state)
	}

	first := state.issueList.Items()[0].(findingItem)
	if first.location != "src/App.tsx:4:11" {
		t.Fatalf("expected project-relative location, got %q", first.location)
	}
	if !strings.Contains(first.Description(), "app.welcomeBack") {
		t.Fatalf("expected suggested key in description, got %q", first.Description())
	}

	view := state.View()
	if !strings.Contains(view, "1 Hardcoded") {
		t.Fatalf("expected hardcoded count in view:\n%s", view)
	}
}

func TestModel_PanelAndTrendToggle(t *testing.T) {
	trend := history.TrendReport{Project: "web", RunCount: 0}
	m := initialModel("/repo", &trend)
	updated, _ := m.Update(updateMsg{update: sampleUpdate()})
	state := updated.(model)

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)
	if state.mode != panelKeys {
		t.Fatalf("expected keys panel after tab, got %v", state.mode)
	}
	target, ok := selectedSourceTarget(state)
	if !ok || target.line != 5 {
		t.Fatalf("expected key target at line 5, got %+v (ok=%v)", target, ok)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)
	if state.mode != panelIssues {
		t.Fatalf("expected issues panel after second tab, got %v", state.mode)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	state = updated.(model)
	if !state.showTrend {
		t.Fatal("expected trend overlay toggled on")
	}
	if !strings.Contains(state.View(), "project web") {
		t.Fatalf("expected trend text in view:\n%s", state.View())
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyEsc})
	state = updated.(model)
	if state.showTrend {
		t.Fatal("expected trend overlay to close on esc")
	}
}

func TestModel_OpenWithoutSelection(t *testing.T) {
	m := initialModel("/repo", nil)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	state := updated.(model)
	if cmd != nil {
		t.Fatal("expected no command without a selection")
	}
	if !strings.Contains(state.sourceJumpStatus, "No source target") {
		t.Fatalf("unexpected status %q", state.sourceJumpStatus)
	}
	if !strings.Contains(state.trendView(), "history is disabled") {
		t.Fatalf("unexpected trend view %q", state.trendView())
	}
}

func TestModel_SourceJumpResult(t *testing.T) {
	m := initialModel("/repo", nil)

	updated, _ := m.Update(sourceJumpResultMsg{target: "src/App.tsx:4", err: errors.New("exit status 1")})
	state := updated.(model)
	if !strings.Contains(state.sourceJumpStatus, "Failed to open src/App.tsx:4") {
		t.Fatalf("unexpected status %q", state.sourceJumpStatus)
	}
}

func TestEditorCommand(t *testing.T) {
	target := sourceTarget{file: "/repo/src/App.tsx", line: 12}

	tests := []struct {
		editor string
		want   string
	}{
		{"nvim", "nvim +12 /repo/src/App.tsx"},
		{"", "vi +12 /repo/src/App.tsx"},
		{"code", "code --goto /repo/src/App.tsx:12"},
		{"nano", "nano /repo/src/App.tsx"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)
			cmd := editorCommand(target)
			if got := strings.Join(cmd.Args, " "); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFindingItemTitle(t *testing.T) {
	long := strings.Repeat("word ", 20)
	item := findingItem{finding: finding.Finding{Category: finding.CategoryHardcoded, Text: long}}
	if got := item.Title(); len([]rune(got)) > maxTitleText+2 {
		t.Fatalf("expected truncated title, got %d runes", len([]rune(got)))
	}

	key := findingItem{finding: finding.Finding{Category: finding.CategoryExtracted, Key: "nav.home"}}
	if key.Title() != "nav.home" {
		t.Fatalf("unexpected key title %q", key.Title())
	}
}
