package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	// Keys typed into the filter prompt belong to the list.
	if m.activeList().FilterState() == list.Filtering {
		return m.updateActiveList(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.mode == panelIssues {
			m.mode = panelKeys
		} else {
			m.mode = panelIssues
		}
		return m, nil
	case "t":
		m.showTrend = !m.showTrend
		return m, nil
	case "esc":
		if m.showTrend {
			m.showTrend = false
			return m, nil
		}
	case "o", "enter":
		target, ok := selectedSourceTarget(m)
		if !ok {
			m.sourceJumpStatus = statusStyle.Render("No source target available.")
			return m, nil
		}
		return m, jumpToSourceCmd(target)
	}

	return m.updateActiveList(msg)
}

type sourceTarget struct {
	file string
	line int
}

func selectedSourceTarget(m model) (sourceTarget, bool) {
	item, ok := m.activeList().SelectedItem().(findingItem)
	if !ok || item.finding.File == "" {
		return sourceTarget{}, false
	}
	line := item.finding.Span.Start.Line
	if line < 1 {
		line = 1
	}
	return sourceTarget{file: item.finding.File, line: line}, true
}

func jumpToSourceCmd(target sourceTarget) tea.Cmd {
	cmd := editorCommand(target)
	label := fmt.Sprintf("%s:%d", target.file, target.line)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return sourceJumpResultMsg{target: label, err: err}
	})
}

func editorCommand(target sourceTarget) *exec.Cmd {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	args := []string{target.file}
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim") || strings.HasSuffix(editor, "/vi") || editor == "vi":
		args = []string{fmt.Sprintf("+%d", target.line), target.file}
	case strings.HasSuffix(editor, "code"):
		args = []string{"--goto", fmt.Sprintf("%s:%d", target.file, target.line)}
	}
	return exec.Command(editor, args...)
}
