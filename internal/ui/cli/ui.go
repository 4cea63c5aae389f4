package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"i18nscan/internal/core/ports"
	"i18nscan/internal/data/history"
	"i18nscan/internal/engine/finding"
	"i18nscan/internal/ui/report"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	hardcodedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	dynamicStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	trendStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)
)

const maxTitleText = 60

type panel int

const (
	panelIssues panel = iota
	panelKeys
)

func (p panel) String() string {
	if p == panelKeys {
		return "keys"
	}
	return "issues"
}

type findingItem struct {
	finding  finding.Finding
	location string
}

func (i findingItem) Title() string {
	f := i.finding
	switch {
	case f.Dynamic:
		return fmt.Sprintf("dynamic key %s", f.Text)
	case f.Category == finding.CategoryExtracted:
		if f.DefaultValue != "" {
			return fmt.Sprintf("%s = %q", f.Key, truncate(f.DefaultValue))
		}
		return f.Key
	default:
		return fmt.Sprintf("%q", truncate(f.Text))
	}
}

func (i findingItem) Description() string {
	desc := fmt.Sprintf("%s  %s", i.location, i.finding.RuleID)
	if i.finding.SuggestedKey != "" {
		desc += "  -> " + i.finding.SuggestedKey
	}
	return desc
}

func (i findingItem) FilterValue() string { return i.Title() + " " + i.Description() }

type model struct {
	issueList   list.Model
	keyList     list.Model
	mode        panel
	projectRoot string

	trend     *history.TrendReport
	showTrend bool

	lastUpdate     time.Time
	fileCount      int
	hardcodedCount int
	extractedCount int
	dynamicCount   int
	changedFiles   int
	duration       time.Duration

	sourceJumpStatus string
}

type updateMsg struct {
	update ports.WatchUpdate
}

type sourceJumpResultMsg struct {
	target string
	err    error
}

func initialModel(projectRoot string, trend *history.TrendReport) model {
	issues := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	issues.Title = "Hardcoded Strings"
	issues.SetShowStatusBar(false)
	issues.SetFilteringEnabled(true)

	keys := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	keys.Title = "Translation Keys"
	keys.SetShowStatusBar(false)
	keys.SetFilteringEnabled(true)

	return model{
		issueList:   issues,
		keyList:     keys,
		projectRoot: projectRoot,
		trend:       trend,
		lastUpdate:  time.Now(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.issueList.SetSize(msg.Width-h, msg.Height-v-5)
		m.keyList.SetSize(msg.Width-h, msg.Height-v-5)
		return m, nil
	case updateMsg:
		return m.applyUpdate(msg.update), nil
	case sourceJumpResultMsg:
		if msg.err != nil {
			m.sourceJumpStatus = hardcodedStyle.Render(fmt.Sprintf("Failed to open %s: %v", msg.target, msg.err))
		} else {
			m.sourceJumpStatus = statusStyle.Render("Returned from " + msg.target)
		}
		return m, nil
	}
	return m.updateActiveList(msg)
}

func (m model) applyUpdate(u ports.WatchUpdate) model {
	m.fileCount = u.FileCount
	m.hardcodedCount = u.HardcodedCount
	m.extractedCount = u.ExtractedCount
	m.dynamicCount = u.DynamicCount
	m.changedFiles = u.ChangedFiles
	m.duration = u.Duration
	m.lastUpdate = time.Now()

	var issues, keys []list.Item
	for _, f := range u.Report.Findings {
		item := findingItem{finding: f, location: m.location(f)}
		if f.Category == finding.CategoryHardcoded || f.Dynamic {
			issues = append(issues, item)
		} else {
			keys = append(keys, item)
		}
	}
	m.issueList.SetItems(issues)
	m.keyList.SetItems(keys)
	return m
}

func (m model) location(f finding.Finding) string {
	path := f.File
	if m.projectRoot != "" {
		if rel, err := filepath.Rel(m.projectRoot, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = filepath.ToSlash(rel)
		}
	}
	return fmt.Sprintf("%s:%d:%d", path, f.Span.Start.Line, f.Span.Start.Column)
}

func (m model) activeList() list.Model {
	if m.mode == panelKeys {
		return m.keyList
	}
	return m.issueList
}

func (m model) updateActiveList(msg tea.Msg) (model, tea.Cmd) {
	var cmd tea.Cmd
	if m.mode == panelKeys {
		m.keyList, cmd = m.keyList.Update(msg)
	} else {
		m.issueList, cmd = m.issueList.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %s | %d files | %d changed | %s",
		m.lastUpdate.Format("15:04:05"), m.fileCount, m.changedFiles, m.duration.Round(time.Millisecond)))

	var summary string
	if m.hardcodedCount == 0 && m.dynamicCount == 0 {
		summary = successStyle.Render(fmt.Sprintf("No hardcoded strings | %d keys", m.extractedCount))
	} else {
		summary = fmt.Sprintf("%s | %s | %d keys",
			hardcodedStyle.Render(fmt.Sprintf("%d Hardcoded", m.hardcodedCount)),
			dynamicStyle.Render(fmt.Sprintf("%d Dynamic", m.dynamicCount)),
			m.extractedCount)
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("i18n String Monitor"), status, summary)

	var body string
	if m.showTrend {
		body = trendStyle.Render(m.trendView())
	} else {
		body = m.activeList().View()
	}

	footer := statusStyle.Render("tab: switch panel | o: open in $EDITOR | t: trend | /: filter | q: quit")
	if m.sourceJumpStatus != "" {
		footer = m.sourceJumpStatus + "\n" + footer
	}
	return docStyle.Render(header + "\n" + body + "\n" + footer)
}

func (m model) trendView() string {
	if m.trend == nil {
		return "Run history is disabled. Set history.enabled = true to record trends."
	}
	return strings.TrimRight(report.RenderTrendText(*m.trend), "\n")
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxTitleText {
		return s
	}
	return string(r[:maxTitleText-3]) + "..."
}
