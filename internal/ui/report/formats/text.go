package formats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"i18nscan/internal/engine/finding"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	fileStyle = lipgloss.NewStyle().Bold(true)

	hardcodedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	dynamicStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	extractedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type TextOptions struct {
	ProjectRoot string
	// ShowExtracted lists extracted keys next to hardcoded strings. Counts
	// are always printed.
	ShowExtracted bool
}

type TextGenerator struct {
	opts TextOptions
}

func NewTextGenerator(opts TextOptions) *TextGenerator {
	return &TextGenerator{opts: opts}
}

func (g *TextGenerator) Generate(report finding.Report) string {
	var b strings.Builder

	byFile := make(map[string][]finding.Finding)
	var files []string
	for _, f := range report.Findings {
		if f.Category == finding.CategoryExtracted && !f.Dynamic && !g.opts.ShowExtracted {
			continue
		}
		if _, ok := byFile[f.File]; !ok {
			files = append(files, f.File)
		}
		byFile[f.File] = append(byFile[f.File], f)
	}
	sort.Strings(files)

	for _, file := range files {
		b.WriteString(fileStyle.Render(relativeURI(g.opts.ProjectRoot, file)))
		b.WriteString("\n")
		for _, f := range byFile[file] {
			b.WriteString(g.line(f))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(report.Diagnostics) > 0 || len(report.FailedFiles) > 0 {
		b.WriteString(titleStyle.Render("Engine problems"))
		b.WriteString("\n")
		for _, d := range report.Diagnostics {
			fmt.Fprintf(&b, "  %s:%d:%d  %s  %s: %s\n",
				relativeURI(g.opts.ProjectRoot, d.File), d.Span.Start.Line, d.Span.Start.Column,
				hardcodedStyle.Render(string(d.Kind)), d.RuleID, d.Message)
		}
		for _, failed := range report.FailedFiles {
			fmt.Fprintf(&b, "  %s  %s  %s\n",
				relativeURI(g.opts.ProjectRoot, failed.Path), hardcodedStyle.Render("not scanned"), failed.Error)
		}
		b.WriteString("\n")
	}

	b.WriteString(g.summary(report))
	return b.String()
}

func (g *TextGenerator) line(f finding.Finding) string {
	pos := mutedStyle.Render(fmt.Sprintf("%4d:%-3d", f.Span.Start.Line, f.Span.Start.Column))
	switch {
	case f.Dynamic:
		return fmt.Sprintf("  %s %s %s  %s", pos, dynamicStyle.Render("dynamic  "), f.RuleID, f.Text)
	case f.Category == finding.CategoryExtracted:
		text := strconv.Quote(f.Key)
		if f.DefaultValue != "" {
			text += " = " + strconv.Quote(f.DefaultValue)
		}
		if f.Locale != "" {
			text += " [" + f.Locale + "]"
		}
		return fmt.Sprintf("  %s %s %s  %s", pos, extractedStyle.Render("key      "), f.RuleID, text)
	default:
		text := strconv.Quote(f.Text)
		if f.SuggestedKey != "" {
			text += mutedStyle.Render(" -> " + f.SuggestedKey)
		}
		return fmt.Sprintf("  %s %s %s  %s", pos, hardcodedStyle.Render("hardcoded"), f.RuleID, text)
	}
}

func (g *TextGenerator) summary(report finding.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  files scanned:      %d\n", report.ScannedFiles())
	fmt.Fprintf(&b, "  hardcoded strings:  %d\n", report.Count(finding.CategoryHardcoded))
	fmt.Fprintf(&b, "  extracted keys:     %d\n", report.Count(finding.CategoryExtracted))
	fmt.Fprintf(&b, "  dynamic keys:       %d\n", report.DynamicCount())
	if n := len(report.Diagnostics) + len(report.FailedFiles); n > 0 {
		fmt.Fprintf(&b, "  engine problems:    %d\n", n)
	}

	if len(report.CountsByRule) > 0 {
		ids := make([]string, 0, len(report.CountsByRule))
		for id := range report.CountsByRule {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		rows := make([][]string, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, []string{id, strconv.Itoa(report.CountsByRule[id])})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("rule", "findings").
			Rows(rows...)
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	return b.String()
}
