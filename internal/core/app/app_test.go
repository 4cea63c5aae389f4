package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i18nscan/internal/core/config"
	"i18nscan/internal/core/errors"
	"i18nscan/internal/core/ports"
	"i18nscan/internal/engine/finding"
	"i18nscan/internal/engine/rules"
)

const appSource = `export function App() {
  return (
    <div>
      <h1>Welcome back</h1>
      <p>{t("errors.notFound", "Not found")}</p>
    </div>
  );
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newTestApp lays out a small project and returns an app rooted at it.
func newTestApp(t *testing.T, mutate func(cfg *config.Config)) (*App, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"web"}`)
	writeFile(t, filepath.Join(root, "src", "App.tsx"), appSource)
	writeFile(t, filepath.Join(root, "src", "App.test.tsx"), `test("x", () => <p>Hello from a test</p>);`)
	writeFile(t, filepath.Join(root, "node_modules", "lib", "index.js"), `alert("Something went wrong");`)
	writeFile(t, filepath.Join(root, "src", "legacy", "Old.jsx"), `const Old = () => <span>Old legacy banner</span>;`)
	writeFile(t, filepath.Join(root, "README.md"), "Not a source file")

	cfg := config.DefaultConfig()
	cfg.Scan.ProjectRoot = root
	cfg.Scan.Paths = []string{root}
	cfg.Scan.Workers = 2
	cfg.Scan.Ignore = append(cfg.Scan.Ignore, "src/legacy/**")
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, config.Validate(cfg))

	a, err := New(cfg, root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a, root
}

func TestDiscoverFiles(t *testing.T) {
	a, root := newTestApp(t, nil)

	files, err := a.DiscoverFiles([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "src", "App.tsx")}, files)
}

func TestDiscoverFiles_IncludeTestsAndSizeLimit(t *testing.T) {
	a, root := newTestApp(t, func(cfg *config.Config) {
		cfg.Scan.IncludeTests = true
	})
	writeFile(t, filepath.Join(root, "src", "Huge.tsx"), strings.Repeat("// padding\n", 200000))

	files, err := a.DiscoverFiles([]string{root})
	require.NoError(t, err)
	assert.Contains(t, files, filepath.Join(root, "src", "App.test.tsx"))
	assert.NotContains(t, files, filepath.Join(root, "src", "Huge.tsx"))
	assert.NotContains(t, files, filepath.Join(root, "node_modules", "lib", "index.js"))
}

func TestDiscoverFiles_MissingRoot(t *testing.T) {
	a, root := newTestApp(t, nil)

	_, err := a.DiscoverFiles([]string{filepath.Join(root, "missing")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestRunScan(t *testing.T) {
	a, root := newTestApp(t, nil)

	result, err := a.RunScan(context.Background(), ports.ScanRequest{})
	require.NoError(t, err)

	report := result.Report
	assert.Equal(t, 1, report.ScannedFiles())
	assert.Equal(t, 1, report.CountsByRule[rules.RuleJSXText])
	assert.Equal(t, 1, report.CountsByRule[rules.RuleTranslationFunction])
	assert.Empty(t, report.FailedFiles)
	assert.Empty(t, result.RunID, "history is disabled by default")

	var texts []string
	for _, f := range report.Findings {
		assert.Equal(t, filepath.Join(root, "src", "App.tsx"), f.File)
		texts = append(texts, f.Text)
	}
	assert.Contains(t, texts, "Welcome back")
}

func TestRunScan_CancelledContext(t *testing.T) {
	a, _ := newTestApp(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := a.RunScan(ctx, ports.ScanRequest{})
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, result.Report.FailedFiles, 1)
}

func TestRunScan_DisabledRule(t *testing.T) {
	a, _ := newTestApp(t, func(cfg *config.Config) {
		cfg.Rules.Disabled = []string{rules.RuleJSXText}
	})

	result, err := a.RunScan(context.Background(), ports.ScanRequest{})
	require.NoError(t, err)
	assert.Zero(t, result.Report.Count(finding.CategoryHardcoded))
	assert.Equal(t, 1, result.Report.Count(finding.CategoryExtracted))
	for _, rule := range a.Rules() {
		assert.NotEqual(t, rules.RuleJSXText, rule.ID)
	}
}

func TestRunScan_RecordsHistory(t *testing.T) {
	a, root := newTestApp(t, func(cfg *config.Config) {
		cfg.History.Enabled = true
		cfg.History.Project = "web"
	})
	ctx := context.Background()

	first, err := a.RunScan(ctx, ports.ScanRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, first.RunID)

	writeFile(t, filepath.Join(root, "src", "Footer.tsx"), `export const Footer = () => <footer>All rights reserved here</footer>;`)
	second, err := a.RunScan(ctx, ports.ScanRequest{})
	require.NoError(t, err)
	require.NotEqual(t, first.RunID, second.RunID)

	trend, err := a.CaptureHistoryTrend(ctx, time.Time{}, 0, time.Hour)
	require.NoError(t, err)
	require.Len(t, trend.Points, 2)
	assert.Equal(t, "web", trend.Project)
	assert.Equal(t, 1, trend.Points[1].DeltaHardcoded)
	assert.Equal(t, 1, trend.Points[1].DeltaFiles)

	_, err = os.Stat(filepath.Join(root, config.DefaultHistoryPath))
	assert.NoError(t, err)
}

func TestCaptureHistoryTrend_Disabled(t *testing.T) {
	a, _ := newTestApp(t, nil)

	_, err := a.CaptureHistoryTrend(context.Background(), time.Time{}, 0, 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
}

func TestHandleChanges(t *testing.T) {
	a, root := newTestApp(t, nil)
	ctx := context.Background()

	_, err := a.RunScan(ctx, ports.ScanRequest{})
	require.NoError(t, err)

	var updates []Update
	a.SetUpdateHandler(func(u Update) { updates = append(updates, u) })

	// New file plus an edit that removes the hardcoded text.
	footer := filepath.Join(root, "src", "Footer.tsx")
	writeFile(t, footer, `export const Footer = () => <footer>All rights reserved here</footer>;`)
	app := filepath.Join(root, "src", "App.tsx")
	writeFile(t, app, `export const App = () => <div>{t("home.title")}</div>;`)

	a.HandleChanges(ctx, []string{footer, app})
	require.Len(t, updates, 1)
	assert.Equal(t, 2, updates[0].ChangedFiles)
	assert.Equal(t, 2, updates[0].FileCount)
	assert.Equal(t, 1, updates[0].HardcodedCount)
	assert.Equal(t, 1, updates[0].ExtractedCount)

	// Removal drops the cached report.
	require.NoError(t, os.Remove(footer))
	a.HandleChanges(ctx, []string{footer})
	require.Len(t, updates, 2)
	assert.Equal(t, 1, updates[1].FileCount)
	assert.Zero(t, updates[1].HardcodedCount)
}

func TestApplyConfig(t *testing.T) {
	a, root := newTestApp(t, nil)
	ctx := context.Background()

	_, err := a.RunScan(ctx, ports.ScanRequest{})
	require.NoError(t, err)

	next := config.DefaultConfig()
	next.Rules.Enabled = []string{rules.RuleTranslationFunction}
	require.NoError(t, a.ApplyConfig(next))
	assert.Len(t, a.Rules(), 1)
	assert.Equal(t, root, a.Paths.ProjectRoot, "paths are fixed at startup")

	var update Update
	a.SetUpdateHandler(func(u Update) { update = u })
	a.HandleChanges(ctx, []string{filepath.Join(root, "src", "App.tsx")})
	assert.Zero(t, update.HardcodedCount)
	assert.Equal(t, 1, update.ExtractedCount)

	bad := config.DefaultConfig()
	bad.Rules.Enabled = []string{"checkNothing"}
	require.Error(t, a.ApplyConfig(bad))
	assert.Len(t, a.Rules(), 1, "rejected config keeps the previous engine")
}

func TestRender(t *testing.T) {
	a, _ := newTestApp(t, nil)
	result, err := a.RunScan(context.Background(), ports.ScanRequest{})
	require.NoError(t, err)

	text, err := a.Render(result.Report, "text")
	require.NoError(t, err)
	assert.Contains(t, string(text), "src/App.tsx")

	sarifOut, err := a.Render(result.Report, "SARIF")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(sarifOut, &doc))
	assert.Equal(t, "2.1.0", doc["version"])

	tsv, err := a.Render(result.Report, "tsv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(tsv), "File\tLine"))

	_, err = a.Render(result.Report, "html")
	require.Error(t, err)
}

func TestGenerateOutputs(t *testing.T) {
	a, root := newTestApp(t, func(cfg *config.Config) {
		cfg.Output.Format = "json"
	})
	a.Paths.OutputPath = filepath.Join(root, "out", "report.json")
	a.Paths.CatalogPath = filepath.Join(root, "out", "catalog.yaml")

	result, err := a.RunScan(context.Background(), ports.ScanRequest{})
	require.NoError(t, err)

	written, err := a.GenerateOutputs(result.Report)
	require.NoError(t, err)
	assert.Equal(t, []string{a.Paths.OutputPath, a.Paths.CatalogPath}, written)

	catalog, err := os.ReadFile(a.Paths.CatalogPath)
	require.NoError(t, err)
	assert.Contains(t, string(catalog), "errors.notFound")
	assert.Contains(t, string(catalog), "Not found")

	report, err := os.ReadFile(a.Paths.OutputPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(report))
}

func TestAnalysisService(t *testing.T) {
	a, _ := newTestApp(t, nil)
	svc := a.AnalysisService()

	result, err := svc.RunScan(context.Background(), ports.ScanRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Report.Count(finding.CategoryHardcoded))

	_, err = svc.CaptureHistoryTrend(context.Background(), ports.HistoryTrendRequest{})
	require.Error(t, err)
}

func TestHealthService(t *testing.T) {
	a, _ := newTestApp(t, nil)
	_, err := a.RunScan(context.Background(), ports.ScanRequest{})
	require.NoError(t, err)

	status := NewHealthService(a).Check(context.Background())
	assert.Equal(t, "up", status.Status)
	assert.Equal(t, "ok", status.Components["parser"])
	assert.Equal(t, "1 files", status.Components["cache"])
	assert.NotContains(t, status.Components, "history")
}

func TestWatchRoots(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "src", "App.tsx")
	writeFile(t, file, appSource)

	assert.Equal(t, []string{root}, watchRoots([]string{root, file}))
}
