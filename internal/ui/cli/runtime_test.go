package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i18nscan/internal/data/history"
	"i18nscan/internal/engine/rules"
	"i18nscan/internal/shared/version"
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

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"web"}`)
	writeFile(t, filepath.Join(root, "src", "App.tsx"), appSource)
	return root
}

// writeProjectConfig writes a config anchored at root and returns its path.
func writeProjectConfig(t *testing.T, root, extra string) string {
	t.Helper()
	path := filepath.Join(root, "i18nscan.toml")
	content := fmt.Sprintf("[scan]\nproject_root = %q\npaths = [%q]\n%s", root, root, extra)
	writeFile(t, path, content)
	return path
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestScan_TextReport(t *testing.T) {
	root := newProject(t)

	code, stdout, stderr := run(t, "scan", root)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "src/App.tsx")
	assert.Contains(t, stdout, "Welcome back")
}

func TestScan_FailOnFindings(t *testing.T) {
	root := newProject(t)

	code, _, stderr := run(t, "scan", "--fail-on-findings", root)
	assert.Equal(t, ExitFindings, code)
	assert.Contains(t, stderr, "1 hardcoded strings found")
}

func TestScan_FailOnFindingsClean(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{}`)
	writeFile(t, filepath.Join(root, "src", "App.tsx"), `export const App = () => <h1>{t("home.title")}</h1>;`)

	code, _, stderr := run(t, "scan", "--fail-on-findings", root)
	assert.Equal(t, ExitOK, code, stderr)
}

func TestScan_WritesOutputAndCatalog(t *testing.T) {
	root := newProject(t)
	out := filepath.Join(root, "out", "report.json")
	catalog := filepath.Join(root, "out", "catalog.yaml")

	code, stdout, stderr := run(t, "scan", "--format", "JSON", "-o", out, "--catalog", catalog, root)
	require.Equal(t, ExitOK, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	data, err = os.ReadFile(catalog)
	require.NoError(t, err)
	assert.Contains(t, string(data), "errors.notFound")
}

func TestScan_SARIFToStdout(t *testing.T) {
	root := newProject(t)

	code, stdout, stderr := run(t, "scan", "-f", "sarif", root)
	require.Equal(t, ExitOK, code, stderr)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "2.1.0", doc["version"])
}

func TestScan_Errors(t *testing.T) {
	root := newProject(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing explicit config", []string{"--config", filepath.Join(root, "absent.toml"), "scan", root}, "load config"},
		{"bad format", []string{"scan", "--format", "html", root}, "output.format"},
		{"missing path", []string{"scan", filepath.Join(root, "missing")}, "scan path not found"},
		{"unknown command", []string{"lint"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(t, tt.args...)
			assert.Equal(t, ExitError, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestRules(t *testing.T) {
	code, stdout, stderr := run(t, "rules")
	require.Equal(t, ExitOK, code, stderr)
	for _, rule := range rules.Builtin().Rules() {
		assert.Contains(t, stdout, rule.ID)
	}
}

func TestRules_JSONReflectsConfig(t *testing.T) {
	root := newProject(t)
	cfgPath := writeProjectConfig(t, root, "\n[rules]\ndisabled = [\"checkJsxText\"]\n")

	code, stdout, stderr := run(t, "--config", cfgPath, "rules", "--format", "json")
	require.Equal(t, ExitOK, code, stderr)

	var infos []ruleInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	require.Len(t, infos, rules.Builtin().Len())
	for _, info := range infos {
		assert.Equal(t, info.ID != rules.RuleJSXText, info.Enabled, info.ID)
	}
}

func TestHistory(t *testing.T) {
	root := newProject(t)
	cfgPath := writeProjectConfig(t, root, "\n[history]\nenabled = true\nproject = \"web\"\n")

	code, stdout, stderr := run(t, "--config", cfgPath, "history")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "no runs recorded")

	for i := 0; i < 2; i++ {
		code, _, stderr = run(t, "--config", cfgPath, "scan")
		require.Equal(t, ExitOK, code, stderr)
	}

	code, stdout, stderr = run(t, "--config", cfgPath, "history", "--format", "json")
	require.Equal(t, ExitOK, code, stderr)

	var trend history.TrendReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &trend))
	assert.Equal(t, "web", trend.Project)
	assert.Equal(t, 2, trend.RunCount)
	require.Len(t, trend.Points, 2)
	assert.Zero(t, trend.Points[1].DeltaHardcoded)

	out := filepath.Join(root, "trend.tsv")
	code, _, stderr = run(t, "--config", cfgPath, "history", "--format", "tsv", "-o", out)
	require.Equal(t, ExitOK, code, stderr)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\t")
}

func TestHistory_BadFormat(t *testing.T) {
	root := newProject(t)
	cfgPath := writeProjectConfig(t, root, "")

	code, _, stderr := run(t, "--config", cfgPath, "history", "--format", "xml")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "unsupported history format")
}

func TestVersion(t *testing.T) {
	code, stdout, _ := run(t, "version")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "i18nscan "+version.Version+"\n", stdout)
}

func TestExistingFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "i18nscan.toml")
	writeFile(t, path, "version = 1\n")

	got, ok := existingFile(path)
	assert.True(t, ok)
	assert.Equal(t, path, got)

	_, ok = existingFile(filepath.Join(root, "absent.toml"))
	assert.False(t, ok)
	_, ok = existingFile(root)
	assert.False(t, ok)
}

func TestRedirectLogs_RefusesSymlink(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.log")
	writeFile(t, target, "")
	link := filepath.Join(root, "watch.log")
	require.NoError(t, os.Symlink(target, link))

	_, err := redirectLogs(link, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symlink")
}
