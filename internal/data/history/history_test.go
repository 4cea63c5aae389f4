package history

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i18nscan/internal/engine/finding"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SaveLoadRuns(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)

	first, err := store.SaveRun(ctx, Run{
		Project:        "web",
		Timestamp:      base,
		FileCount:      10,
		HardcodedCount: 7,
		ExtractedCount: 3,
		CountsByRule:   map[string]int{"checkJsxText": 5, "checkTranslationFunction": 3},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, SchemaVersion, first.SchemaVersion)

	_, err = store.SaveRun(ctx, Run{
		Project:         "web",
		Timestamp:       base.Add(500 * time.Millisecond),
		Duration:        1500 * time.Millisecond,
		FileCount:       11,
		HardcodedCount:  4,
		ExtractedCount:  8,
		DynamicKeyCount: 1,
	})
	require.NoError(t, err)

	runs, err := store.LoadRuns(ctx, "web", time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.ID, runs[0].ID)
	assert.Equal(t, map[string]int{"checkJsxText": 5, "checkTranslationFunction": 3}, runs[0].CountsByRule)
	assert.Equal(t, 1500*time.Millisecond, runs[1].Duration)
	assert.Equal(t, 1, runs[1].DynamicKeyCount)
	assert.True(t, runs[1].Timestamp.Equal(base.Add(500*time.Millisecond)))

	recent, err := store.LoadRuns(ctx, "web", time.Time{}, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 11, recent[0].FileCount)

	since, err := store.LoadRuns(ctx, "web", base.Add(time.Millisecond), 0)
	require.NoError(t, err)
	assert.Len(t, since, 1)

	latest, ok, err := store.LatestRun(ctx, "web")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, latest.HardcodedCount)
}

func TestStore_ProjectIsolationAndDefault(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	_, err := store.SaveRun(ctx, Run{Project: "a", HardcodedCount: 1})
	require.NoError(t, err)
	_, err = store.SaveRun(ctx, Run{HardcodedCount: 2})
	require.NoError(t, err)

	aRuns, err := store.LoadRuns(ctx, "a", time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, aRuns, 1)
	assert.Equal(t, 1, aRuns[0].HardcodedCount)

	defaults, err := store.LoadRuns(ctx, " ", time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, defaults, 1)
	assert.Equal(t, "default", defaults[0].Project)

	_, ok, err := store.LatestRun(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Prune(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := store.SaveRun(ctx, Run{
			Project:        "web",
			Timestamp:      base.Add(time.Duration(i) * time.Hour),
			HardcodedCount: i,
			CountsByRule:   map[string]int{"checkJsxText": i},
		})
		require.NoError(t, err)
	}

	deleted, err := store.Prune(ctx, "web", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	runs, err := store.LoadRuns(ctx, "web", time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 3, runs[0].HardcodedCount)
	assert.Equal(t, 4, runs[1].HardcodedCount)

	var orphaned int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM run_rule_counts`).Scan(&orphaned))
	assert.Equal(t, 2, orphaned)
}

func TestStore_RejectsUnknownSchemaVersion(t *testing.T) {
	store := openStore(t)
	_, err := store.SaveRun(context.Background(), Run{SchemaVersion: SchemaVersion + 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported run schema version")
}

func TestStore_OpenRejectsDirectoryPath(t *testing.T) {
	_, err := Open(t.TempDir(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestStore_OpenCorruptDBPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not sqlite"), 0o644))

	_, err := Open(path, 0)
	require.Error(t, err)
	lower := strings.ToLower(err.Error())
	assert.True(t, strings.Contains(lower, "not a database") || strings.Contains(lower, "schema"), err.Error())
}

func TestEnsureSchema_DetectsNewerVersionDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path, 0)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.db.Exec(`INSERT OR REPLACE INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1)
	require.NoError(t, err)

	db, err := sql.Open(driverName, "file:"+path)
	require.NoError(t, err)
	defer db.Close()
	err = EnsureSchema(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestNewRun(t *testing.T) {
	report := finding.Report{
		Files: []finding.FileReport{{Path: "a.tsx"}, {Path: "b.ts"}, {Path: "c.ts", Skipped: true}},
		Findings: []finding.Finding{
			{RuleID: "checkJsxText", Category: finding.CategoryHardcoded},
			{RuleID: "checkTranslationFunction", Category: finding.CategoryExtracted, Dynamic: true},
		},
		Diagnostics:      []finding.Diagnostic{{Kind: finding.DiagnosticRuleCrashed}},
		FailedFiles:      []finding.FileError{{Path: "b.ts", Error: "boom"}},
		CountsByRule:     map[string]int{"checkJsxText": 1, "checkTranslationFunction": 1},
		CountsByCategory: map[finding.Category]int{finding.CategoryHardcoded: 1, finding.CategoryExtracted: 1},
	}
	started := time.Date(2026, 1, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	run := NewRun("web", report, started, time.Second)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, time.UTC, run.Timestamp.Location())
	assert.Equal(t, 1, run.HardcodedCount)
	assert.Equal(t, 1, run.ExtractedCount)
	assert.Equal(t, 1, run.DynamicKeyCount)
	assert.Equal(t, 1, run.DiagnosticCount)
	assert.Equal(t, 1, run.FailedFileCount)
	assert.Equal(t, report.ScannedFiles(), run.FileCount)
}

func TestBuildTrendReport(t *testing.T) {
	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	runs := []Run{
		{ID: "r1", Timestamp: base, FileCount: 5, HardcodedCount: 10, ExtractedCount: 0},
		{ID: "r2", Timestamp: base.Add(2 * time.Hour), FileCount: 6, HardcodedCount: 6, ExtractedCount: 2},
		{ID: "r3", Timestamp: base.Add(25 * time.Hour), FileCount: 6, HardcodedCount: 2, ExtractedCount: 6},
	}

	report, err := BuildTrendReport("web", runs, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 3, report.RunCount)
	assert.Equal(t, 1, report.Points[1].DeltaFiles)
	assert.Equal(t, -4, report.Points[1].DeltaHardcoded)
	assert.Equal(t, 8.0, report.Points[1].AvgHardcoded)
	assert.Equal(t, 4.0, report.Points[2].AvgHardcoded)
	assert.Equal(t, 25.0, report.Points[1].Coverage)
	assert.Equal(t, 0.0, report.Points[0].Coverage)

	_, err = BuildTrendReport("web", nil, time.Hour)
	require.Error(t, err)
}

func TestIsCorruptError(t *testing.T) {
	assert.True(t, IsCorruptError(errors.New("database disk image is malformed")))
	assert.False(t, IsCorruptError(nil))
}
