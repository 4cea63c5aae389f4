package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName         = "sqlite"
	maxAttempts        = 5
	defaultProject     = "default"
	defaultBusyTimeout = 2 * time.Second
	// tsLayout is fixed width so ts_utc sorts chronologically as text.
	tsLayout = "2006-01-02T15:04:05.000000000Z"
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string, busyTimeout time.Duration) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}
	if busyTimeout <= 0 {
		busyTimeout = defaultBusyTimeout
	}

	// busy_timeout + WAL reduce lock conflicts when watch mode and a CI scan
	// share one history file.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath, busyTimeout.Milliseconds())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func projectKey(project string) string {
	project = strings.TrimSpace(project)
	if project == "" {
		return defaultProject
	}
	return project
}

// SaveRun records run and its per-rule counts in one transaction. Missing
// ids, timestamps and schema versions are filled in.
func (s *Store) SaveRun(ctx context.Context, run Run) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run.Project = projectKey(run.Project)
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	if run.SchemaVersion == 0 {
		run.SchemaVersion = SchemaVersion
	}
	if run.SchemaVersion != SchemaVersion {
		return Run{}, fmt.Errorf("unsupported run schema version %d", run.SchemaVersion)
	}

	err := s.withRetry("save run", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO runs (
  run_id, project_key, schema_version, ts_utc, duration_ms, file_count, failed_file_count,
  hardcoded_count, extracted_count, dynamic_key_count, diagnostic_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
			run.ID,
			run.Project,
			run.SchemaVersion,
			run.Timestamp.UTC().Format(tsLayout),
			run.Duration.Milliseconds(),
			run.FileCount,
			run.FailedFileCount,
			run.HardcodedCount,
			run.ExtractedCount,
			run.DynamicKeyCount,
			run.DiagnosticCount,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
		for ruleID, count := range run.CountsByRule {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_rule_counts (run_id, rule_id, finding_count) VALUES (?, ?, ?)`,
				run.ID, ruleID, count,
			); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// LoadRuns returns the project's runs since the given time, oldest first.
// A positive limit keeps only the most recent runs.
func (s *Store) LoadRuns(ctx context.Context, project string, since time.Time, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT
  run_id, project_key, schema_version, ts_utc, duration_ms, file_count, failed_file_count,
  hardcoded_count, extracted_count, dynamic_key_count, diagnostic_count
FROM runs
WHERE project_key = ?`
	args := []any{projectKey(project)}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(tsLayout))
	}
	query += " ORDER BY ts_utc DESC, run_id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			tsRaw      string
			durationMS int64
			run        Run
		)
		if err := rows.Scan(
			&run.ID,
			&run.Project,
			&run.SchemaVersion,
			&tsRaw,
			&durationMS,
			&run.FileCount,
			&run.FailedFileCount,
			&run.HardcodedCount,
			&run.ExtractedCount,
			&run.DynamicKeyCount,
			&run.DiagnosticCount,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		ts, err := time.Parse(tsLayout, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		run.Timestamp = ts.UTC()
		run.Duration = time.Duration(durationMS) * time.Millisecond
		run.CountsByRule = map[string]int{}
		index[run.ID] = len(runs)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	rows.Close()

	if err := s.loadRuleCounts(ctx, projectKey(project), runs, index); err != nil {
		return nil, err
	}

	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}

func (s *Store) loadRuleCounts(ctx context.Context, project string, runs []Run, index map[string]int) error {
	if len(runs) == 0 {
		return nil
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT c.run_id, c.rule_id, c.finding_count
FROM run_rule_counts c
JOIN runs r ON r.run_id = c.run_id
WHERE r.project_key = ?`, project)
	if err != nil {
		return fmt.Errorf("load rule counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var runID, ruleID string
		var count int
		if err := rows.Scan(&runID, &ruleID, &count); err != nil {
			return fmt.Errorf("scan rule count row: %w", err)
		}
		if i, ok := index[runID]; ok {
			runs[i].CountsByRule[ruleID] = count
		}
	}
	return rows.Err()
}

// LatestRun returns the most recent run of the project, if any.
func (s *Store) LatestRun(ctx context.Context, project string) (Run, bool, error) {
	runs, err := s.LoadRuns(ctx, project, time.Time{}, 1)
	if err != nil || len(runs) == 0 {
		return Run{}, false, err
	}
	return runs[0], true, nil
}

// Prune deletes all but the newest keep runs of the project.
func (s *Store) Prune(ctx context.Context, project string, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	err := s.withRetry("prune runs", func() error {
		res, err := s.db.ExecContext(ctx, `
DELETE FROM runs
WHERE project_key = ?1 AND run_id NOT IN (
  SELECT run_id FROM runs WHERE project_key = ?1 ORDER BY ts_utc DESC, run_id DESC LIMIT ?2
)`, projectKey(project), keep)
		if err != nil {
			return err
		}
		deleted, err = res.RowsAffected()
		return err
	})
	return deleted, err
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
