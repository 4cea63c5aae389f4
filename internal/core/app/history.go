package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"i18nscan/internal/core/errors"
	"i18nscan/internal/data/history"
	"i18nscan/internal/engine/finding"
)

const defaultTrendWindow = 7 * 24 * time.Hour

func (a *App) recordRun(ctx context.Context, report finding.Report, started time.Time, duration time.Duration) (history.Run, error) {
	run, err := a.history.SaveRun(ctx, history.NewRun(a.Paths.Project, report, started, duration))
	if err != nil {
		return history.Run{}, err
	}
	if keep := a.Config.History.Keep; keep > 0 {
		pruned, err := a.history.Prune(ctx, a.Paths.Project, keep)
		if err != nil {
			slog.Warn("failed to prune run history", "project", a.Paths.Project, "error", err)
		} else if pruned > 0 {
			slog.Debug("pruned run history", "project", a.Paths.Project, "removed", pruned)
		}
	}
	return run, nil
}

// CaptureHistoryTrend loads recorded runs and computes deltas and moving
// averages across them.
func (a *App) CaptureHistoryTrend(ctx context.Context, since time.Time, limit int, window time.Duration) (history.TrendReport, error) {
	if a.history == nil {
		return history.TrendReport{}, errors.New(errors.CodeNotSupported, "run history is disabled; set history.enabled = true")
	}
	if window <= 0 {
		window = defaultTrendWindow
	}
	runs, err := a.history.LoadRuns(ctx, a.Paths.Project, since, limit)
	if err != nil {
		return history.TrendReport{}, fmt.Errorf("load run history: %w", err)
	}
	if len(runs) == 0 {
		return history.TrendReport{Project: a.Paths.Project, Window: window.String(), Points: []history.TrendPoint{}}, nil
	}
	return history.BuildTrendReport(a.Paths.Project, runs, window)
}
