package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	coreapp "i18nscan/internal/core/app"
	"i18nscan/internal/core/ports"
	"i18nscan/internal/data/history"
	"i18nscan/internal/engine/finding"
)

type watchOptions struct {
	ui           bool
	includeTests bool
	debounce     time.Duration
}

func newWatchCommand(g *globalOptions) *cobra.Command {
	opts := &watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Rescan changed files and keep reports current until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, g, opts, args)
		},
	}
	cmd.Flags().BoolVar(&opts.ui, "ui", false, "show the interactive terminal dashboard")
	cmd.Flags().BoolVar(&opts.includeTests, "include-tests", false, "scan test files too")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 0, "quiet period before a rescan")
	return cmd
}

func runWatch(cmd *cobra.Command, g *globalOptions, opts *watchOptions, args []string) error {
	cfg, err := loadConfig(cmd, g)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Scan.Paths = args
	}
	if opts.includeTests {
		cfg.Scan.IncludeTests = true
	}
	if opts.debounce > 0 {
		cfg.Watch.Debounce = opts.debounce
	}
	if err := validateOverrides(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	shutdown := startTracing(ctx, cfg)
	defer shutdown()

	app, err := initializeApp(cfg, g.factory)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	if opts.ui {
		// Log lines on the terminal would corrupt the dashboard.
		logPath := resolveLogPath(app.Paths.ProjectRoot)
		closeLog, err := redirectLogs(logPath, g.verbose)
		if err != nil {
			fmt.Fprintf(g.stderr, "warning: %v\n", err)
			setupLogging(io.Discard, false)
		} else {
			defer closeLog()
		}
	}

	result, err := app.AnalysisService().RunScan(ctx, ports.ScanRequest{})
	if err != nil {
		return &commandError{code: ExitError, err: err}
	}

	if addr := cfg.Observability.MetricsAddress; addr != "" {
		srv := NewObservabilityServer(addr, coreapp.NewHealthService(app))
		if err := srv.Start(ctx); err != nil {
			return &commandError{code: ExitError, err: err}
		}
		defer func() {
			stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = srv.Stop(stopCtx)
		}()
	}

	if cfg.Watch.ReloadConfigOnChange {
		if path, ok := existingFile(g.configPath); ok {
			w, err := app.WatchConfig(ctx, path)
			if err != nil {
				slog.Warn("config reload disabled", "path", path, "error", err)
			} else {
				defer w.Stop()
			}
		}
	}

	if err := app.StartWatcher(ctx); err != nil {
		return &commandError{code: ExitError, err: fmt.Errorf("start watcher: %w", err)}
	}

	initial := scanUpdate(result)
	if opts.ui {
		var trend *history.TrendReport
		if cfg.History.Enabled {
			report, err := app.CaptureHistoryTrend(ctx, time.Time{}, 0, 0)
			if err != nil {
				slog.Warn("failed to load run history", "error", err)
			} else {
				trend = &report
			}
		}
		return runUI(ctx, app, initial, trend)
	}

	printUpdate(g.stdout, initial)
	app.SetUpdateHandler(func(update coreapp.Update) {
		printUpdate(g.stdout, update)
	})
	<-ctx.Done()
	return nil
}

// scanUpdate presents a full scan the way watch updates are presented.
func scanUpdate(result ports.ScanResult) coreapp.Update {
	return coreapp.Update{
		FileCount:      result.Report.ScannedFiles(),
		HardcodedCount: result.Report.Count(finding.CategoryHardcoded),
		ExtractedCount: result.Report.Count(finding.CategoryExtracted),
		DynamicCount:   result.Report.DynamicCount(),
		Report:         result.Report,
		Duration:       result.Duration,
	}
}

func printUpdate(w io.Writer, u coreapp.Update) {
	fmt.Fprintf(w, "[%s] %d files, %d changed: %d hardcoded, %d dynamic keys, %d extracted (%s)\n",
		time.Now().Format("15:04:05"),
		u.FileCount, u.ChangedFiles,
		u.HardcodedCount, u.DynamicCount, u.ExtractedCount,
		u.Duration.Round(time.Millisecond),
	)
}

func existingFile(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	return abs, true
}

func resolveLogPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".i18nscan", "watch.log")
}

// redirectLogs points the default logger at path. Symlinked log paths are
// refused.
func redirectLogs(path string, verbose bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log dir for %s: %w", path, err)
	}
	if fi, err := os.Lstat(path); err == nil && fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("refusing to write logs to symlink path %s", path)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	setupLogging(f, verbose)
	return func() { _ = f.Close() }, nil
}
