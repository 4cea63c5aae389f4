package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"i18nscan/internal/core/config"
	"i18nscan/internal/core/ports"
	"i18nscan/internal/core/watcher"
	"i18nscan/internal/data/history"
	"i18nscan/internal/engine/finding"
	"i18nscan/internal/engine/parser"
	"i18nscan/internal/engine/rules"
	"i18nscan/internal/engine/scan"
	"i18nscan/internal/shared/util"
	"i18nscan/internal/shared/worker"
)

type Update = ports.WatchUpdate

// engine is the compiled rule set of one config generation. It is swapped as
// a whole when the config is reloaded in watch mode.
type engine struct {
	cfg      *config.Config
	registry *rules.Registry
	settings *rules.Settings
	scanner  *scan.Scanner
}

type App struct {
	// Config is the startup config. Reloads replace the engine-facing
	// sections only, see ApplyConfig.
	Config *config.Config
	Paths  config.ResolvedPaths

	codeParser ports.CodeParser
	pool       *worker.Pool
	history    ports.HistoryStore

	engineMu sync.RWMutex
	engine   engine

	updateMu sync.RWMutex
	onUpdate func(Update)

	// Last report per file, reused for unchanged files in watch mode.
	reportMu sync.RWMutex
	reports  map[string]finding.FileReport

	watchMu       sync.Mutex
	activeWatcher *watcher.Watcher
	rescanLimiter *util.Limiter
}

// New builds an app for cfg with paths anchored at cwd. The history store
// is opened only when history is enabled.
func New(cfg *config.Config, cwd string) (*App, error) {
	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		return nil, err
	}

	loader, err := parser.NewGrammarLoader(nil)
	if err != nil {
		return nil, err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := worker.New("scan", cfg.Scan.Workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	a := &App{
		Config:     cfg,
		Paths:      paths,
		codeParser: parser.NewParser(loader),
		pool:       pool,
		engine:     eng,
		reports:    make(map[string]finding.FileReport),
	}

	if cfg.History.Enabled {
		store, err := history.Open(paths.HistoryPath, cfg.History.BusyTimeout)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("open history store: %w", err)
		}
		a.history = store
	}
	return a, nil
}

func buildEngine(cfg *config.Config) (engine, error) {
	registry, err := rules.Builtin().Select(cfg.Rules.Enabled, cfg.Rules.Disabled)
	if err != nil {
		return engine{}, err
	}
	settings, err := rules.NewSettings(cfg.ToOptions())
	if err != nil {
		return engine{}, err
	}
	return engine{
		cfg:      cfg,
		registry: registry,
		settings: settings,
		scanner:  scan.NewScanner(registry, settings),
	}, nil
}

func (a *App) currentEngine() engine {
	a.engineMu.RLock()
	defer a.engineMu.RUnlock()
	return a.engine
}

// Rules lists the rules active for the current config.
func (a *App) Rules() []rules.Rule {
	return a.currentEngine().registry.Rules()
}

// ApplyConfig swaps in a reloaded config. Paths, workers and history stay as
// they were at startup; rule, detection and heuristic changes apply to the
// next rescan and invalidate every cached report.
func (a *App) ApplyConfig(cfg *config.Config) error {
	next := *a.Config
	next.Rules = cfg.Rules
	next.Detection = cfg.Detection
	next.Extraction = cfg.Extraction
	next.Heuristic = cfg.Heuristic
	next.Scan.Ignore = cfg.Scan.Ignore
	next.Scan.IncludeTests = cfg.Scan.IncludeTests
	next.Scan.MaxFileBytes = cfg.Scan.MaxFileBytes
	next.Output = cfg.Output

	eng, err := buildEngine(&next)
	if err != nil {
		return err
	}

	a.engineMu.Lock()
	a.engine = eng
	a.engineMu.Unlock()

	a.reportMu.Lock()
	a.reports = make(map[string]finding.FileReport)
	a.reportMu.Unlock()

	slog.Info("configuration applied", "rules", eng.registry.Len())
	return nil
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) emitUpdate(update Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}

// Close stops the watcher, drains the worker pool and closes the history
// store.
func (a *App) Close(ctx context.Context) error {
	a.StopWatcher()
	a.pool.Close()
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			return fmt.Errorf("close history store: %w", err)
		}
	}
	return nil
}
