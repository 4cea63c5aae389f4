package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"i18nscan/internal/core/config"
	"i18nscan/internal/core/ports"
	"i18nscan/internal/engine/finding"
	"i18nscan/internal/engine/rules"
	"i18nscan/internal/shared/observability"
	"i18nscan/internal/shared/util"
	"i18nscan/internal/shared/version"
	"i18nscan/internal/ui/report"
)

const exampleScanUsage = `  # Scan the configured paths and print a text report
  i18nscan scan

  # Scan two directories and write SARIF for code scanning upload
  i18nscan scan --format sarif -o i18n.sarif src/ app/

  # Fail a CI job when hardcoded strings remain
  i18nscan scan --fail-on-findings`

type scanOptions struct {
	format         string
	output         string
	catalog        string
	catalogFormat  string
	failOnFindings bool
	history        bool
	includeTests   bool
	workers        int
}

func newScanCommand(g *globalOptions) *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:     "scan [paths...]",
		Short:   "Scan sources once and report hardcoded strings and translation keys",
		Example: exampleScanUsage,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, g, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "report format: text, json, sarif or tsv")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "write the extracted key catalog to a file")
	cmd.Flags().StringVar(&opts.catalogFormat, "catalog-format", "", "catalog format: yaml or json")
	cmd.Flags().BoolVar(&opts.failOnFindings, "fail-on-findings", false, "exit with status 1 when hardcoded strings are found")
	cmd.Flags().BoolVar(&opts.history, "history", false, "record this run in the history store")
	cmd.Flags().BoolVar(&opts.includeTests, "include-tests", false, "scan test files too")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "number of scan workers")
	return cmd
}

func (o *scanOptions) apply(cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.Scan.Paths = args
	}
	if o.format != "" {
		cfg.Output.Format = o.format
	}
	if o.output != "" {
		cfg.Output.Path = o.output
	}
	if o.catalog != "" {
		cfg.Output.Catalog = o.catalog
	}
	if o.catalogFormat != "" {
		cfg.Output.CatalogFormat = o.catalogFormat
	}
	if o.history {
		cfg.History.Enabled = true
	}
	if o.includeTests {
		cfg.Scan.IncludeTests = true
	}
	if o.workers > 0 {
		cfg.Scan.Workers = o.workers
	}
}

func runScan(cmd *cobra.Command, g *globalOptions, opts *scanOptions, args []string) error {
	cfg, err := loadConfig(cmd, g)
	if err != nil {
		return err
	}
	opts.apply(cfg, args)
	if err := validateOverrides(cfg); err != nil {
		return err
	}

	ctx := cmd.Context()
	shutdown := startTracing(ctx, cfg)
	defer shutdown()

	app, err := initializeApp(cfg, g.factory)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	result, err := app.AnalysisService().RunScan(ctx, ports.ScanRequest{})
	if err != nil {
		return &commandError{code: ExitError, err: err}
	}
	for _, warning := range result.Warnings {
		slog.Warn("scan warning", "detail", warning)
	}

	if app.Paths.OutputPath == "" {
		out, err := app.Render(result.Report, cfg.Output.Format)
		if err != nil {
			return &commandError{code: ExitError, err: err}
		}
		if _, err := g.stdout.Write(out); err != nil {
			return err
		}
	} else {
		slog.Info("report written", "path", app.Paths.OutputPath, "format", cfg.Output.Format)
	}
	if app.Paths.CatalogPath != "" {
		slog.Info("catalog written", "path", app.Paths.CatalogPath, "format", cfg.Output.CatalogFormat)
	}

	if hardcoded := result.Report.Count(finding.CategoryHardcoded); opts.failOnFindings && hardcoded > 0 {
		return &commandError{code: ExitFindings, err: fmt.Errorf("%d hardcoded strings found", hardcoded)}
	}
	return nil
}

// startTracing installs the OTLP exporter when tracing is enabled. A failed
// exporter is logged and scanning carries on untraced.
func startTracing(ctx context.Context, cfg *config.Config) func() {
	noop := func() {}
	if !cfg.Observability.EnableTracing {
		return noop
	}
	shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
		return noop
	}
	return func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}
}

type rulesOptions struct {
	format string
}

type ruleInfo struct {
	ID          string           `json:"id"`
	Category    finding.Category `json:"category"`
	Enabled     bool             `json:"enabled"`
	Description string           `json:"description"`
}

func newRulesCommand(g *globalOptions) *cobra.Command {
	opts := &rulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the built-in rules and whether the config enables them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			return runRules(g, opts, cfg)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text or json")
	return cmd
}

func runRules(g *globalOptions, opts *rulesOptions, cfg *config.Config) error {
	active, err := rules.Builtin().Select(cfg.Rules.Enabled, cfg.Rules.Disabled)
	if err != nil {
		return &commandError{code: ExitError, err: err}
	}

	var infos []ruleInfo
	for _, rule := range rules.Builtin().Rules() {
		_, enabled := active.Lookup(rule.ID)
		infos = append(infos, ruleInfo{
			ID:          rule.ID,
			Category:    rule.Category,
			Enabled:     enabled,
			Description: rule.Description,
		})
	}

	switch strings.ToLower(opts.format) {
	case "json":
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(g.stdout, string(data))
		return err
	case "", "text":
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("RULE", "CATEGORY", "ENABLED", "DESCRIPTION")
		for _, info := range infos {
			enabled := "no"
			if info.Enabled {
				enabled = "yes"
			}
			t.Row(info.ID, string(info.Category), enabled, info.Description)
		}
		_, err := fmt.Fprintln(g.stdout, t.Render())
		return err
	default:
		return &commandError{code: ExitError, err: fmt.Errorf("unsupported rules format %q", opts.format)}
	}
}

type historyOptions struct {
	since  time.Duration
	limit  int
	window time.Duration
	format string
	output string
}

func newHistoryCommand(g *globalOptions) *cobra.Command {
	opts := &historyOptions{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show finding trends across recorded scan runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, g, opts)
		},
	}
	cmd.Flags().DurationVar(&opts.since, "since", 0, "only include runs newer than this age, e.g. 720h")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "maximum number of runs to load")
	cmd.Flags().DurationVar(&opts.window, "window", 0, "moving-average window (default 168h)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, json or tsv")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the trend report to a file instead of stdout")
	return cmd
}

func runHistory(cmd *cobra.Command, g *globalOptions, opts *historyOptions) error {
	cfg, err := loadConfig(cmd, g)
	if err != nil {
		return err
	}
	cfg.History.Enabled = true
	if err := validateOverrides(cfg); err != nil {
		return err
	}

	app, err := initializeApp(cfg, g.factory)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	var since time.Time
	if opts.since > 0 {
		since = time.Now().Add(-opts.since)
	}
	trend, err := app.AnalysisService().CaptureHistoryTrend(cmd.Context(), ports.HistoryTrendRequest{
		Since:  since,
		Limit:  opts.limit,
		Window: opts.window,
	})
	if err != nil {
		return &commandError{code: ExitError, err: err}
	}

	var out []byte
	switch strings.ToLower(opts.format) {
	case "", "text":
		out = []byte(report.RenderTrendText(trend))
	case "json":
		out, err = report.RenderTrendJSON(trend)
	case "tsv":
		out, err = report.RenderTrendTSV(trend)
	default:
		err = fmt.Errorf("unsupported history format %q", opts.format)
	}
	if err != nil {
		return &commandError{code: ExitError, err: err}
	}

	if opts.output != "" {
		if err := util.WriteFileWithDirs(opts.output, out, 0o644); err != nil {
			return &commandError{code: ExitError, err: fmt.Errorf("write trend report: %w", err)}
		}
		slog.Info("trend report written", "path", opts.output, "runs", trend.RunCount)
		return nil
	}
	_, err = g.stdout.Write(out)
	return err
}

func newVersionCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(g.stdout, "i18nscan %s\n", version.Version)
		},
	}
}
