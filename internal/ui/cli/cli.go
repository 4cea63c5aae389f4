// Package cli wires the i18nscan command tree onto the core app.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"i18nscan/internal/core/config"
)

const (
	ExitOK       = 0
	ExitFindings = 1
	ExitError    = 2
)

// commandError carries an exit code out of a command. A nil err exits
// silently with code.
type commandError struct {
	code int
	err  error
}

func (e *commandError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *commandError) Unwrap() error {
	return e.err
}

type globalOptions struct {
	configPath string
	verbose    bool

	stdout  io.Writer
	stderr  io.Writer
	factory appFactory
}

// Run executes the command tree with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var cmdErr *commandError
	if errors.As(err, &cmdErr) {
		if cmdErr.err != nil {
			fmt.Fprintf(stderr, "error: %v\n", cmdErr.err)
		}
		return cmdErr.code
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return ExitError
}

func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{
		stdout:  stdout,
		stderr:  stderr,
		factory: coreAppFactory{},
	}

	root := &cobra.Command{
		Use:           "i18nscan [command]",
		Short:         "Find hardcoded UI strings and extract translation keys in JS/TS sources.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(opts.stderr, opts.verbose)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultFileName, "path to the config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newScanCommand(opts),
		newWatchCommand(opts),
		newRulesCommand(opts),
		newHistoryCommand(opts),
		newVersionCommand(opts),
	)
	return root
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadConfig reads the config named by --config. The default file is
// optional; a path given explicitly must exist.
func loadConfig(cmd *cobra.Command, opts *globalOptions) (*config.Config, error) {
	required := cmd.Flags().Changed("config")
	cfg, err := config.LoadOrDefault(opts.configPath, required)
	if err != nil {
		return nil, &commandError{code: ExitError, err: fmt.Errorf("load config: %w", err)}
	}
	return cfg, nil
}

// validateOverrides re-checks cfg after flags were applied on top of it.
func validateOverrides(cfg *config.Config) error {
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Output.CatalogFormat = strings.ToLower(strings.TrimSpace(cfg.Output.CatalogFormat))
	if err := config.Validate(cfg); err != nil {
		return &commandError{code: ExitError, err: err}
	}
	return nil
}
