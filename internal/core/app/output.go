package app

import (
	"fmt"
	"log/slog"
	"strings"

	"i18nscan/internal/engine/finding"
	"i18nscan/internal/shared/util"
	"i18nscan/internal/ui/report/formats"
)

// Render formats report as text, json, sarif or tsv.
func (a *App) Render(report finding.Report, format string) ([]byte, error) {
	eng := a.currentEngine()
	root := a.Paths.ProjectRoot

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		gen := formats.NewTextGenerator(formats.TextOptions{ProjectRoot: root})
		return []byte(gen.Generate(report)), nil
	case "json":
		return formats.GenerateJSON(root, report)
	case "sarif":
		return formats.GenerateSARIF(root, report, eng.registry.Rules())
	case "tsv":
		out, err := formats.NewTSVGenerator(root).Generate(report)
		return []byte(out), err
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// GenerateOutputs writes the configured report and catalog files and returns
// the paths written. Without an output path nothing is written for the report.
func (a *App) GenerateOutputs(report finding.Report) ([]string, error) {
	cfg := a.currentEngine().cfg
	var written []string

	if a.Paths.OutputPath != "" {
		data, err := a.Render(report, cfg.Output.Format)
		if err != nil {
			return written, fmt.Errorf("generate %s output: %w", cfg.Output.Format, err)
		}
		if err := util.WriteFileWithDirs(a.Paths.OutputPath, data, 0o644); err != nil {
			return written, fmt.Errorf("write output %q: %w", a.Paths.OutputPath, err)
		}
		written = append(written, a.Paths.OutputPath)
	}

	if a.Paths.CatalogPath != "" {
		data, err := formats.GenerateCatalog(a.Paths.ProjectRoot, report, cfg.Output.CatalogFormat)
		if err != nil {
			return written, fmt.Errorf("generate catalog: %w", err)
		}
		if err := util.WriteFileWithDirs(a.Paths.CatalogPath, data, 0o644); err != nil {
			return written, fmt.Errorf("write catalog %q: %w", a.Paths.CatalogPath, err)
		}
		written = append(written, a.Paths.CatalogPath)
	}

	for _, path := range written {
		slog.Debug("wrote output", "path", path)
	}
	return written, nil
}
