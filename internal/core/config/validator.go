package config

import (
	"fmt"
	"strings"
	"time"

	"i18nscan/internal/engine/rules"
)

var (
	outputFormats  = []string{"text", "json", "sarif", "tsv"}
	catalogFormats = []string{"yaml", "json"}
)

// Validate checks a defaulted and normalized config. Engine-facing sections
// are compiled once through rules.NewSettings so glob, locale and regex
// errors surface at load time instead of on the first scan.
func Validate(cfg *Config) error {
	if err := validateVersion(cfg); err != nil {
		return err
	}
	if err := validateScan(cfg); err != nil {
		return err
	}
	if err := validateRules(cfg); err != nil {
		return err
	}
	if err := validateOutput(cfg); err != nil {
		return err
	}
	if err := validateHistory(cfg); err != nil {
		return err
	}
	if err := validateWatch(cfg); err != nil {
		return err
	}
	if _, err := rules.NewSettings(cfg.ToOptions()); err != nil {
		return fmt.Errorf("invalid rule settings: %w", err)
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateScan(cfg *Config) error {
	if len(cfg.Scan.Paths) == 0 {
		return fmt.Errorf("scan.paths must not be empty")
	}
	for i, p := range cfg.Scan.Paths {
		if hasWildcard(p) {
			return fmt.Errorf("scan.paths[%d] %q must be a directory or file, not a pattern; use scan.ignore to filter", i, p)
		}
	}
	if cfg.Scan.Workers < 1 || cfg.Scan.Workers > 256 {
		return fmt.Errorf("scan.workers must be between 1 and 256, got %d", cfg.Scan.Workers)
	}
	if cfg.Scan.MaxFileBytes < 1 {
		return fmt.Errorf("scan.max_file_bytes must be positive")
	}
	return nil
}

func validateRules(cfg *Config) error {
	registry := rules.Builtin()
	for _, group := range []struct {
		name string
		ids  []string
	}{
		{"rules.enabled", cfg.Rules.Enabled},
		{"rules.disabled", cfg.Rules.Disabled},
	} {
		for _, id := range group.ids {
			if _, ok := registry.Lookup(id); !ok {
				return fmt.Errorf("%s references unknown rule %q (known: %s)", group.name, id, strings.Join(registry.IDs(), ", "))
			}
		}
	}
	if len(cfg.Rules.Enabled) > 0 {
		disabled := make(map[string]bool, len(cfg.Rules.Disabled))
		for _, id := range cfg.Rules.Disabled {
			disabled[id] = true
		}
		remaining := 0
		for _, id := range cfg.Rules.Enabled {
			if !disabled[id] {
				remaining++
			}
		}
		if remaining == 0 {
			return fmt.Errorf("rules.disabled removes every rule listed in rules.enabled")
		}
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if !contains(outputFormats, cfg.Output.Format) {
		return fmt.Errorf("output.format must be one of: %s", strings.Join(outputFormats, ", "))
	}
	if !contains(catalogFormats, cfg.Output.CatalogFormat) {
		return fmt.Errorf("output.catalog_format must be one of: %s", strings.Join(catalogFormats, ", "))
	}
	if cfg.Output.Path != "" && cfg.Output.Path == cfg.Output.Catalog {
		return fmt.Errorf("output.path and output.catalog must not point to the same file")
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if !cfg.History.Enabled {
		return nil
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("history.path must not be empty when history is enabled")
	}
	if cfg.History.BusyTimeout < 100*time.Millisecond || cfg.History.BusyTimeout > time.Minute {
		return fmt.Errorf("history.busy_timeout must be between 100ms and 1m")
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 10*time.Millisecond || cfg.Watch.Debounce > time.Minute {
		return fmt.Errorf("watch.debounce must be between 10ms and 1m, got %s", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxRescansPerSecond > 100 {
		return fmt.Errorf("watch.max_rescans_per_second must be at most 100")
	}
	return nil
}

func hasWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]{}")
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
