package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"i18nscan/internal/engine/matcher"
	"i18nscan/internal/engine/rules"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Parse decodes TOML text, then applies env overrides, defaults,
// normalization and validation in that order.
func Parse(data string) (*Config, error) {
	var cfg Config
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	ApplyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to DefaultConfig when path is empty
// or names a missing file. An explicitly named missing file is still an
// error when required is set.
func LoadOrDefault(path string, required bool) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultFileName
	}
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !required && stderrors.Is(err, fs.ErrNotExist) {
		cfg := DefaultConfig()
		ApplyEnvOverrides(cfg)
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return nil, err
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if len(cfg.Scan.Paths) == 0 {
		cfg.Scan.Paths = []string{"."}
	}
	if len(cfg.Scan.Ignore) == 0 {
		cfg.Scan.Ignore = []string{
			"**/node_modules/**", "**/dist/**", "**/build/**", "**/.next/**",
			"**/coverage/**", "**/*.d.ts", "**/*.min.js",
		}
	}
	if cfg.Scan.Workers <= 0 {
		cfg.Scan.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Scan.MaxFileBytes <= 0 {
		cfg.Scan.MaxFileBytes = DefaultMaxFileBytes
	}

	if cfg.Extraction.MinDictionaryEntries <= 0 {
		cfg.Extraction.MinDictionaryEntries = rules.DefaultMinDictionaryEntries
	}

	defaults := matcher.DefaultPolicyConfig()
	if cfg.Heuristic.MinLength <= 0 {
		cfg.Heuristic.MinLength = defaults.MinLength
	}
	if cfg.Heuristic.MinWords <= 0 {
		cfg.Heuristic.MinWords = defaults.MinWords
	}
	if cfg.Heuristic.AllowSingleWord == nil {
		enabled := defaults.AllowSingleWord
		cfg.Heuristic.AllowSingleWord = &enabled
	}

	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "text"
	}
	if strings.TrimSpace(cfg.Output.CatalogFormat) == "" {
		cfg.Output.CatalogFormat = "yaml"
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.History.Keep <= 0 {
		cfg.History.Keep = DefaultHistoryKeep
	}
	if cfg.History.BusyTimeout <= 0 {
		cfg.History.BusyTimeout = 5 * time.Second
	}

	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
	if cfg.Watch.MaxRescansPerSecond <= 0 {
		cfg.Watch.MaxRescansPerSecond = DefaultRescansPerSec
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = DefaultServiceName
	}
}

func normalize(cfg *Config) {
	cfg.Scan.ProjectRoot = strings.TrimSpace(cfg.Scan.ProjectRoot)
	cfg.Scan.Paths = normalizeList(cfg.Scan.Paths)
	cfg.Scan.Ignore = normalizeList(cfg.Scan.Ignore)

	cfg.Rules.Enabled = normalizeList(cfg.Rules.Enabled)
	cfg.Rules.Disabled = normalizeList(cfg.Rules.Disabled)

	cfg.Detection.Attributes = normalizeList(cfg.Detection.Attributes)
	cfg.Detection.IgnoreElements = normalizeList(cfg.Detection.IgnoreElements)
	cfg.Detection.UIFeedbackFunctions = normalizeList(cfg.Detection.UIFeedbackFunctions)

	cfg.Extraction.TranslationFunctions = normalizeList(cfg.Extraction.TranslationFunctions)
	cfg.Extraction.LocaleCodes = normalizeList(cfg.Extraction.LocaleCodes)

	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Output.CatalogFormat = strings.ToLower(strings.TrimSpace(cfg.Output.CatalogFormat))
	cfg.Output.Path = strings.TrimSpace(cfg.Output.Path)
	cfg.Output.Catalog = strings.TrimSpace(cfg.Output.Catalog)

	cfg.History.Path = strings.TrimSpace(cfg.History.Path)
	cfg.History.Project = strings.TrimSpace(cfg.History.Project)

	cfg.Observability.MetricsAddress = strings.TrimSpace(cfg.Observability.MetricsAddress)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)
	cfg.Observability.ServiceName = strings.TrimSpace(cfg.Observability.ServiceName)
}

// normalizeList trims entries, drops blanks and duplicates, keeping order.
func normalizeList(values []string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
