package config

import (
	"time"

	"i18nscan/internal/engine/matcher"
	"i18nscan/internal/engine/rules"
)

const (
	DefaultFileName      = "i18nscan.toml"
	DefaultHistoryPath   = ".i18nscan/history.db"
	DefaultServiceName   = "i18nscan"
	DefaultMaxFileBytes  = 1 << 20
	DefaultHistoryKeep   = 200
	DefaultDebounce      = 300 * time.Millisecond
	DefaultRescansPerSec = 2.0
)

type Config struct {
	Version       int           `toml:"version"`
	Scan          Scan          `toml:"scan"`
	Rules         Rules         `toml:"rules"`
	Detection     Detection     `toml:"detection"`
	Extraction    Extraction    `toml:"extraction"`
	Heuristic     Heuristic     `toml:"heuristic"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Scan struct {
	ProjectRoot  string   `toml:"project_root"`
	Paths        []string `toml:"paths"`
	Ignore       []string `toml:"ignore"`
	Workers      int      `toml:"workers"`
	IncludeTests bool     `toml:"include_tests"`
	MaxFileBytes int64    `toml:"max_file_bytes"`
}

type Rules struct {
	Enabled  []string `toml:"enabled"`
	Disabled []string `toml:"disabled"`
}

type Detection struct {
	Attributes          []string `toml:"attributes"`
	IgnoreElements      []string `toml:"ignore_elements"`
	UIFeedbackFunctions []string `toml:"ui_feedback_functions"`
}

type Extraction struct {
	TranslationFunctions []string `toml:"translation_functions"`
	LocaleCodes          []string `toml:"locale_codes"`
	MinDictionaryEntries int      `toml:"min_dictionary_entries"`
}

type Heuristic struct {
	MinLength       int      `toml:"min_length"`
	MinWords        int      `toml:"min_words"`
	AllowSingleWord *bool    `toml:"allow_single_word"`
	Allow           []string `toml:"allow"`
	Deny            []string `toml:"deny"`
}

type Output struct {
	Format        string `toml:"format"`
	Path          string `toml:"path"`
	Catalog       string `toml:"catalog"`
	CatalogFormat string `toml:"catalog_format"`
}

type History struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	Project     string        `toml:"project"`
	Keep        int           `toml:"keep"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type Watch struct {
	Debounce             time.Duration `toml:"debounce"`
	MaxRescansPerSecond  float64       `toml:"max_rescans_per_second"`
	ReloadConfigOnChange bool          `toml:"reload_config_on_change"`
}

type Observability struct {
	MetricsAddress string `toml:"metrics_address"`
	OTLPEndpoint   string `toml:"otlp_endpoint"`
	ServiceName    string `toml:"service_name"`
	EnableTracing  bool   `toml:"enable_tracing"`
}

// DefaultConfig is the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	normalize(cfg)
	return cfg
}

// ToOptions maps the rule-facing sections onto engine options. Empty lists
// are passed through so the engine applies its own defaults.
func (c *Config) ToOptions() rules.Options {
	heuristic := matcher.PolicyConfig{
		MinLength:       c.Heuristic.MinLength,
		MinWords:        c.Heuristic.MinWords,
		AllowSingleWord: matcher.DefaultPolicyConfig().AllowSingleWord,
		Allow:           append([]string(nil), c.Heuristic.Allow...),
		Deny:            append([]string(nil), c.Heuristic.Deny...),
	}
	if c.Heuristic.AllowSingleWord != nil {
		heuristic.AllowSingleWord = *c.Heuristic.AllowSingleWord
	}
	return rules.Options{
		EnabledRules:         append([]string(nil), c.Rules.Enabled...),
		DisabledRules:        append([]string(nil), c.Rules.Disabled...),
		IgnorePatterns:       append([]string(nil), c.Scan.Ignore...),
		UIFeedbackFunctions:  append([]string(nil), c.Detection.UIFeedbackFunctions...),
		TranslationFunctions: append([]string(nil), c.Extraction.TranslationFunctions...),
		Attributes:           append([]string(nil), c.Detection.Attributes...),
		IgnoreElements:       append([]string(nil), c.Detection.IgnoreElements...),
		LocaleCodes:          append([]string(nil), c.Extraction.LocaleCodes...),
		MinDictionaryEntries: c.Extraction.MinDictionaryEntries,
		Heuristic:            heuristic,
	}
}
