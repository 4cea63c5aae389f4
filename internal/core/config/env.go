package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: I18NSCAN_[SECTION]_[KEY] (e.g., I18NSCAN_OUTPUT_FORMAT).
func ApplyEnvOverrides(cfg *Config) {
	// Scan
	setEnvString(&cfg.Scan.ProjectRoot, "I18NSCAN_SCAN_PROJECT_ROOT")
	setEnvList(&cfg.Scan.Paths, "I18NSCAN_SCAN_PATHS")
	setEnvInt(&cfg.Scan.Workers, "I18NSCAN_SCAN_WORKERS")
	setEnvBool(&cfg.Scan.IncludeTests, "I18NSCAN_SCAN_INCLUDE_TESTS")

	// Rules
	setEnvList(&cfg.Rules.Enabled, "I18NSCAN_RULES_ENABLED")
	setEnvList(&cfg.Rules.Disabled, "I18NSCAN_RULES_DISABLED")

	// Output
	setEnvString(&cfg.Output.Format, "I18NSCAN_OUTPUT_FORMAT")
	setEnvString(&cfg.Output.Path, "I18NSCAN_OUTPUT_PATH")
	setEnvString(&cfg.Output.Catalog, "I18NSCAN_OUTPUT_CATALOG")

	// History
	setEnvBool(&cfg.History.Enabled, "I18NSCAN_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "I18NSCAN_HISTORY_PATH")
	setEnvString(&cfg.History.Project, "I18NSCAN_HISTORY_PROJECT")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "I18NSCAN_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxRescansPerSecond, "I18NSCAN_WATCH_MAX_RESCANS_PER_SECOND")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddress, "I18NSCAN_OBSERVABILITY_METRICS_ADDRESS")
	setEnvString(&cfg.Observability.OTLPEndpoint, "I18NSCAN_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.EnableTracing, "I18NSCAN_OBSERVABILITY_ENABLE_TRACING")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

// setEnvList splits a comma-separated value.
func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = normalizeList(strings.Split(val, ","))
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
