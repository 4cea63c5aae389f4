package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "i18nscan_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "i18nscan_run_seconds",
		Help:    "Wall time of a full analysis run (discovery, parse, scan, aggregate).",
		Buckets: prometheus.DefBuckets,
	})

	FilesScannedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "i18nscan_files_scanned_total",
		Help: "Files handed to the rule engine, by outcome.",
	}, []string{"status"})

	FindingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "i18nscan_findings_total",
		Help: "Findings emitted by the rule engine.",
	}, []string{"rule", "category"})

	RuleCrashesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "i18nscan_rule_crashes_total",
		Help: "Rule invocations isolated by the dispatcher after a crash.",
	}, []string{"rule"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "i18nscan_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RescansThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "i18nscan_rescans_throttled_total",
		Help: "Watch-mode rescans delayed by the rescan rate limiter.",
	})

	WorkerPoolRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "i18nscan_worker_pool_running",
		Help: "Workers currently executing file scans.",
	})
)
