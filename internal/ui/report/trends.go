// Package report renders history views that sit beside the per-run formats.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"i18nscan/internal/data/history"
)

func RenderTrendTSV(report history.TrendReport) ([]byte, error) {
	var buf strings.Builder

	buf.WriteString("Timestamp\tRun\tFiles\tHardcoded\tExtracted\tDynamicKeys\tDiagnostics\tDeltaFiles\tDeltaHardcoded\tDeltaExtracted\tDeltaDynamicKeys\tCoveragePct\tAvgHardcoded\tWindowHours\n")
	for _, point := range report.Points {
		buf.WriteString(fmt.Sprintf(
			"%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
			point.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			point.RunID,
			point.FileCount,
			point.HardcodedCount,
			point.ExtractedCount,
			point.DynamicKeyCount,
			point.DiagnosticCount,
			point.DeltaFiles,
			point.DeltaHardcoded,
			point.DeltaExtracted,
			point.DeltaDynamicKeys,
			point.Coverage,
			point.AvgHardcoded,
			point.WindowHours,
		))
	}

	return []byte(buf.String()), nil
}

func RenderTrendJSON(report history.TrendReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// RenderTrendText prints one line per run with signed deltas, newest last.
func RenderTrendText(report history.TrendReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "project %s: %d runs", report.Project, report.RunCount)
	if report.Window != "" {
		fmt.Fprintf(&b, " (window %s)", report.Window)
	}
	b.WriteString("\n")
	if len(report.Points) == 0 {
		b.WriteString("  no runs recorded\n")
		return b.String()
	}
	for _, point := range report.Points {
		fmt.Fprintf(&b, "  %s  hardcoded %d (%+d)  extracted %d (%+d)  dynamic %d  coverage %.1f%%\n",
			point.Timestamp.Format("2006-01-02 15:04"),
			point.HardcodedCount, point.DeltaHardcoded,
			point.ExtractedCount, point.DeltaExtracted,
			point.DynamicKeyCount,
			point.Coverage,
		)
	}
	return b.String()
}
