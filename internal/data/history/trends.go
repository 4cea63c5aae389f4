package history

import (
	"fmt"
	"math"
	"time"
)

// BuildTrendReport computes per-run deltas against the previous run and a
// moving average of hardcoded strings over window. runs must be sorted by
// timestamp ascending, as LoadRuns returns them.
func BuildTrendReport(project string, runs []Run, window time.Duration) (TrendReport, error) {
	if len(runs) == 0 {
		return TrendReport{}, fmt.Errorf("no runs recorded for project %q", project)
	}

	points := make([]TrendPoint, 0, len(runs))
	for i, current := range runs {
		point := TrendPoint{
			RunID:           current.ID,
			Timestamp:       current.Timestamp,
			FileCount:       current.FileCount,
			HardcodedCount:  current.HardcodedCount,
			ExtractedCount:  current.ExtractedCount,
			DynamicKeyCount: current.DynamicKeyCount,
			DiagnosticCount: current.DiagnosticCount,
			Coverage:        coverage(current),
		}

		if i > 0 {
			prev := runs[i-1]
			point.DeltaFiles = current.FileCount - prev.FileCount
			point.DeltaHardcoded = current.HardcodedCount - prev.HardcodedCount
			point.DeltaExtracted = current.ExtractedCount - prev.ExtractedCount
			point.DeltaDynamicKeys = current.DynamicKeyCount - prev.DynamicKeyCount
		}

		point.AvgHardcoded = round2(movingAverage(runs, i, window))
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Project:       project,
		Since:         runs[0].Timestamp,
		Until:         runs[len(runs)-1].Timestamp,
		Window:        window.String(),
		RunCount:      len(points),
		Points:        points,
	}, nil
}

func coverage(run Run) float64 {
	total := run.HardcodedCount + run.ExtractedCount
	if total == 0 {
		return 0
	}
	return round2(float64(run.ExtractedCount) / float64(total) * 100)
}

func movingAverage(runs []Run, index int, window time.Duration) float64 {
	if window <= 0 {
		return float64(runs[index].HardcodedCount)
	}

	cutoff := runs[index].Timestamp.Add(-window)
	total, count := 0, 0
	for i := index; i >= 0; i-- {
		if runs[i].Timestamp.Before(cutoff) {
			break
		}
		total += runs[i].HardcodedCount
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
