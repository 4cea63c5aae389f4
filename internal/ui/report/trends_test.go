package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"i18nscan/internal/data/history"
)

func sampleTrend() history.TrendReport {
	return history.TrendReport{
		SchemaVersion: 1,
		Project:       "web",
		Since:         time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
		Until:         time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC),
		Window:        "24h0m0s",
		RunCount:      1,
		Points: []history.TrendPoint{
			{
				RunID:           "run-1",
				Timestamp:       time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC),
				FileCount:       15,
				HardcodedCount:  4,
				ExtractedCount:  12,
				DynamicKeyCount: 1,
				DeltaHardcoded:  -2,
				Coverage:        75,
				AvgHardcoded:    5,
				WindowHours:     24,
			},
		},
	}
}

func TestRenderTrendTSV(t *testing.T) {
	out, err := RenderTrendTSV(sampleTrend())
	if err != nil {
		t.Fatalf("render tsv: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "Timestamp\tRun\tFiles\tHardcoded") {
		t.Fatalf("expected tsv header, got %q", text)
	}
	if !strings.Contains(text, "2026-02-13T00:00:00Z\trun-1\t15\t4\t12\t1\t0\t0\t-2\t0\t0\t75.00\t5.00\t24.00") {
		t.Fatalf("expected tsv row, got %q", text)
	}
}

func TestRenderTrendJSON(t *testing.T) {
	out, err := RenderTrendJSON(sampleTrend())
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	var decoded history.TrendReport
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.Project != "web" || len(decoded.Points) != 1 || decoded.Points[0].Coverage != 75 {
		t.Fatalf("unexpected decoded report %+v", decoded)
	}
}

func TestRenderTrendText(t *testing.T) {
	out := RenderTrendText(sampleTrend())
	if !strings.Contains(out, "project web: 1 runs") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "hardcoded 4 (-2)") || !strings.Contains(out, "coverage 75.0%") {
		t.Errorf("missing point line:\n%s", out)
	}

	empty := RenderTrendText(history.TrendReport{Project: "web"})
	if !strings.Contains(empty, "no runs recorded") {
		t.Errorf("expected empty marker:\n%s", empty)
	}
}
