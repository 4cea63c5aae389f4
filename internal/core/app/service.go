package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"i18nscan/internal/core/errors"
	"i18nscan/internal/core/ports"
	"i18nscan/internal/data/history"
	"i18nscan/internal/shared/observability"
)

type analysisService struct {
	app *App
}

var _ ports.AnalysisService = (*analysisService)(nil)

func NewAnalysisService(app *App) ports.AnalysisService {
	return &analysisService{app: app}
}

func (a *App) AnalysisService() ports.AnalysisService {
	return NewAnalysisService(a)
}

func (s *analysisService) RunScan(ctx context.Context, req ports.ScanRequest) (ports.ScanResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "analysisService.RunScan",
		trace.WithAttributes(attribute.Int("paths", len(req.Paths))))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return ports.ScanResult{}, err
	}
	if s.app == nil {
		return ports.ScanResult{}, fmt.Errorf("app is required")
	}
	result, err := s.app.RunScan(ctx, req)
	if err != nil {
		return result, errors.AddContext(err, errors.CtxOperation, "run_scan")
	}
	if _, err := s.app.GenerateOutputs(result.Report); err != nil {
		return result, errors.AddContext(err, errors.CtxOperation, "generate_outputs")
	}
	return result, nil
}

func (s *analysisService) CaptureHistoryTrend(ctx context.Context, req ports.HistoryTrendRequest) (history.TrendReport, error) {
	if err := ctx.Err(); err != nil {
		return history.TrendReport{}, err
	}
	if s.app == nil {
		return history.TrendReport{}, fmt.Errorf("app is required")
	}
	return s.app.CaptureHistoryTrend(ctx, req.Since, req.Limit, req.Window)
}

func (s *analysisService) Close(ctx context.Context) error {
	if s == nil || s.app == nil {
		return nil
	}
	return s.app.Close(ctx)
}
