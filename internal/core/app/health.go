package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	// Check rule engine
	eng := s.app.currentEngine()
	if eng.registry == nil || eng.registry.Len() == 0 {
		status.Status = "degraded"
		status.Components["rules"] = "no rules enabled"
	} else {
		status.Components["rules"] = fmt.Sprintf("ok (%d rules)", eng.registry.Len())
	}

	// Check parser
	if s.app.codeParser != nil {
		status.Components["parser"] = "ok"
	} else {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	}

	// Check history store
	if s.app.history != nil {
		status.Components["history"] = "ok"
	} else if s.app.Config.History.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	// Check watcher
	s.app.watchMu.Lock()
	watching := s.app.activeWatcher != nil
	s.app.watchMu.Unlock()
	if watching {
		status.Components["watcher"] = "ok"
	}

	s.app.reportMu.RLock()
	status.Components["cache"] = fmt.Sprintf("%d files", len(s.app.reports))
	s.app.reportMu.RUnlock()

	return status
}
