package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreapp "i18nscan/internal/core/app"
	"i18nscan/internal/core/config"
)

func TestObservabilityServer_Handler(t *testing.T) {
	root := newProject(t)
	cfg := config.DefaultConfig()
	cfg.Scan.Paths = []string{root}

	app, err := coreapp.New(cfg, root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	handler := NewObservabilityServer("127.0.0.1:0", coreapp.NewHealthService(app)).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status coreapp.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "up", status.Status)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "i18nscan_worker_pool_running")
}

func TestObservabilityServer_StopWithoutStart(t *testing.T) {
	srv := NewObservabilityServer("127.0.0.1:0", nil)
	assert.NoError(t, srv.Stop(context.Background()))
}
