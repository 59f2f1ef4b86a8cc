package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gatebot/internal/gate"
	"gatebot/internal/metrics"
	"gatebot/internal/service"
	"gatebot/internal/testutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	registry := gate.NewRegistry()
	router := NewRouter(registry, prometheus.NewRegistry())

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		return rec
	}

	rec := get()
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "gate not installed")

	oracle := service.NewOracle(testutil.NewTestLogger())
	registry.Set(oracle)
	rec = get()
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "gate unavailable")

	require.NoError(t, oracle.Load(context.Background()))
	rec = get()
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.IncrementDecision("command", "challenge")

	router := NewRouter(gate.NewRegistry(), reg)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `gatebot_gate_decisions_total{kind="command",verdict="challenge"} 1`)
}
