package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msd/internal/scheduler"
)

func TestHealth(t *testing.T) {
	svc := &mockStatsService{groupsList: []string{"123", "456"}}
	sched := &mockScheduler{status: scheduler.StatusInfo{Status: scheduler.StatusRunning}}
	hc := NewHealthController(svc, sched)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, float64(2), got["groups"])
	assert.Equal(t, "running", got["scheduler"])
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	hc := NewHealthController(&mockStatsService{}, &mockScheduler{})
	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
