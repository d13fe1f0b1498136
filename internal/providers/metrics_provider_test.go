package providers

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"msd/internal/structures"
)

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/rank", 200)
	m.ObserveRequestDuration("/rank", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncMessagesRecorded()
	m.IncPushDeliveries(true)
	m.IncPushCycles(false)
	m.ObservePersistenceDuration(time.Millisecond)
	m.RegisterGroupsGauge(func() float64 { return 0 })
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)

	// These should not panic
	m.IncRequestsTotal("/rank", 200)
	m.IncRequestsTotal("/rank", 404)
	m.ObserveRequestDuration("/rank", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncMessagesRecorded()
	m.IncPushDeliveries(true)
	m.IncPushDeliveries(false)
	m.IncPushCycles(true)
	m.ObservePersistenceDuration(100 * time.Millisecond)
	m.RegisterGroupsGauge(func() float64 { return 3 })
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "success", resultLabel(true))
	assert.Equal(t, "failure", resultLabel(false))
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
