package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestUpstreamMetrics(t *testing.T) {
	m := NewUpstreamMetrics(prometheus.NewRegistry())
	m.ObserveRequest("list_appointments", 200, 20*time.Millisecond)
	m.ObserveRequest("list_appointments", 200, 30*time.Millisecond)
	m.ObserveRequest("list_appointments", 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("list_appointments", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("list_appointments", "error")))
}

func TestViewMetrics(t *testing.T) {
	m := NewViewMetrics(prometheus.NewRegistry())
	m.ObserveApplied("month", 12, 2)
	m.ObserveRefresh("month", RefreshStale)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshTotal.WithLabelValues("month", RefreshApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshTotal.WithLabelValues("month", RefreshStale)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.skippedTotal))
}

func TestHTTPMetrics(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry())
	m.ObserveRequest("GET", "/api/calendar", 200, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/calendar", "200")))
}

func TestMetricsNilSafe(t *testing.T) {
	var u *UpstreamMetrics
	u.ObserveRequest("op", 500, time.Second)

	var v *ViewMetrics
	v.ObserveApplied("day", 1, 1)
	v.ObserveRefresh("day", RefreshFailed)

	var h *HTTPMetrics
	h.ObserveRequest("GET", "/", 200, time.Second)
}
