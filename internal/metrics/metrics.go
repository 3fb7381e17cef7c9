package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "clinic_dashboard"

func registerer(reg prometheus.Registerer) prometheus.Registerer {
	if reg == nil {
		return prometheus.DefaultRegisterer
	}
	return reg
}

// UpstreamMetrics tracks calls made to the clinic API.
type UpstreamMetrics struct {
	requestsTotal *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	m := &UpstreamMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total requests sent to the clinic API",
		}, []string{"op", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency of clinic API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	registerer(reg).MustRegister(m.requestsTotal, m.latency)
	return m
}

// ObserveRequest records one call. status is 0 when the request never got
// a response.
func (m *UpstreamMetrics) ObserveRequest(op string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requestsTotal.WithLabelValues(op, label).Inc()
	m.latency.WithLabelValues(op).Observe(d.Seconds())
}

// ViewMetrics tracks calendar view recomputation.
type ViewMetrics struct {
	refreshTotal  *prometheus.CounterVec
	skippedTotal  prometheus.Counter
	eventsVisible *prometheus.HistogramVec
}

const (
	RefreshApplied = "applied"
	RefreshStale   = "stale"
	RefreshFailed  = "failed"
)

func NewViewMetrics(reg prometheus.Registerer) *ViewMetrics {
	m := &ViewMetrics{
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "refresh_total",
			Help:      "Calendar refreshes by outcome",
		}, []string{"mode", "result"}),
		skippedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "malformed_appointments_total",
			Help:      "Appointments left out of a view because their date_time did not parse",
		}),
		eventsVisible: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "events_rendered",
			Help:      "Events in each applied view",
			Buckets:   []float64{0, 5, 10, 25, 50, 100, 250, 500},
		}, []string{"mode"}),
	}
	registerer(reg).MustRegister(m.refreshTotal, m.skippedTotal, m.eventsVisible)
	return m
}

func (m *ViewMetrics) ObserveRefresh(mode, result string) {
	if m == nil {
		return
	}
	m.refreshTotal.WithLabelValues(mode, result).Inc()
}

func (m *ViewMetrics) ObserveApplied(mode string, events, skipped int) {
	if m == nil {
		return
	}
	m.refreshTotal.WithLabelValues(mode, RefreshApplied).Inc()
	m.eventsVisible.WithLabelValues(mode).Observe(float64(events))
	if skipped > 0 {
		m.skippedTotal.Add(float64(skipped))
	}
}

// HTTPMetrics tracks requests served by the dashboard.
type HTTPMetrics struct {
	requestsTotal *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	registerer(reg).MustRegister(m.requestsTotal, m.latency)
	return m
}

func (m *HTTPMetrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(d.Seconds())
}
