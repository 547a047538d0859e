package monitoring

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Service metrics
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec
	ServiceErrors   *prometheus.CounterVec

	// Filesystem metrics
	FSOperations *prometheus.CounterVec
	FSDuration   *prometheus.HistogramVec
	StoreBackend *prometheus.GaugeVec

	// Boot metrics
	AutoexecLaunches *prometheus.CounterVec

	registry  *prometheus.Registry
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests int64   `json:"total_requests"`
	TotalErrors   int64   `json:"total_errors"`
	FSOperations  int64   `json:"fs_operations"`
	FSErrors      int64   `json:"fs_errors"`
	TotalDuration float64 `json:"-"` // sum of all request durations
	RequestCount  int64   `json:"-"` // count for averaging
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// AvgLatency returns the mean HTTP request duration in seconds
func (s MetricsSnapshot) AvgLatency() float64 {
	if s.RequestCount == 0 {
		return 0
	}
	return s.TotalDuration / float64(s.RequestCount)
}

// NewMetrics creates a new metrics collector registered on reg. A nil reg
// gets a fresh registry carrying the Go runtime and process collectors.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nyxos_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nyxos_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nyxos_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nyxos_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Service metrics
		ServiceCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nyxos_service_calls_total",
				Help: "Total number of service tool executions",
			},
			[]string{"service", "status"},
		),
		ServiceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nyxos_service_duration_seconds",
				Help:    "Service tool execution duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
		ServiceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nyxos_service_errors_total",
				Help: "Total number of failed service tool executions",
			},
			[]string{"service"},
		),

		// Filesystem metrics
		FSOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nyxos_fs_operations_total",
				Help: "Total number of filesystem provider operations",
			},
			[]string{"op", "status"},
		),
		FSDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nyxos_fs_operation_duration_seconds",
				Help:    "Filesystem provider operation duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"op"},
		),
		StoreBackend: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nyxos_store_backend_info",
				Help: "Active node store backend (1 for the backend in use)",
			},
			[]string{"backend"},
		),

		AutoexecLaunches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nyxos_autoexec_launches_total",
				Help: "Applications launched from autoexec.ini",
			},
			[]string{"status"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "nyxos_uptime_seconds",
			Help: "Backend uptime in seconds",
		},
		m.uptime,
	)

	return m
}

func (m *Metrics) uptime() float64 {
	return time.Since(m.startTime).Seconds()
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordServiceCall records one tool execution through the service registry
func (m *Metrics) RecordServiceCall(serviceID string, duration time.Duration, failed bool) {
	status := "success"
	if failed {
		status = "error"
		m.ServiceErrors.WithLabelValues(serviceID).Inc()
	}
	m.ServiceCalls.WithLabelValues(serviceID, status).Inc()
	m.ServiceDuration.WithLabelValues(serviceID).Observe(duration.Seconds())
}

// RecordFSOperation records one filesystem provider operation
func (m *Metrics) RecordFSOperation(op string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.FSOperations.WithLabelValues(op, status).Inc()
	m.FSDuration.WithLabelValues(op).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.FSOperations++
	if err != nil {
		m.snapshot.FSErrors++
	}
	m.mu.Unlock()
}

// RecordAutoexecLaunch records one autoexec entry handed to the launcher
func (m *Metrics) RecordAutoexecLaunch(err error) {
	if err != nil {
		m.AutoexecLaunches.WithLabelValues("error").Inc()
		return
	}
	m.AutoexecLaunches.WithLabelValues("success").Inc()
}

// SetStoreBackend marks kind as the active store backend
func (m *Metrics) SetStoreBackend(kind string) {
	m.StoreBackend.Reset()
	m.StoreBackend.WithLabelValues(kind).Set(1)
}

// Snapshot returns the current JSON-friendly counters
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	s := m.snapshot
	m.mu.RUnlock()
	s.UptimeSeconds = m.uptime()
	return s
}

func statusLabel(code int) string {
	return strconv.Itoa(code)
}
