package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wcar"

// Metrics holds all Prometheus metrics. Each instance owns its registry so
// several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Session metrics
	WindowsCaptured  prometheus.Gauge
	MonitorsCaptured prometheus.Gauge
	RestoreWarnings  prometheus.Counter
	RestoreErrors    prometheus.Counter
	CorruptSessions  prometheus.Counter
	HistoryEntries   prometheus.Gauge

	// Autosave metrics
	AutosaveFailures prometheus.Counter
	BreakerState     *prometheus.GaugeVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot
	mu       sync.RWMutex
}

// MetricsSnapshot holds current metric values for the JSON API
type MetricsSnapshot struct {
	Captures      int64     `json:"captures"`
	Restores      int64     `json:"restores"`
	LastWindows   int       `json:"lastWindows"`
	LastCaptureAt time.Time `json:"lastCaptureAt"`
	LastRestoreAt time.Time `json:"lastRestoreAt"`
	AutosaveFails int64     `json:"autosaveFailures"`
	TotalRequests int64     `json:"totalRequests"`
	TotalErrors   int64     `json:"totalErrors"`
	UptimeSeconds float64   `json:"uptimeSeconds"`
}

// NewMetrics creates a metrics collector with its own registry, including
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),

		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of session operations by outcome",
			},
			[]string{"operation", "status"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Session operation duration in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20, 40},
			},
			[]string{"operation"},
		),

		WindowsCaptured: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "windows_captured",
			Help:      "Windows recorded by the most recent capture",
		}),
		MonitorsCaptured: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monitors_captured",
			Help:      "Monitors recorded by the most recent capture",
		}),
		RestoreWarnings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restore_warnings_total",
			Help:      "Warnings reported by restores",
		}),
		RestoreErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restore_errors_total",
			Help:      "Errors reported by restores",
		}),
		CorruptSessions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corrupt_sessions_total",
			Help:      "Session files moved aside because they could not be parsed",
		}),
		HistoryEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_entries",
			Help:      "Archived snapshots kept on disk",
		}),

		AutosaveFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autosave_failures_total",
			Help:      "Autosave attempts that failed or were rejected by the breaker",
		}),
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "breaker_state",
				Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "uptime_seconds",
		Help:      "Process uptime in seconds",
	}, func() float64 { return time.Since(m.startTime).Seconds() })

	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordOperation records one session operation
func (m *Metrics) RecordOperation(operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, status).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCapture records the size of a captured snapshot
func (m *Metrics) RecordCapture(windows, monitors int) {
	if m == nil {
		return
	}
	m.WindowsCaptured.Set(float64(windows))
	m.MonitorsCaptured.Set(float64(monitors))

	m.mu.Lock()
	m.snapshot.Captures++
	m.snapshot.LastWindows = windows
	m.snapshot.LastCaptureAt = time.Now()
	m.mu.Unlock()
}

// RecordRestore records the outcome counts of a restore
func (m *Metrics) RecordRestore(warnings, errors int) {
	if m == nil {
		return
	}
	m.RestoreWarnings.Add(float64(warnings))
	m.RestoreErrors.Add(float64(errors))

	m.mu.Lock()
	m.snapshot.Restores++
	m.snapshot.LastRestoreAt = time.Now()
	m.mu.Unlock()
}

// IncCorruptSessions counts a quarantined session file
func (m *Metrics) IncCorruptSessions() {
	if m == nil {
		return
	}
	m.CorruptSessions.Inc()
}

// SetHistoryEntries sets the number of archived snapshots
func (m *Metrics) SetHistoryEntries(count int) {
	if m == nil {
		return
	}
	m.HistoryEntries.Set(float64(count))
}

// IncAutosaveFailures counts a failed autosave
func (m *Metrics) IncAutosaveFailures() {
	if m == nil {
		return
	}
	m.AutosaveFailures.Inc()

	m.mu.Lock()
	m.snapshot.AutosaveFails++
	m.mu.Unlock()
}

// SetBreakerState publishes a breaker state as its numeric code
func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}

// Snapshot returns the current values for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
