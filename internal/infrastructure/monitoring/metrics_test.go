package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scrape returns the exposition text of m's registry.
func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func assertSample(t *testing.T, body, sample string) {
	t.Helper()
	for _, line := range strings.Split(body, "\n") {
		if line == sample {
			return
		}
	}
	t.Errorf("sample %q not found", sample)
}

func TestMetricsAreIndependent(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordCapture(3, 2)
	a.RecordCapture(5, 2)

	assertSample(t, scrape(t, a), "wcar_windows_captured 5")
	assertSample(t, scrape(t, b), "wcar_windows_captured 0")
	assert.Equal(t, int64(2), a.Snapshot().Captures)
	assert.Equal(t, 5, a.Snapshot().LastWindows)
}

func TestRecordRestore(t *testing.T) {
	m := NewMetrics()
	m.RecordRestore(2, 1)
	m.RecordRestore(1, 0)

	body := scrape(t, m)
	assertSample(t, body, "wcar_restore_warnings_total 3")
	assertSample(t, body, "wcar_restore_errors_total 1")
	assert.Equal(t, int64(2), m.Snapshot().Restores)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordCapture(1, 1)
		m.RecordRestore(1, 1)
		m.RecordOperation("save", "success", time.Second)
		m.IncCorruptSessions()
		m.IncAutosaveFailures()
		m.SetHistoryEntries(3)
		m.SetBreakerState("autosave", 2)
		NewTimer(m, "save").StopErr(errors.New("disk full"))
	})
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
}

func TestTimer(t *testing.T) {
	m := NewMetrics()

	NewTimer(m, "save").StopErr(nil)
	NewTimer(m, "save").StopErr(errors.New("disk full"))
	NewTimer(m, "restore").Stop("degraded")

	body := scrape(t, m)
	assertSample(t, body, `wcar_operations_total{operation="save",status="success"} 1`)
	assertSample(t, body, `wcar_operations_total{operation="save",status="error"} 1`)
	assertSample(t, body, `wcar_operations_total{operation="restore",status="degraded"} 1`)
	assertSample(t, body, `wcar_operation_duration_seconds_count{operation="save"} 2`)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/api/v1/session", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/v1/session", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	body := scrape(t, m)
	assertSample(t, body, `wcar_http_requests_total{method="GET",path="/api/v1/session",status="200"} 1`)
	assertSample(t, body, `wcar_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
	assert.Contains(t, body, "wcar_uptime_seconds")
	assert.Contains(t, body, "go_goroutines")
	assert.Equal(t, int64(1), m.Snapshot().TotalErrors)
	assert.Equal(t, int64(2), m.Snapshot().TotalRequests)
}

func TestBreakerStateGauge(t *testing.T) {
	m := NewMetrics()
	m.SetBreakerState("autosave", 2)
	assertSample(t, scrape(t, m), `wcar_breaker_state{name="autosave"} 2`)
}
