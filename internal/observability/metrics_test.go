package observability

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	metrics := NewMetrics()
	require.NotNil(t, metrics)

	assert.NotNil(t, metrics.RequestCount)
	assert.NotNil(t, metrics.RequestDuration)
	assert.NotNil(t, metrics.RequestSize)
	assert.NotNil(t, metrics.ResponseSize)
	assert.NotNil(t, metrics.InFlight)
	assert.NotNil(t, metrics.HealthStatus)
	assert.NotNil(t, metrics.Registry())
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	// a shared default registry would panic on duplicate registration
	first := NewMetrics()
	second := NewMetrics()
	first.RecordRequest("GET", "/health", 200, time.Millisecond, 0, 10)

	assert.Equal(t, 1.0, testutil.ToFloat64(first.RequestCount.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.RequestCount.WithLabelValues("GET", "/health", "200")))
}

func TestMetrics_RecordRequest(t *testing.T) {
	metrics := NewMetrics()

	metrics.RecordRequest("GET", "/api/hello", 200, 100*time.Millisecond, 0, 64)
	metrics.RecordRequest("GET", "/api/hello", 200, 50*time.Millisecond, 0, 64)
	metrics.RecordRequest("GET", "unmatched", 404, time.Millisecond, 0, 128)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RequestCount.WithLabelValues("GET", "/api/hello", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestCount.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_SetHealthStatus(t *testing.T) {
	metrics := NewMetrics()

	metrics.SetHealthStatus(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HealthStatus))

	metrics.SetHealthStatus(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.HealthStatus))
}

func TestMetrics_Handler(t *testing.T) {
	metrics := NewMetrics()
	metrics.RecordRequest("GET", "/health", 200, time.Millisecond, 0, 0)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "http_requests_total"), "expected request counter in output")
	assert.Contains(t, body, "go_goroutines")
}

func TestMetrics_ConcurrentAccess(t *testing.T) {
	metrics := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				metrics.RecordRequest("GET", "/endpoint-"+strconv.Itoa(id), 200, 10*time.Millisecond, int64(j*100), int64(j*200))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100.0, testutil.ToFloat64(metrics.RequestCount.WithLabelValues("GET", "/endpoint-3", "200")))
}
