package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRecord(t *testing.T) {
	c := New()
	c.Record(http.StatusOK, 10*time.Millisecond)
	c.Record(http.StatusCreated, 10*time.Millisecond)
	c.Record(http.StatusTooManyRequests, time.Millisecond)
	c.Record(http.StatusInternalServerError, time.Millisecond)

	out := scrape(t, c)
	assert.Contains(t, out, `taxease_http_requests_total{status_class="2xx"} 2`)
	assert.Contains(t, out, `taxease_http_requests_total{status_class="4xx"} 1`)
	assert.Contains(t, out, `taxease_http_requests_total{status_class="5xx"} 1`)
	assert.Contains(t, out, "taxease_rate_limited_total 1")
	assert.Contains(t, out, "taxease_http_request_duration_seconds_count 4")
}

func TestObserveCalculation(t *testing.T) {
	c := New()
	c.ObserveCalculation("salaried", "rebate")
	c.ObserveCalculation("salaried", "rebate")
	c.ObserveCalculation("self-employed", "marginal_relief")

	out := scrape(t, c)
	assert.Contains(t, out, `taxease_calculations_total{employment_type="salaried",outcome="rebate"} 2`)
	assert.Contains(t, out, `taxease_calculations_total{employment_type="self-employed",outcome="marginal_relief"} 1`)
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveCalculation("salaried", "slab")
	assert.NotContains(t, scrape(t, b), `outcome="slab"`)
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(204))
	assert.Equal(t, "unknown", statusClass(0))
}
