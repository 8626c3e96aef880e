package observability_test

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/internal/observability"
)

func TestMetrics_HTTPAndSales(t *testing.T) {
	m := observability.NewMetrics()

	m.ObserveHTTP("POST", "/api/sales", 201, 15*time.Millisecond)
	m.ObserveHTTP("POST", "/api/sales", 201, 5*time.Millisecond)
	m.ObserveHTTP("POST", "/api/sales", 409, 5*time.Millisecond)
	m.SaleCreated(decimal.RequireFromString("24.50"))
	m.SaleCreated(decimal.RequireFromString("10.00"))
	m.SaleCancelled()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `pdv_http_requests_total{method="POST",route="/api/sales",status="201"} 2`)
	assert.Contains(t, body, `pdv_http_requests_total{method="POST",route="/api/sales",status="409"} 1`)
	assert.Contains(t, body, "pdv_sales_created_total 2")
	assert.Contains(t, body, "pdv_sales_cancelled_total 1")
	assert.Contains(t, body, "pdv_sales_amount_total 34.5")
}

func TestMetrics_JobTracker(t *testing.T) {
	m := observability.NewMetrics()

	assert.NoError(t, m.TrackJob("receivables:mark_overdue").End(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, m.TrackJob("receivables:mark_overdue").End(boom), boom)

	n, err := testutil.GatherAndCount(m.Registry(), "pdv_job_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "una serie por status")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *observability.Metrics
	m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	m.SaleCreated(decimal.NewFromInt(1))
	m.SaleCancelled()
	assert.NoError(t, m.TrackJob("x").End(nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 503, rec.Code)
}
