package monitoring

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/bybit-spot-dashboard/internal/safety"
)

func TestHealthChecker_Status(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	h := NewHealthChecker(time.Minute)
	h.now = func() time.Time { return now }

	assert.Equal(t, "degraded", h.Status().Status, "not connected yet")

	h.MarkRefreshed()
	h.UpdatePrice("ETHUSDT", 2500)
	status := h.Status()
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, 2500.0, status.LastPrices["ETHUSDT"])

	now = now.Add(2 * time.Minute)
	assert.Equal(t, "degraded", h.Status().Status, "history refresh is stale")

	h.AddError("boom")
	assert.Equal(t, "unhealthy", h.Status().Status)

	h.MarkRefreshed()
	assert.Equal(t, "healthy", h.Status().Status)
}

func TestHealthChecker_AddErrorKeepsRecent(t *testing.T) {
	h := NewHealthChecker(0)
	for i := 0; i < maxRecentErrors+5; i++ {
		h.AddError(fmt.Sprintf("err-%d", i))
	}
	errs := h.Status().Errors
	require.Len(t, errs, maxRecentErrors)
	assert.Equal(t, "err-5", errs[0])
}

func TestHealthChecker_ServeHTTP(t *testing.T) {
	h := NewHealthChecker(0)
	h.SetConnected(true)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)

	h.SetConnected(false)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthChecker_RateLimits(t *testing.T) {
	h := NewHealthChecker(0)
	h.SetConnected(true)
	assert.Empty(t, h.Status().RateLimits)

	limiter := safety.NewRateLimiter("bybit", 3, 3)
	require.True(t, limiter.Allow())
	h.WatchRateLimiter(limiter.GetStats)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.RateLimits, 1)
	assert.Equal(t, "bybit", body.RateLimits[0].Name)
	assert.Equal(t, 3, body.RateLimits[0].Capacity)
	assert.Equal(t, 3, body.RateLimits[0].RefillRate)
	assert.LessOrEqual(t, body.RateLimits[0].Tokens, 3)
}

func TestMetrics_Recorders(t *testing.T) {
	before := testutil.ToFloat64(errorsTotal.WithLabelValues("rate_limit"))
	RecordError("rate_limit")
	assert.Equal(t, before+1, testutil.ToFloat64(errorsTotal.WithLabelValues("rate_limit")))

	before = testutil.ToFloat64(precisionRetriesTotal.WithLabelValues("TESTUSDT"))
	RecordPrecisionRetry("TESTUSDT")
	assert.Equal(t, before+1, testutil.ToFloat64(precisionRetriesTotal.WithLabelValues("TESTUSDT")))

	UpdatePrice("TESTUSDT", 1.25)
	assert.Equal(t, 1.25, testutil.ToFloat64(currentPrice.WithLabelValues("TESTUSDT")))

	RecordHistoryRefresh(true, 7)
	assert.Equal(t, 7.0, testutil.ToFloat64(tradeHistorySize))

	RecordOrder("TESTUSDT", "Sell", "failed", 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(ordersTotal.WithLabelValues("TESTUSDT", "Sell", "failed")))

	rec := httptest.NewRecorder()
	NewMetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "spot_dashboard_current_price")
}
