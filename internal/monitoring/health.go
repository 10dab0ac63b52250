package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ducminhle1904/bybit-spot-dashboard/internal/safety"
)

const maxRecentErrors = 10

var startTime = time.Now()

type HealthChecker struct {
	mu          sync.RWMutex
	lastRefresh time.Time
	lastPrice   map[string]float64
	isConnected bool
	errors      []string
	staleAfter  time.Duration
	limiters    []func() safety.RateLimiterStats
	now         func() time.Time
}

type HealthStatus struct {
	Status      string             `json:"status"`
	Timestamp   time.Time          `json:"timestamp"`
	LastRefresh time.Time          `json:"last_history_refresh"`
	LastPrices  map[string]float64 `json:"last_prices,omitempty"`
	IsConnected bool               `json:"is_connected"`
	Uptime      string             `json:"uptime"`
	Errors      []string           `json:"errors,omitempty"`
	RateLimits  []RateLimitStatus  `json:"rate_limits,omitempty"`
}

// RateLimitStatus is the state of one outbound request limiter
type RateLimitStatus struct {
	Name       string `json:"name"`
	Capacity   int    `json:"capacity"`
	Tokens     int    `json:"tokens"`
	RefillRate int    `json:"refill_rate"`
}

// NewHealthChecker reports degraded once no history refresh happened within staleAfter.
func NewHealthChecker(staleAfter time.Duration) *HealthChecker {
	return &HealthChecker{
		lastPrice:  make(map[string]float64),
		errors:     make([]string, 0),
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// SetConnected records whether the last venue call succeeded
func (h *HealthChecker) SetConnected(connected bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.isConnected = connected
}

// UpdatePrice remembers the last price seen for symbol
func (h *HealthChecker) UpdatePrice(symbol string, price float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastPrice[symbol] = price
}

// MarkRefreshed records a successful history refresh and clears old errors
func (h *HealthChecker) MarkRefreshed() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastRefresh = h.now()
	h.isConnected = true
	h.errors = h.errors[:0]
}

// AddError keeps the most recent error messages
func (h *HealthChecker) AddError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
	if len(h.errors) > maxRecentErrors {
		h.errors = h.errors[len(h.errors)-maxRecentErrors:]
	}
}

// WatchRateLimiter adds a limiter whose state is reported with every status
func (h *HealthChecker) WatchRateLimiter(stats func() safety.RateLimiterStats) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.limiters = append(h.limiters, stats)
}

// Status returns the current health snapshot
func (h *HealthChecker) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	now := h.now()
	status := "healthy"
	if !h.isConnected || (h.staleAfter > 0 && now.Sub(h.lastRefresh) > h.staleAfter) {
		status = "degraded"
	}
	if len(h.errors) > 0 {
		status = "unhealthy"
	}

	prices := make(map[string]float64, len(h.lastPrice))
	for k, v := range h.lastPrice {
		prices[k] = v
	}
	errs := make([]string, len(h.errors))
	copy(errs, h.errors)

	var limits []RateLimitStatus
	for _, stats := range h.limiters {
		st := stats()
		limits = append(limits, RateLimitStatus{
			Name:       st.Name,
			Capacity:   st.Capacity,
			Tokens:     st.Tokens,
			RefillRate: st.RefillRate,
		})
	}

	return HealthStatus{
		Status:      status,
		Timestamp:   now,
		LastRefresh: h.lastRefresh,
		LastPrices:  prices,
		IsConnected: h.isConnected,
		Uptime:      time.Since(startTime).String(),
		Errors:      errs,
		RateLimits:  limits,
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Status()

	w.Header().Set("Content-Type", "application/json")
	switch health.Status {
	case "degraded":
		w.WriteHeader(http.StatusServiceUnavailable)
	case "unhealthy":
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(health)
}
