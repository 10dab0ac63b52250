package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Order metrics
	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spot_dashboard_orders_total",
			Help: "Total number of order requests by outcome",
		},
		[]string{"symbol", "side", "result"},
	)

	orderQuantity = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spot_dashboard_order_quantity",
			Help:    "Distribution of submitted order quantities",
			Buckets: prometheus.ExponentialBuckets(0.001, 10, 9),
		},
		[]string{"symbol"},
	)

	precisionRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spot_dashboard_precision_retries_total",
			Help: "Orders resubmitted after a too-many-decimals rejection",
		},
		[]string{"symbol"},
	)

	// Market data metrics
	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spot_dashboard_current_price",
			Help: "Last price of trading symbol",
		},
		[]string{"symbol"},
	)

	// Aggregator metrics
	historyRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spot_dashboard_history_refresh_total",
			Help: "Trade history refresh cycles by outcome",
		},
		[]string{"result"},
	)

	tradeHistorySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "spot_dashboard_trade_history_size",
			Help: "Number of trade records currently published",
		},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spot_dashboard_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(ordersTotal)
	prometheus.MustRegister(orderQuantity)
	prometheus.MustRegister(precisionRetriesTotal)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(historyRefreshTotal)
	prometheus.MustRegister(tradeHistorySize)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct {
	handler http.Handler
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{handler: promhttp.Handler()}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// RecordOrder records the outcome of one order request; quantity is observed on success only
func RecordOrder(symbol, side, result string, quantity float64) {
	ordersTotal.WithLabelValues(symbol, side, result).Inc()
	if result == "succeeded" {
		orderQuantity.WithLabelValues(symbol).Observe(quantity)
	}
}

// RecordPrecisionRetry counts a resubmission at reduced precision
func RecordPrecisionRetry(symbol string) {
	precisionRetriesTotal.WithLabelValues(symbol).Inc()
}

// UpdatePrice updates the current price metric
func UpdatePrice(symbol string, price float64) {
	currentPrice.WithLabelValues(symbol).Set(price)
}

// RecordHistoryRefresh counts one aggregator cycle and publishes the collection size
func RecordHistoryRefresh(ok bool, size int) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	historyRefreshTotal.WithLabelValues(result).Inc()
	tradeHistorySize.Set(float64(size))
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}
