package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes Prometheus collectors for the console.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrorsTotal     *prometheus.CounterVec
	gatewayCallsTotal   *prometheus.CounterVec
	gatewayCallDuration *prometheus.HistogramVec
	forcedLogoutsTotal  prometheus.Counter
}

// NewMetrics registers and returns the console metric collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_http_requests_total",
				Help: "Total HTTP requests handled by the console",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "console_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		httpErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_http_errors_total",
				Help: "Total HTTP requests answered with an error envelope",
			},
			[]string{"method", "path", "code"},
		),
		gatewayCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_gateway_calls_total",
				Help: "Total RPC calls issued to the backend record store",
			},
			[]string{"action", "outcome"},
		),
		gatewayCallDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "console_gateway_call_duration_seconds",
				Help:    "Backend RPC call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		forcedLogoutsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "console_forced_logouts_total",
				Help: "Sessions terminated because the backend reported the credential expired or invalid",
			},
		),
	}
}

// RecordRequest observes one handled HTTP request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError counts one error envelope by domain code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.httpErrorsTotal.WithLabelValues(method, path, code).Inc()
}

// RecordGatewayCall observes one backend RPC call.
func (m *Metrics) RecordGatewayCall(action, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.gatewayCallsTotal.WithLabelValues(action, outcome).Inc()
	m.gatewayCallDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordForcedLogout counts one forced session termination.
func (m *Metrics) RecordForcedLogout() {
	if m == nil {
		return
	}
	m.forcedLogoutsTotal.Inc()
}
