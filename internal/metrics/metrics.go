package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Item operation results.
const (
	ResultOK       = "ok"
	ResultConflict = "conflict"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Metrics records HTTP traffic and repository outcomes. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	itemOps  *prometheus.CounterVec
}

// New registers the service metrics on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockroom",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stockroom",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	itemOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockroom",
		Name:      "item_operations_total",
		Help:      "Item repository operations by outcome.",
	}, []string{"op", "result"})
	reg.MustRegister(requests, duration, itemOps)
	return &Metrics{
		requests: requests,
		duration: duration,
		itemOps:  itemOps,
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncItemOperation counts one repository call.
func (m *Metrics) IncItemOperation(op, result string) {
	if m == nil || m.itemOps == nil {
		return
	}
	m.itemOps.WithLabelValues(op, result).Inc()
}
