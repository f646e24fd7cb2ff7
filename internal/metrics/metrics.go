package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, route, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "route", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route", "status"},
	)

	// LeadSubmissions counts submit attempts by kind and outcome (persisted, invalid, failed).
	LeadSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lead_submissions_total", Help: "Lead submissions by kind and outcome."},
		[]string{"kind", "status"},
	)

	// WebhookDeliveries counts webhook delivery outcomes by event type and status.
	WebhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "webhook_deliveries_total", Help: "Webhook deliveries by event type and status."},
		[]string{"event_type", "status"},
	)
	// WebhookLatency tracks webhook delivery latencies in milliseconds.
	WebhookLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "webhook_delivery_latency_ms", Help: "Webhook delivery latency in ms.", Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000}},
		[]string{"event_type", "status"},
	)
)

var regOnce sync.Once

// Register adds all collectors to Registry. Safe to call more than once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(LeadSubmissions)
		Registry.MustRegister(WebhookDeliveries)
		Registry.MustRegister(WebhookLatency)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves the Registry in the Prometheus exposition format.
func Handler() http.Handler {
	Register()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Instrument records request count and latency under a fixed route label,
// so path parameters never reach the label set.
func Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		status := strconv.Itoa(rec.status)
		HTTPRequests.WithLabelValues(r.Method, route, status).Inc()
		HTTPDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
	})
}
