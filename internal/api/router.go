package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"brandae-leads-api/internal/api/handlers"
	"brandae-leads-api/internal/metrics"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Leads       *handlers.LeadHandler
	Submissions *handlers.SubmissionHandler
	Webhooks    *handlers.WebhookHandler
	Health      *handlers.HealthHandler
	// Limiter throttles the public lead endpoints; nil disables it.
	Limiter *IPRateLimiter
}

// NewRouter wires HTTP routes to handlers.
func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()
	route := func(pattern string, handler http.Handler) {
		mux.Handle(pattern, metrics.Instrument(pattern, handler))
	}

	route("/api/health", h.Health)
	route("/api/leads/contact", h.Limiter.Middleware(h.Leads.Contact))
	route("/api/leads/demo", h.Limiter.Middleware(h.Leads.Demo))
	route("/api/submissions", h.Submissions)
	route("/api/webhooks", h.Webhooks)
	route("/api/webhooks/", h.Webhooks)

	mux.Handle("/metrics", metrics.Handler())

	// Swagger UI at /swagger/index.html
	mux.HandleFunc("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}
