package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandae-leads-api/internal/api/handlers"
	"brandae-leads-api/internal/lead"
)

type okSubmitter struct{ calls int }

func (s *okSubmitter) Submit(ctx context.Context, kind lead.Kind, form lead.FormData) (lead.Result, error) {
	s.calls++
	return lead.Result{Submission: lead.Submission{ID: "id", Kind: kind}, State: lead.StateSettled}, nil
}

func TestCORSWildcard(t *testing.T) {
	h := CORSMiddleware([]string{"*"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/leads/contact", nil)
	req.Header.Set("Origin", "https://brandae.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowList(t *testing.T) {
	called := false
	h := CORSMiddleware([]string{"https://brandae.com"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/leads/demo", nil)
	req.Header.Set("Origin", "https://brandae.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://brandae.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called, "preflight never reaches the handler")

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, called)
}

func TestRateLimiterPerIP(t *testing.T) {
	l := NewIPRateLimiter(1, 2)
	require.NotNil(t, l)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"), "burst exhausted")
	assert.True(t, l.Allow("2.2.2.2"), "buckets are per client")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("1.1.1.1"), "refilled after one second")
}

func TestRateLimiterSweep(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("1.1.1.1")
	now = now.Add(time.Hour)
	l.Allow("2.2.2.2")
	l.Sweep(time.Minute)

	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "2.2.2.2")
}

func TestRateLimiterDisabled(t *testing.T) {
	l := NewIPRateLimiter(0, 5)
	assert.Nil(t, l)

	calls := 0
	h := l.Middleware(func(w http.ResponseWriter, r *http.Request) { calls++ })
	for range 10 {
		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	}
	assert.Equal(t, 10, calls)
}

func TestRateLimiterMiddleware(t *testing.T) {
	l := NewIPRateLimiter(0.001, 1)
	// httptest requests come from 192.0.2.1
	require.NoError(t, l.TrustProxies([]string{"192.0.2.1", "10.0.0.0/8"}))
	h := l.Middleware(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/api/leads/contact", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.5, 203.0.113.7, 10.0.0.1")

	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, l.clients, "203.0.113.7")
	assert.NotContains(t, l.clients, "198.51.100.5")
}

func TestRateLimiterIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	l := NewIPRateLimiter(0.001, 1)
	h := l.Middleware(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) })

	accepted := 0
	for i := range 50 {
		req := httptest.NewRequest(http.MethodPost, "/api/leads/contact", nil)
		req.RemoteAddr = "203.0.113.9:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		rec := httptest.NewRecorder()
		h(rec, req)
		if rec.Code == http.StatusCreated {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "203.0.113.9")
}

func TestRateLimiterClientIP(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	require.NoError(t, l.TrustProxies([]string{"10.0.0.0/8", "::1"}))

	cases := []struct {
		name, remote, xff, want string
	}{
		{"untrusted peer", "203.0.113.9:1", "1.2.3.4", "203.0.113.9"},
		{"trusted without header", "10.1.1.1:1", "", "10.1.1.1"},
		{"right-most untrusted hop", "10.1.1.1:1", "1.1.1.1, 2.2.2.2, 10.9.9.9", "2.2.2.2"},
		{"all hops trusted", "10.1.1.1:1", "10.2.2.2", "10.2.2.2"},
		{"garbage hop", "10.1.1.1:1", "1.1.1.1, not-an-ip", "10.1.1.1"},
		{"ipv6 proxy", "[::1]:1", "2001:db8::7", "2001:db8::7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			assert.Equal(t, tc.want, l.clientIP(req))
		})
	}
}

func TestTrustProxiesRejectsGarbage(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	assert.Error(t, l.TrustProxies([]string{"10.0.0.0/33"}))
	assert.Error(t, l.TrustProxies([]string{"proxy.internal"}))

	var disabled *IPRateLimiter
	assert.NoError(t, disabled.TrustProxies([]string{"10.0.0.1"}))
}

func TestRouter(t *testing.T) {
	sub := &okSubmitter{}
	router := NewRouter(Handlers{
		Leads:       &handlers.LeadHandler{Service: sub},
		Submissions: &handlers.SubmissionHandler{},
		Webhooks:    &handlers.WebhookHandler{},
		Health:      &handlers.HealthHandler{},
		Limiter:     NewIPRateLimiter(0.001, 1),
	})

	post := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		req.RemoteAddr = "198.51.100.1:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusCreated, post("/api/leads/contact"))
	assert.Equal(t, http.StatusTooManyRequests, post("/api/leads/demo"), "the limit is shared across lead forms")
	assert.Equal(t, 1, sub.calls)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/webhooks", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/api/health",status="200"}`)
}
