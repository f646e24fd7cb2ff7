package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandae-leads-api/internal/auth"
	"brandae-leads-api/internal/config"
	"brandae-leads-api/internal/lead"
	"brandae-leads-api/internal/webhook"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.DBPath = ":memory:"
	cfg.AdminKey = "admin"
	return cfg
}

func do(t *testing.T, srv *httptest.Server, method, path, body string, admin bool) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set(auth.AdminKeyHeader, "admin")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestServerEndToEnd(t *testing.T) {
	var (
		mu       sync.Mutex
		payloads []webhook.Payload
	)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		var p webhook.Payload
		_ = json.Unmarshal(b, &p)
		mu.Lock()
		payloads = append(payloads, p)
		mu.Unlock()
	}))
	defer hook.Close()

	a, err := newApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	srv := httptest.NewServer(a.handler)
	defer a.Close()
	defer srv.Close()

	resp := do(t, srv, http.MethodPost, "/api/webhooks", `{"name":"CRM","url":"`+hook.URL+`"}`, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/leads/demo",
		`{"name":"Jane Doe","email":"jane@example.com","phone":"+15551234567","business":"Acme"}`, false)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	mu.Lock()
	require.Len(t, payloads, 1, "sync mode settles the round before responding")
	assert.Equal(t, "demo_request", payloads[0].Type)
	assert.Equal(t, "brandae_demo_form", payloads[0].Source)
	assert.Equal(t, "CRM", payloads[0].WebhookName)
	mu.Unlock()

	resp = do(t, srv, http.MethodPost, "/api/leads/contact", `{"name":"Jane"}`, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/submissions", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var subs []lead.SubmissionDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&subs))
	require.Len(t, subs, 1)
	assert.Equal(t, lead.KindDemo, subs[0].Kind)
	assert.Equal(t, "Acme", subs[0].Business)

	resp = do(t, srv, http.MethodGet, "/api/health", "", false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMigrateCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nested", "leads.db")
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("db_path: "+dbPath+"\nlogging:\n  level: error\n"), 0o600))

	configPath = cfgFile
	t.Cleanup(func() { configPath = "" })

	require.NoError(t, runMigrate(migrateCmd, nil))
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	// Idempotent
	require.NoError(t, runMigrate(migrateCmd, nil))
}

func TestPreflightPassesThroughLogger(t *testing.T) {
	a, err := newApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	srv := httptest.NewServer(a.handler)
	defer a.Close()
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/leads/contact", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://brandae.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestNewAppRejectsBadTrustedProxy(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.TrustedProxies = []string{"not-a-cidr/99"}
	_, err := newApp(context.Background(), cfg)
	assert.Error(t, err)
}
