package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandae-leads-api/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"DEBUG":    zerolog.DebugLevel,
		"":         zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"disabled": zerolog.Disabled,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewWriterRejectsUnknownOutput(t *testing.T) {
	var cfg config.Config
	cfg.Logging.Output = "carrier-pigeon"
	_, err := newWriter(cfg)
	assert.Error(t, err)
}

func TestHTTPLoggerRequestID(t *testing.T) {
	var sawLogger bool
	h := HTTPLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = log.Ctx(r.Context()) != nil
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.True(t, sawLogger)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}
