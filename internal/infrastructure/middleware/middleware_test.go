// internal/infrastructure/middleware/middleware_test.go
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/damon-houk/finance-tracker/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoRequestID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetRequestID(r.Context())))
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := RequestIDMiddleware(echoRequestID())

	t.Run("Generates an ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/read.php", nil))

		requestID := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, requestID)
		assert.Equal(t, requestID, w.Body.String())
	})

	t.Run("Keeps the client's ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/read.php", nil)
		req.Header.Set(RequestIDHeader, "client-id-123")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "client-id-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "client-id-123", w.Body.String())
	})
}

func TestGetRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), requestIDKey, "test-id-123")
	assert.Equal(t, "test-id-123", GetRequestID(ctx))
	assert.Equal(t, "unknown", GetRequestID(context.Background()))
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewJSONLogger(&buf, logger.InfoLevel)

	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"success":false}`))
	})
	chain := RequestIDMiddleware(LoggingMiddleware(log)(failing))

	req := httptest.NewRequest("GET", "/stats.php", nil)
	req.Header.Set(RequestIDHeader, "test-id-123")
	chain.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var received, sent map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &received))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &sent))

	assert.Equal(t, "Request received", received["message"])
	assert.Equal(t, "test-id-123", received["request_id"])
	assert.Equal(t, "ERROR", sent["level"])
	assert.Equal(t, float64(http.StatusServiceUnavailable), sent["status"])
	assert.Equal(t, float64(len(`{"success":false}`)), sent["bytes_written"])
}

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewJSONLogger(&buf, logger.InfoLevel)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	chain := RequestIDMiddleware(RecoveryMiddleware(log)(panicking))

	req := httptest.NewRequest("POST", "/create.php", nil)
	req.Header.Set(RequestIDHeader, "panic-id")
	w := httptest.NewRecorder()

	assert.NotPanics(t, func() { chain.ServeHTTP(w, req) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, w.Body.String())
	assert.Contains(t, buf.String(), "panic-id")
	assert.Contains(t, buf.String(), "boom")
}
