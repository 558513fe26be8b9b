package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/pricedesk/internal/common"
)

func serveStatus(logger *common.Logger, status int) {
	handler := loggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestLoggingMiddleware_4xxUsesInfoLevel(t *testing.T) {
	// At WARN level an Info() event is filtered out.
	var buf bytes.Buffer
	serveStatus(common.NewLoggerWithOutput("warn", &buf), http.StatusNotFound)
	assert.NotContains(t, buf.String(), "HTTP request")

	buf.Reset()
	serveStatus(common.NewLoggerWithOutput("info", &buf), http.StatusBadRequest)
	assert.Contains(t, buf.String(), "HTTP request")
}

func TestLoggingMiddleware_5xxUsesErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	serveStatus(common.NewLoggerWithOutput("warn", &buf), http.StatusInternalServerError)
	assert.Contains(t, buf.String(), "HTTP request")
	assert.Contains(t, buf.String(), `"status":500`)
}

func TestLoggingMiddleware_2xxUsesTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	serveStatus(common.NewLoggerWithOutput("info", &buf), http.StatusOK)
	assert.NotContains(t, buf.String(), "HTTP request")
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	handler := corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/baselines", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "X-Correlation-ID")
}

func TestCorrelationIDMiddleware(t *testing.T) {
	handler := correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "req-42", rr.Header().Get("X-Correlation-ID"))

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Len(t, rr.Header().Get("X-Correlation-ID"), 8)
}

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := common.NewLoggerWithOutput("error", &buf)
	handler := recoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/snapshot", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.True(t, strings.Contains(buf.String(), "boom"))
}
