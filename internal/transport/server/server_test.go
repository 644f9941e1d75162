package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"diderot/internal/report"
	"diderot/internal/transport/handler"
)

func testRouter(opts Options) http.Handler {
	store := report.NewMemoryStore()
	cache := report.NewCache(store, 0)
	svc := report.NewService(cache, nil)
	return NewRouter(handler.NewReport(svc, cache, store), opts)
}

func TestRouterHealth(t *testing.T) {
	router := testRouter(Options{})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "success")
}

func TestRouterReportMissingIs404(t *testing.T) {
	router := testRouter(Options{})

	req := httptest.NewRequest("GET", "/api/v1/report?date=2026-08-23", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterGenerateRequiresAuth(t *testing.T) {
	router := testRouter(Options{AuthToken: "secret"})

	req := httptest.NewRequest("POST", "/api/v1/report/generate", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterReadsStayOpenWithAuthConfigured(t *testing.T) {
	router := testRouter(Options{AuthToken: "secret"})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterServesMetrics(t *testing.T) {
	router := testRouter(Options{})

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterSetsCORSHeaders(t *testing.T) {
	router := testRouter(Options{})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterRateLimitKicksIn(t *testing.T) {
	router := testRouter(Options{RateLimitRPS: 1, RateLimitBurst: 1})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/api/v1/health", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	require.Equal(t, http.StatusOK, statuses[0])
	require.Contains(t, statuses[1:], http.StatusTooManyRequests)
}
