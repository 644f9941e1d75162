// Package server assembles the HTTP surface: routes, middleware and
// the Cloud Functions entry.
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"diderot/internal/logging"
	"diderot/internal/transport/handler"
	"diderot/internal/transport/middleware"
)

// Options tunes the router.
type Options struct {
	AuthToken string
	// Requests per second and burst for the per-IP limit. Zero
	// disables rate limiting, which the tests rely on.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires the digest API. Mutating routes sit behind bearer
// auth; reads are open.
func NewRouter(h *handler.Report, opts Options) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(corsMiddleware)
	api.Use(loggingMiddleware)
	if opts.RateLimitRPS > 0 {
		api.Use(middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).Middleware)
	}

	api.HandleFunc("/health", h.Health).Methods("GET")
	api.HandleFunc("/report", h.Get).Methods("GET")
	api.HandleFunc("/report/dates", h.Dates).Methods("GET")

	auth := middleware.Auth(opts.AuthToken)
	api.Handle("/report/generate", auth(http.HandlerFunc(h.Generate))).Methods("POST")

	return r
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(next http.Handler) http.Handler {
	log := logging.WithComponent("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.WithField("method", r.Method).
			WithField("path", r.URL.Path).
			WithField("status", wrapped.statusCode).
			WithField("duration", time.Since(start).String()).
			Info("request handled")
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
