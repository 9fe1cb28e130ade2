// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shelfwise/shelfwise/internal/config"
	"github.com/shelfwise/shelfwise/internal/metrics"
	"github.com/shelfwise/shelfwise/internal/middleware"
)

// healthRateLimit is a permissive per-IP limit for health probes so
// monitoring can poll frequently without tripping the API limit.
const healthRateLimit = 1000

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	handler *Handler
	cfg     config.APIConfig
}

// NewRouter creates a router around the given handler.
func NewRouter(handler *Handler, cfg config.APIConfig) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// Setup builds the full route tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.corsHandler())

	// Health probes get their own permissive rate limit.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(rt.rateLimit(healthRateLimit, time.Minute))
		r.Use(securityHeaders)
		r.Get("/live", rt.handler.HealthLive)
		r.Get("/ready", rt.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.rateLimit(rt.cfg.RateLimitReqs, rt.cfg.RateLimitWindow))
		r.Use(securityHeaders)
		r.Use(middleware.Prometheus)
		r.Use(middleware.Compression)

		r.Post("/search", rt.handler.Search)
		r.Get("/search", rt.handler.SearchGet)
		r.Get("/categories", rt.handler.Categories)
		r.Get("/tones", rt.handler.Tones)

		r.Route("/users/{username}", func(r chi.Router) {
			r.Post("/", rt.handler.GetOrCreateUser)
			r.Get("/stats", rt.handler.UserStats)
			r.Get("/history", rt.handler.UserHistory)
			r.Get("/favorites", rt.handler.UserFavorites)
			r.Put("/favorites/{isbn13}", rt.handler.AddFavorite)
			r.Delete("/favorites/{isbn13}", rt.handler.RemoveFavorite)
		})

		r.Get("/cache/stats", rt.handler.CacheStats)
		r.Post("/cache/clear", rt.handler.CacheClear)
		r.Get("/embeddings/status", rt.handler.EmbeddingsStatus)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// corsHandler builds the CORS middleware from config.
func (rt *Router) corsHandler() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         86400,
	})
}

// rateLimit returns a per-IP limiter, or a no-op when disabled.
// Rejections are counted in the rate limit metric and answered with the
// standard error envelope rather than httprate's plain-text default.
func (rt *Router) rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if rt.cfg.RateLimitDisabled || requests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			respondError(w, http.StatusTooManyRequests, ErrCodeRateLimit,
				"Rate limit exceeded, slow down", nil)
		}),
	)
}

// securityHeaders adds baseline security headers to API responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}
