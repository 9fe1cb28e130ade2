// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

/*
Package api exposes the recommendation service over HTTP.

Routing uses Chi with go-chi/cors for CORS and go-chi/httprate for
per-IP rate limiting. All endpoints live under /api/v1 and return the
models.APIResponse envelope; Prometheus metrics are served at /metrics.

Endpoints:

	POST   /api/v1/search                                semantic search
	GET    /api/v1/search                                search via query params
	GET    /api/v1/categories                            category facet values
	GET    /api/v1/tones                                 tone facet values
	POST   /api/v1/users/{username}                      get-or-create user
	GET    /api/v1/users/{username}/stats                activity counters
	GET    /api/v1/users/{username}/history              search history
	GET    /api/v1/users/{username}/favorites            saved books
	PUT    /api/v1/users/{username}/favorites/{isbn13}   save a book
	DELETE /api/v1/users/{username}/favorites/{isbn13}   unsave a book
	GET    /api/v1/cache/stats                           cache counters
	POST   /api/v1/cache/clear                           drop cached results
	GET    /api/v1/embeddings/status                     budgets and breaker
	GET    /api/v1/health/live                           liveness probe
	GET    /api/v1/health/ready                          readiness probe
*/
package api
