// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package api

import (
	"net/http"
	"time"

	"github.com/shelfwise/shelfwise/internal/cache"
	"github.com/shelfwise/shelfwise/internal/logging"
	"github.com/shelfwise/shelfwise/internal/models"
)

// HealthLive handles GET /api/v1/health/live. Returns 200 whenever the
// process is up, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /api/v1/health/ready. Ready means the
// user-data store answers pings; search itself is served from in-memory
// state once startup completes.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.users != nil && h.users.Ping(r.Context()) == nil
	ready := dbConnected

	status := http.StatusOK
	respStatus := "success"
	if !ready {
		status = http.StatusServiceUnavailable
		respStatus = "error"
	}

	respondJSON(w, status, &models.APIResponse{
		Status: respStatus,
		Data: map[string]interface{}{
			"ready":              ready,
			"database_connected": dbConnected,
			"uptime":             time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"query":  h.engine.CacheStats(),
		"engine": h.engine.Stats(),
	}
	if h.embedCache != nil {
		data["embedding"] = h.embedCache.CacheStats()
	} else {
		data["embedding"] = cache.StatsSnapshot{}
	}
	respondSuccess(w, http.StatusOK, data)
}

// CacheClear handles POST /api/v1/cache/clear. Only the query result
// cache is dropped; cached embeddings stay valid until the model
// changes.
func (h *Handler) CacheClear(w http.ResponseWriter, r *http.Request) {
	h.engine.ClearCache()
	logging.Info().Str("request_id", logging.RequestIDFromContext(r.Context())).Msg("Query cache cleared via API")
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"cleared": true,
	})
}

// EmbeddingStatusResponse is the data payload for the embeddings status
// endpoint.
type EmbeddingStatusResponse struct {
	Model        string      `json:"model"`
	BreakerState string      `json:"breaker_state"`
	Budgets      interface{} `json:"budgets"`
}

// EmbeddingsStatus handles GET /api/v1/embeddings/status.
func (h *Handler) EmbeddingsStatus(w http.ResponseWriter, r *http.Request) {
	if h.embedder == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable,
			"Embedding client is not configured", nil)
		return
	}

	respondSuccess(w, http.StatusOK, EmbeddingStatusResponse{
		Model:        h.embedder.Name(),
		BreakerState: h.embedder.BreakerState(),
		Budgets:      h.embedder.RateLimitStatus(),
	})
}
