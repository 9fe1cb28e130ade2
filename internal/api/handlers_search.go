// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/shelfwise/shelfwise/internal/logging"
	"github.com/shelfwise/shelfwise/internal/models"
	"github.com/shelfwise/shelfwise/internal/recommend"
)

// maxSearchBodyBytes bounds the search request body.
const maxSearchBodyBytes = 64 * 1024

// SearchRequest is the POST /search body. Username is optional; when
// present the search is recorded in that user's history.
type SearchRequest struct {
	recommend.Request
	Username string `json:"username" validate:"omitempty,min=1,max=64"`
}

// SearchResponse is the data payload for search results.
type SearchResponse struct {
	Results  []models.Recommendation `json:"results"`
	Count    int                     `json:"count"`
	Query    string                  `json:"query"`
	Category string                  `json:"category"`
	Tone     string                  `json:"tone"`
}

// Search handles POST /api/v1/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxSearchBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid JSON body", err)
		return
	}
	h.runSearch(w, r, req)
}

// SearchGet handles GET /api/v1/search with query parameters:
// q, category, tone, limit, username.
func (h *Handler) SearchGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := SearchRequest{
		Request: recommend.Request{
			Query:     q.Get("q"),
			Category:  q.Get("category"),
			Tone:      q.Get("tone"),
			FinalTopK: getIntParam(r, "limit", 0),
		},
		Username: q.Get("username"),
	}
	h.runSearch(w, r, req)
}

func (h *Handler) runSearch(w http.ResponseWriter, r *http.Request, req SearchRequest) {
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error:    apiErr,
		})
		return
	}

	start := time.Now()
	results, cached, err := h.engine.Search(r.Context(), req.Request)
	if err != nil {
		status, code, message := searchErrorStatus(err)
		respondError(w, status, code, message, err)
		return
	}

	// History is best effort; a failed write never fails the search.
	if req.Username != "" {
		h.recordSearch(r, req, len(results))
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: SearchResponse{
			Results:  results,
			Count:    len(results),
			Query:    req.Query,
			Category: req.Category,
			Tone:     req.Tone,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	})
}

func (h *Handler) recordSearch(r *http.Request, req SearchRequest, resultCount int) {
	ctx := r.Context()
	user, err := h.users.GetOrCreateUser(ctx, req.Username)
	if err != nil {
		logging.Warn().Err(err).Str("username", sanitizeLogValue(req.Username)).
			Msg("Failed to resolve user for history")
		return
	}
	if _, err := h.users.SaveSearch(ctx, user.ID, req.Query, req.Category, req.Tone, resultCount); err != nil {
		logging.Warn().Err(err).Int64("user_id", user.ID).Msg("Failed to save search history")
	}
}

// Categories handles GET /api/v1/categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"categories": h.engine.Categories(),
	})
}

// Tones handles GET /api/v1/tones.
func (h *Handler) Tones(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"tones": h.engine.Tones(),
	})
}
