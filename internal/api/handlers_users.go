// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/shelfwise/shelfwise/internal/models"
)

// userParams carries the validated URL parameters for user routes.
type userParams struct {
	Username string `validate:"required,min=1,max=64"`
	ISBN13   string `validate:"omitempty,len=13,numeric"`
}

// resolveUser validates the {username} parameter and returns the
// matching user, creating it on first sight. Writes the error response
// and returns nil when the request is invalid or the store fails.
func (h *Handler) resolveUser(w http.ResponseWriter, r *http.Request) *models.User {
	params := userParams{
		Username: chi.URLParam(r, "username"),
		ISBN13:   chi.URLParam(r, "isbn13"),
	}
	if apiErr := validateRequest(&params); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return nil
	}

	user, err := h.users.GetOrCreateUser(r.Context(), params.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "Failed to load user", err)
		return nil
	}
	return user
}

// GetOrCreateUser handles POST /api/v1/users/{username}.
func (h *Handler) GetOrCreateUser(w http.ResponseWriter, r *http.Request) {
	user := h.resolveUser(w, r)
	if user == nil {
		return
	}
	respondSuccess(w, http.StatusOK, user)
}

// UserStats handles GET /api/v1/users/{username}/stats.
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	user := h.resolveUser(w, r)
	if user == nil {
		return
	}

	stats, err := h.users.UserStats(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "Failed to load user stats", err)
		return
	}
	respondSuccess(w, http.StatusOK, stats)
}

// UserHistory handles GET /api/v1/users/{username}/history.
func (h *Handler) UserHistory(w http.ResponseWriter, r *http.Request) {
	user := h.resolveUser(w, r)
	if user == nil {
		return
	}

	limit, offset := h.pageParams(r)
	entries, err := h.users.SearchHistory(r.Context(), user.ID, limit+1, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "Failed to load search history", err)
		return
	}

	// Fetch one extra row to detect whether another page exists.
	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"history": entries,
		"pagination": models.PaginationInfo{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
		},
	})
}

// UserFavorites handles GET /api/v1/users/{username}/favorites.
func (h *Handler) UserFavorites(w http.ResponseWriter, r *http.Request) {
	user := h.resolveUser(w, r)
	if user == nil {
		return
	}

	limit, offset := h.pageParams(r)
	favs, err := h.users.Favorites(r.Context(), user.ID, limit+1, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "Failed to load favorites", err)
		return
	}

	hasMore := len(favs) > limit
	if hasMore {
		favs = favs[:limit]
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"favorites": favs,
		"pagination": models.PaginationInfo{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
		},
	})
}

// favoriteRequest is the optional PUT body for saving a favorite.
type favoriteRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=2000"`
}

// AddFavorite handles PUT /api/v1/users/{username}/favorites/{isbn13}.
// Saving an already-favorited book returns the existing row.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	user := h.resolveUser(w, r)
	if user == nil {
		return
	}

	var req favoriteRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid JSON body", err)
			return
		}
		if apiErr := validateRequest(&req); apiErr != nil {
			respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
			return
		}
	}

	fav, err := h.users.AddFavorite(r.Context(), user.ID, chi.URLParam(r, "isbn13"), req.Notes)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "Failed to save favorite", err)
		return
	}
	respondSuccess(w, http.StatusOK, fav)
}

// RemoveFavorite handles DELETE /api/v1/users/{username}/favorites/{isbn13}.
// Returns 404 when the book was not in the user's favorites.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user := h.resolveUser(w, r)
	if user == nil {
		return
	}

	isbn13 := chi.URLParam(r, "isbn13")
	removed, err := h.users.RemoveFavorite(r.Context(), user.ID, isbn13)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "Failed to remove favorite", err)
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Book is not in favorites", nil)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"isbn13":  isbn13,
		"removed": true,
	})
}
