// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package api

import (
	"context"
	"time"

	"github.com/shelfwise/shelfwise/internal/cache"
	"github.com/shelfwise/shelfwise/internal/config"
	"github.com/shelfwise/shelfwise/internal/embedding"
	"github.com/shelfwise/shelfwise/internal/models"
	"github.com/shelfwise/shelfwise/internal/recommend"
)

// SearchService runs recommendation searches. Implemented by
// recommend.Engine.
type SearchService interface {
	Search(ctx context.Context, req recommend.Request) ([]models.Recommendation, bool, error)
	Categories() []string
	Tones() []string
	Stats() recommend.Stats
	CacheStats() cache.StatsSnapshot
	ClearCache()
}

// UserService persists users, search history, and favorites.
// Implemented by userdata.Store.
type UserService interface {
	GetOrCreateUser(ctx context.Context, username string) (*models.User, error)
	UserStats(ctx context.Context, userID int64) (*models.UserStats, error)
	SaveSearch(ctx context.Context, userID int64, query, category, tone string, resultsCount int) (*models.SearchHistoryEntry, error)
	SearchHistory(ctx context.Context, userID int64, limit, offset int) ([]models.SearchHistoryEntry, error)
	AddFavorite(ctx context.Context, userID int64, isbn13, notes string) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID int64, isbn13 string) (bool, error)
	Favorites(ctx context.Context, userID int64, limit, offset int) ([]models.Favorite, error)
	Ping(ctx context.Context) error
}

// EmbeddingStatus reports the embedding client's budgets and breaker
// state. Implemented by embedding.Client; nil when the status endpoint
// should report the client as unavailable (e.g. offline index-only runs).
type EmbeddingStatus interface {
	Name() string
	RateLimitStatus() embedding.RateLimitStatus
	BreakerState() string
}

// EmbeddingCacheStats exposes the embedding cache counters. Implemented
// by embedding.CachedEmbedder; may be nil when caching is disabled.
type EmbeddingCacheStats interface {
	CacheStats() cache.StatsSnapshot
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	engine     SearchService
	users      UserService
	embedder   EmbeddingStatus
	embedCache EmbeddingCacheStats
	cfg        config.APIConfig
	startTime  time.Time
}

// NewHandler creates an API handler. embedder and embedCache are
// optional; the corresponding status fields are omitted when nil.
func NewHandler(engine SearchService, users UserService, embedder EmbeddingStatus, embedCache EmbeddingCacheStats, cfg config.APIConfig) *Handler {
	return &Handler{
		engine:     engine,
		users:      users,
		embedder:   embedder,
		embedCache: embedCache,
		cfg:        cfg,
		startTime:  time.Now(),
	}
}
