// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/shelfwise/shelfwise/internal/cache"
	"github.com/shelfwise/shelfwise/internal/catalog"
	"github.com/shelfwise/shelfwise/internal/config"
	"github.com/shelfwise/shelfwise/internal/embedding"
	"github.com/shelfwise/shelfwise/internal/logging"
	"github.com/shelfwise/shelfwise/internal/metrics"
	"github.com/shelfwise/shelfwise/internal/models"
	"github.com/shelfwise/shelfwise/internal/recommend/reranking"
	"github.com/shelfwise/shelfwise/internal/vectorstore"
)

// ErrEmptyQuery is returned when the query is empty after trimming.
// Struct validation only rejects missing queries, so whitespace-only
// input surfaces here.
var ErrEmptyQuery = errors.New("recommend: empty query")

// Engine runs the recommendation pipeline: embed the query, find the
// nearest book descriptions, join back to catalog records, apply facet
// filters, and re-sort by emotional tone.
type Engine struct {
	catalog  *catalog.Catalog
	embedder embedding.Embedder
	store    *vectorstore.Store
	cache    *cache.Cache
	reranker *reranking.MMR
	cfg      config.SearchConfig

	searches  atomic.Int64
	cacheHits atomic.Int64
	errors    atomic.Int64
}

// Stats is a snapshot of engine counters since process start.
type Stats struct {
	Searches  int64 `json:"searches"`
	CacheHits int64 `json:"cache_hits"`
	Errors    int64 `json:"errors"`
}

// New creates a recommendation engine. The reranker is only engaged
// when cfg.RerankEnabled is set.
func New(cat *catalog.Catalog, embedder embedding.Embedder, store *vectorstore.Store, cfg config.SearchConfig) *Engine {
	e := &Engine{
		catalog:  cat,
		embedder: embedder,
		store:    store,
		cache:    cache.New(cfg.CacheTTL, cfg.CacheMaxEntries),
		cfg:      cfg,
	}
	if cfg.RerankEnabled {
		e.reranker = reranking.NewMMR(cfg.DiversityLambda)
	}
	return e
}

// Search returns recommendations for the request. The second return
// reports whether the result came from the query cache.
func (e *Engine) Search(ctx context.Context, req Request) ([]models.Recommendation, bool, error) {
	e.searches.Add(1)
	req.Normalize(e.cfg.InitialTopK, e.cfg.FinalTopK)

	if req.Query == "" {
		e.errors.Add(1)
		return nil, false, ErrEmptyQuery
	}

	key := cache.GenerateKey("search", req)
	if cached, found := e.cache.Get(key); found {
		if recs, ok := cached.([]models.Recommendation); ok {
			e.cacheHits.Add(1)
			metrics.CacheHits.WithLabelValues("query").Inc()
			metrics.RecordSearch("hit", 0, len(recs))
			return recs, true, nil
		}
	}
	metrics.CacheMisses.WithLabelValues("query").Inc()

	start := time.Now()
	recs, err := e.runPipeline(ctx, req)
	if err != nil {
		e.errors.Add(1)
		metrics.RecordSearch("error", 0, 0)
		return nil, false, err
	}

	e.cache.Set(key, recs)
	metrics.UpdateCacheGauges("query", e.cache.GetStats().Entries)
	metrics.RecordSearch("miss", time.Since(start), len(recs))

	logging.Debug().
		Str("query", req.Query).
		Str("category", req.Category).
		Str("tone", req.Tone).
		Int("results", len(recs)).
		Dur("took", time.Since(start)).
		Msg("Search pipeline completed")

	return recs, false, nil
}

func (e *Engine) runPipeline(ctx context.Context, req Request) ([]models.Recommendation, error) {
	vector, err := e.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("recommend: failed to embed query: %w", err)
	}

	matches, err := e.store.Search(ctx, vector, req.InitialTopK)
	if err != nil {
		return nil, fmt.Errorf("recommend: vector search failed: %w", err)
	}

	recs := e.joinCatalog(matches, req.Category)
	recs = sortByTone(recs, req.Tone)

	if e.reranker != nil {
		recs = e.reranker.Rerank(recs, req.FinalTopK)
	} else if len(recs) > req.FinalTopK {
		recs = recs[:req.FinalTopK]
	}

	// Never return nil so cached empty results still decode as []
	if recs == nil {
		recs = []models.Recommendation{}
	}
	return recs, nil
}

// joinCatalog resolves vector matches to catalog records, dropping
// matches without a catalog entry and applying the category filter.
func (e *Engine) joinCatalog(matches []vectorstore.Match, category string) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(matches))
	for _, m := range matches {
		book, ok := e.catalog.Get(m.ISBN13)
		if !ok {
			logging.Debug().Str("isbn13", m.ISBN13).Msg("Indexed book missing from catalog")
			continue
		}
		if category != "All" && book.Category != category {
			continue
		}
		recs = append(recs, models.NewRecommendation(book, m.Similarity))
	}
	return recs
}

// sortByTone re-sorts by the emotion score behind the tone facet,
// highest first. The sort is stable so similarity order breaks ties.
func sortByTone(recs []models.Recommendation, tone string) []models.Recommendation {
	emotion, ok := EmotionForTone(tone)
	if !ok {
		return recs
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Emotions.Score(emotion) > recs[j].Emotions.Score(emotion)
	})
	return recs
}

// Categories returns the catalog's facet values, "All" first.
func (e *Engine) Categories() []string {
	return e.catalog.Categories()
}

// Tones returns the supported tone facets.
func (e *Engine) Tones() []string {
	return Tones()
}

// Stats returns the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:  e.searches.Load(),
		CacheHits: e.cacheHits.Load(),
		Errors:    e.errors.Load(),
	}
}

// CacheStats returns the query cache snapshot.
func (e *Engine) CacheStats() cache.StatsSnapshot {
	return e.cache.GetStats()
}

// ClearCache drops all cached query results.
func (e *Engine) ClearCache() {
	e.cache.Clear()
	metrics.UpdateCacheGauges("query", 0)
	logging.Info().Msg("Query cache cleared")
}
