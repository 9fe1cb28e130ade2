// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package embedding

import (
	"context"
	"time"

	"github.com/shelfwise/shelfwise/internal/cache"
	"github.com/shelfwise/shelfwise/internal/metrics"
)

// CachedEmbedder memoizes embedding results in a TTL cache.
//
// Embedding a given text with a given model is deterministic, so the TTL
// here is generous relative to the query cache; entries only need to turn
// over when the model changes. Keys include the model name so a model
// swap never serves stale vectors.
type CachedEmbedder struct {
	inner Embedder
	cache *cache.Cache
}

// NewCachedEmbedder wraps an embedder with a cache holding up to
// maxEntries vectors for the given TTL.
func NewCachedEmbedder(inner Embedder, ttl time.Duration, maxEntries int) *CachedEmbedder {
	return &CachedEmbedder{
		inner: inner,
		cache: cache.New(ttl, maxEntries),
	}
}

// Embed returns a cached vector when available, otherwise delegates.
func (ce *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := ce.key(text)

	if cached, found := ce.cache.Get(key); found {
		if vec, ok := cached.([]float32); ok {
			metrics.CacheHits.WithLabelValues("embedding").Inc()
			return vec, nil
		}
	}
	metrics.CacheMisses.WithLabelValues("embedding").Inc()

	vec, err := ce.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	ce.cache.Set(key, vec)
	metrics.UpdateCacheGauges("embedding", ce.cache.GetStats().Entries)
	return vec, nil
}

// EmbedBatch serves cached vectors where possible and embeds only the
// misses, reassembling results in input order.
func (ce *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	vectors := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if cached, found := ce.cache.Get(ce.key(text)); found {
			if vec, ok := cached.([]float32); ok {
				metrics.CacheHits.WithLabelValues("embedding").Inc()
				vectors[i] = vec
				continue
			}
		}
		metrics.CacheMisses.WithLabelValues("embedding").Inc()
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		fresh, err := ce.inner.EmbedBatch(ctx, missing)
		if err != nil {
			return nil, err
		}
		for j, vec := range fresh {
			vectors[missingIdx[j]] = vec
			ce.cache.Set(ce.key(missing[j]), vec)
		}
		metrics.UpdateCacheGauges("embedding", ce.cache.GetStats().Entries)
	}

	return vectors, nil
}

// Dimensions delegates to the wrapped embedder.
func (ce *CachedEmbedder) Dimensions() int {
	return ce.inner.Dimensions()
}

// Name delegates to the wrapped embedder.
func (ce *CachedEmbedder) Name() string {
	return ce.inner.Name()
}

// CacheStats exposes the embedding cache snapshot for the stats endpoint.
func (ce *CachedEmbedder) CacheStats() cache.StatsSnapshot {
	return ce.cache.GetStats()
}

func (ce *CachedEmbedder) key(text string) string {
	return cache.GenerateKey("embed", struct {
		Model string `json:"model"`
		Text  string `json:"text"`
	}{Model: ce.inner.Name(), Text: text})
}
