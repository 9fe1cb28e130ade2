// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

/*
Package cache provides thread-safe in-memory caching with TTL support.

This package implements the caching layer for search results and query
embeddings, reducing embedding API calls and vector index queries for
repeated searches.

# Overview

The cache provides:
  - Thread-safe concurrent access (sync.RWMutex)
  - Time-to-live (TTL) expiration with a background cleanup loop
  - Entry bound with eviction of the entry closest to expiry
  - Hit/miss/eviction accounting for the /cache/stats endpoint
  - Simple key-value storage with any value type (interface{})

# Use Cases

Two cache instances exist in the application:
  - Query result cache (default 1-hour TTL, keyed by the full search request)
  - Embedding cache (24x the query TTL; embeddings are stable per model)

# Usage Example

	import "github.com/shelfwise/shelfwise/internal/cache"

	// Create cache with 1-hour TTL bounded to 10k entries
	c := cache.New(time.Hour, 10000)

	// Store value
	c.Set(cache.GenerateKey("search", req), results)

	// Retrieve value
	if value, ok := c.Get(key); ok {
	    results := value.([]models.Recommendation)
	    // Use cached results
	}

	// Clear entire cache
	c.Clear()

Lookaside pattern with GetOrCompute:

	vec, err := c.GetOrCompute(key, func() (interface{}, error) {
	    return embedder.Embed(ctx, query)
	})

# Cache Key Conventions

Keys combine a method prefix with a short SHA-256 of the canonical JSON
encoding of the parameters:

	search:3f8a...    // full search request
	embed:91bc...     // query text for embedding

GenerateKey produces these; hand-built keys are only used in tests.

# Thread Safety

All cache methods are thread-safe using sync.RWMutex. Multiple goroutines
can safely access the cache concurrently. GetOrCompute does not hold a
lock across the compute function, so concurrent misses for the same key
may compute more than once; last write wins.

# See Also

  - internal/recommend: the search pipeline that fronts this cache
  - internal/embedding: embedding client with its own cache instance
*/
package cache
