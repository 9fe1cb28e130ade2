// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

/*
Package recommend implements the semantic search pipeline.

A search request flows through these stages:

 1. Normalize: trim the query, default the facets to "All", apply
    configured top-k defaults, clamp final to initial.
 2. Cache lookup: normalized requests key a TTL cache of full result
    lists; hits skip the remaining stages entirely.
 3. Embed: the query is embedded through the configured Embedder.
 4. Vector search: the closest initial_top_k book descriptions are
    fetched from the vector index.
 5. Catalog join: ISBN-13 matches resolve to full book records; the
    category facet filters here.
 6. Tone re-sort: a tone facet stably re-sorts by the corresponding
    emotion score (Happy=joy, Surprising=surprise, Angry=anger,
    Suspenseful=fear, Sad=sadness).
 7. Truncate: the list is cut to final_top_k, optionally through the
    MMR diversity reranker in the reranking subpackage.

The engine keeps lifetime counters (searches, cache hits, errors)
exposed via Stats for the health and stats endpoints.
*/
package recommend
