// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

/*
Package embedding turns text into dense vectors via an OpenAI-compatible
embeddings API.

The package exposes a small Embedder interface so the recommendation
engine and the index builder never depend on a concrete provider. The
production implementation is Client, which layers three protections
around every API call:

  - RateLimiter: a sliding per-minute window plus a daily quota with
    midnight-UTC reset, mirroring how providers meter usage.
  - Retry: transient failures (network errors, 429, 5xx) are retried
    with constant backoff; other 4xx responses fail immediately.
  - Circuit breaker: sustained failures open the circuit and reject
    calls until the provider recovers, preventing request pileup.

CachedEmbedder wraps any Embedder with a TTL cache keyed on model and
text. Since embeddings are deterministic per model, the cache TTL is set
much longer than the query cache (24x by default).
*/
package embedding
