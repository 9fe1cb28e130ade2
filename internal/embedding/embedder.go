// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package embedding

import (
	"context"
	"errors"
)

// Embedder converts text into dense vectors for similarity search.
// Implementations must be safe for concurrent use.
type Embedder interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector dimensionality this embedder produces.
	Dimensions() int

	// Name identifies the underlying model for logging and cache keys.
	Name() string
}

var (
	// ErrEmptyInput is returned when the input text is empty or whitespace
	ErrEmptyInput = errors.New("embedding: empty input text")

	// ErrRateLimited is returned when the per-minute or daily request
	// budget is exhausted and the caller should back off
	ErrRateLimited = errors.New("embedding: request budget exhausted")

	// ErrCircuitOpen is returned when the upstream API has failed enough
	// that the circuit breaker is rejecting calls
	ErrCircuitOpen = errors.New("embedding: circuit breaker open")
)
