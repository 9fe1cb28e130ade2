// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/shelfwise/shelfwise/internal/embedding"
	"github.com/shelfwise/shelfwise/internal/recommend"
)

// searchErrorStatus maps pipeline failures to an HTTP status, error
// code, and client-safe message. Upstream embedding failures surface as
// 502/503 so callers can distinguish them from bad requests.
func searchErrorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, embedding.ErrRateLimited):
		return http.StatusTooManyRequests, ErrCodeRateLimit,
			"Embedding API budget exhausted, retry later"
	case errors.Is(err, embedding.ErrCircuitOpen):
		return http.StatusServiceUnavailable, ErrCodeUnavailable,
			"Embedding API temporarily unavailable"
	case errors.Is(err, recommend.ErrEmptyQuery), errors.Is(err, embedding.ErrEmptyInput):
		return http.StatusBadRequest, ErrCodeValidation,
			"Query must not be empty"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeEmbedding,
			"Search timed out"
	default:
		return http.StatusInternalServerError, ErrCodeInternal,
			"Search failed"
	}
}
