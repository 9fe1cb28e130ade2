// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package middleware

import (
	"net/http"

	"github.com/shelfwise/shelfwise/internal/logging"
)

// RequestIDHeader is the header used to propagate request IDs.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a unique ID. An incoming X-Request-ID
// header is honored so IDs survive proxy hops; otherwise a new UUID is
// generated. The ID is echoed on the response and stored in the logging
// context together with a fresh correlation ID, so every log line
// emitted while serving the request carries both.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		ctx = logging.ContextWithNewCorrelationID(ctx)

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request ID for a request, or empty string if
// the RequestID middleware did not run.
func GetRequestID(r *http.Request) string {
	return logging.RequestIDFromContext(r.Context())
}
