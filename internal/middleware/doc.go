// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

// Package middleware provides HTTP middleware shared across the API:
// request ID propagation, Prometheus instrumentation, and response
// compression. All middleware uses the standard Chi-compatible
// func(http.Handler) http.Handler shape.
package middleware
