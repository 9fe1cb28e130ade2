// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package userdata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shelfwise/shelfwise/internal/logging"
	"github.com/shelfwise/shelfwise/internal/models"
)

// SaveSearch appends a search to the user's history. The "All" facet
// values are stored as NULL so history rows only carry real filters.
func (s *Store) SaveSearch(ctx context.Context, userID int64, query, category, tone string, resultsCount int) (entry *models.SearchHistoryEntry, err error) {
	start := time.Now()
	defer func() { observe("INSERT", "search_history", start, err) }()

	if query == "" {
		return nil, fmt.Errorf("userdata: empty query")
	}

	entry = &models.SearchHistoryEntry{}
	var cat, tn sql.NullString
	err = s.conn.QueryRowContext(ctx, `
		INSERT INTO search_history (user_id, query, category, tone, results_count)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, user_id, query, category, tone, results_count, created_at
	`, userID, query, facetOrNull(category), facetOrNull(tone), resultsCount).
		Scan(&entry.ID, &entry.UserID, &entry.Query, &cat, &tn, &entry.ResultsCount, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("userdata: failed to save search: %w", err)
	}
	entry.Category = cat.String
	entry.Tone = tn.String

	logging.Debug().Int64("user_id", userID).Str("query", query).Msg("Search saved to history")
	return entry, nil
}

// SearchHistory returns the user's searches, newest first.
func (s *Store) SearchHistory(ctx context.Context, userID int64, limit, offset int) (entries []models.SearchHistoryEntry, err error) {
	start := time.Now()
	defer func() { observe("SELECT", "search_history", start, err) }()

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, user_id, query, category, tone, results_count, created_at
		FROM search_history
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("userdata: failed to query history: %w", err)
	}
	defer rows.Close()

	entries = []models.SearchHistoryEntry{}
	for rows.Next() {
		var entry models.SearchHistoryEntry
		var cat, tn sql.NullString
		if err = rows.Scan(&entry.ID, &entry.UserID, &entry.Query, &cat, &tn, &entry.ResultsCount, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("userdata: failed to scan history row: %w", err)
		}
		entry.Category = cat.String
		entry.Tone = tn.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// facetOrNull maps the "All" facet (and blanks) to NULL.
func facetOrNull(facet string) sql.NullString {
	if facet == "" || facet == "All" {
		return sql.NullString{}
	}
	return sql.NullString{String: facet, Valid: true}
}
