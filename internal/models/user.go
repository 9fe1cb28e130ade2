// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package models

import (
	"time"
)

// User is a dashboard user identified by username. There is no
// authentication; users exist to scope history and favorites.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// SearchHistoryEntry records one search a user ran. Category and Tone are
// empty when the search used the "All" facet; they are stored as NULL.
type SearchHistoryEntry struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Query        string    `json:"query"`
	Category     string    `json:"category,omitempty"`
	Tone         string    `json:"tone,omitempty"`
	ResultsCount int       `json:"results_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Favorite marks a book a user saved, with optional free-form notes.
type Favorite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ISBN13    string    `json:"isbn13"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserStats summarizes a user's activity for the stats endpoint.
type UserStats struct {
	Username      string    `json:"username"`
	SearchCount   int64     `json:"search_count"`
	FavoriteCount int64     `json:"favorite_count"`
	MemberSince   time.Time `json:"member_since"`
	LastActive    time.Time `json:"last_active"`
}
