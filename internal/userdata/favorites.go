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

// AddFavorite saves a book to the user's favorites. Adding a book that
// is already favorited returns the existing row unchanged.
func (s *Store) AddFavorite(ctx context.Context, userID int64, isbn13, notes string) (fav *models.Favorite, err error) {
	start := time.Now()
	defer func() { observe("INSERT", "favorites", start, err) }()

	if isbn13 == "" {
		return nil, fmt.Errorf("userdata: empty isbn13")
	}

	if fav, err = s.getFavorite(ctx, userID, isbn13); err != nil {
		return nil, err
	} else if fav != nil {
		logging.Debug().Int64("user_id", userID).Str("isbn13", isbn13).Msg("Book already in favorites")
		return fav, nil
	}

	fav = &models.Favorite{}
	var n sql.NullString
	err = s.conn.QueryRowContext(ctx, `
		INSERT INTO favorites (user_id, book_isbn13, notes)
		VALUES (?, ?, ?)
		RETURNING id, user_id, book_isbn13, notes, created_at
	`, userID, isbn13, notesOrNull(notes)).
		Scan(&fav.ID, &fav.UserID, &fav.ISBN13, &n, &fav.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("userdata: failed to add favorite: %w", err)
	}
	fav.Notes = n.String

	logging.Info().Int64("user_id", userID).Str("isbn13", isbn13).Msg("Favorite added")
	return fav, nil
}

// RemoveFavorite deletes a favorite. Returns false when the book was
// not in the user's favorites.
func (s *Store) RemoveFavorite(ctx context.Context, userID int64, isbn13 string) (removed bool, err error) {
	start := time.Now()
	defer func() { observe("DELETE", "favorites", start, err) }()

	result, err := s.conn.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = ? AND book_isbn13 = ?", userID, isbn13)
	if err != nil {
		return false, fmt.Errorf("userdata: failed to remove favorite: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("userdata: failed to read delete result: %w", err)
	}
	if affected > 0 {
		logging.Info().Int64("user_id", userID).Str("isbn13", isbn13).Msg("Favorite removed")
	}
	return affected > 0, nil
}

// Favorites returns the user's favorites, newest first.
func (s *Store) Favorites(ctx context.Context, userID int64, limit, offset int) (favs []models.Favorite, err error) {
	start := time.Now()
	defer func() { observe("SELECT", "favorites", start, err) }()

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, user_id, book_isbn13, notes, created_at
		FROM favorites
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("userdata: failed to query favorites: %w", err)
	}
	defer rows.Close()

	favs = []models.Favorite{}
	for rows.Next() {
		var fav models.Favorite
		var n sql.NullString
		if err = rows.Scan(&fav.ID, &fav.UserID, &fav.ISBN13, &n, &fav.CreatedAt); err != nil {
			return nil, fmt.Errorf("userdata: failed to scan favorite row: %w", err)
		}
		fav.Notes = n.String
		favs = append(favs, fav)
	}
	return favs, rows.Err()
}

// IsFavorite reports whether the user has favorited the book.
func (s *Store) IsFavorite(ctx context.Context, userID int64, isbn13 string) (found bool, err error) {
	start := time.Now()
	defer func() { observe("SELECT", "favorites", start, err) }()

	fav, err := s.getFavorite(ctx, userID, isbn13)
	if err != nil {
		return false, err
	}
	return fav != nil, nil
}

func (s *Store) getFavorite(ctx context.Context, userID int64, isbn13 string) (*models.Favorite, error) {
	fav := &models.Favorite{}
	var n sql.NullString
	err := s.conn.QueryRowContext(ctx, `
		SELECT id, user_id, book_isbn13, notes, created_at
		FROM favorites
		WHERE user_id = ? AND book_isbn13 = ?
	`, userID, isbn13).Scan(&fav.ID, &fav.UserID, &fav.ISBN13, &n, &fav.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("userdata: failed to look up favorite: %w", err)
	}
	fav.Notes = n.String
	return fav, nil
}

// notesOrNull maps blank notes to NULL.
func notesOrNull(notes string) sql.NullString {
	if notes == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: notes, Valid: true}
}
