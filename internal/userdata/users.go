// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package userdata

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shelfwise/shelfwise/internal/logging"
	"github.com/shelfwise/shelfwise/internal/models"
)

// GetOrCreateUser returns the user with the given username, creating
// it on first sight. Existing users get their last_active bumped.
func (s *Store) GetOrCreateUser(ctx context.Context, username string) (user *models.User, err error) {
	start := time.Now()
	defer func() { observe("SELECT", "users", start, err) }()

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("userdata: empty username")
	}

	user = &models.User{}
	err = s.conn.QueryRowContext(ctx,
		"SELECT id, username, created_at, last_active FROM users WHERE username = ?", username).
		Scan(&user.ID, &user.Username, &user.CreatedAt, &user.LastActive)

	switch {
	case err == sql.ErrNoRows:
		err = s.conn.QueryRowContext(ctx, `
			INSERT INTO users (username) VALUES (?)
			RETURNING id, username, created_at, last_active
		`, username).Scan(&user.ID, &user.Username, &user.CreatedAt, &user.LastActive)
		if err != nil {
			return nil, fmt.Errorf("userdata: failed to create user %q: %w", username, err)
		}
		logging.Info().Str("username", username).Int64("user_id", user.ID).Msg("Created new user")
		return user, nil

	case err != nil:
		return nil, fmt.Errorf("userdata: failed to look up user %q: %w", username, err)
	}

	now := time.Now().UTC()
	if _, err = s.conn.ExecContext(ctx,
		"UPDATE users SET last_active = ? WHERE id = ?", now, user.ID); err != nil {
		return nil, fmt.Errorf("userdata: failed to touch user %q: %w", username, err)
	}
	user.LastActive = now
	return user, nil
}

// GetUser returns a user by ID, or nil if absent.
func (s *Store) GetUser(ctx context.Context, userID int64) (user *models.User, err error) {
	start := time.Now()
	defer func() { observe("SELECT", "users", start, err) }()

	user = &models.User{}
	err = s.conn.QueryRowContext(ctx,
		"SELECT id, username, created_at, last_active FROM users WHERE id = ?", userID).
		Scan(&user.ID, &user.Username, &user.CreatedAt, &user.LastActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("userdata: failed to load user %d: %w", userID, err)
	}
	return user, nil
}

// UserStats aggregates a user's search and favorite counts.
func (s *Store) UserStats(ctx context.Context, userID int64) (stats *models.UserStats, err error) {
	start := time.Now()
	defer func() { observe("SELECT", "users", start, err) }()

	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("userdata: user %d not found", userID)
	}

	stats = &models.UserStats{
		Username:    u.Username,
		MemberSince: u.CreatedAt,
		LastActive:  u.LastActive,
	}

	err = s.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM search_history WHERE user_id = ?", userID).Scan(&stats.SearchCount)
	if err != nil {
		return nil, fmt.Errorf("userdata: failed to count searches: %w", err)
	}
	err = s.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM favorites WHERE user_id = ?", userID).Scan(&stats.FavoriteCount)
	if err != nil {
		return nil, fmt.Errorf("userdata: failed to count favorites: %w", err)
	}
	return stats, nil
}
