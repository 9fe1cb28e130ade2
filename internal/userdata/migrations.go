// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package userdata

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfwise/shelfwise/internal/logging"
)

// Migration represents a versioned database migration.
type Migration struct {
	Version     int    // Unique version number (monotonically increasing)
	Name        string // Human-readable migration name
	Description string // Description of what this migration does
	SQL         string // SQL statement to execute
	AppliedAt   time.Time
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// baseSchema is the consolidated initial schema. DuckDB has no
// AUTOINCREMENT, so sequences feed the primary keys.
const baseSchema = `
CREATE SEQUENCE IF NOT EXISTS seq_users_id START 1;
CREATE SEQUENCE IF NOT EXISTS seq_search_history_id START 1;
CREATE SEQUENCE IF NOT EXISTS seq_favorites_id START 1;

CREATE TABLE IF NOT EXISTS users (
	id BIGINT PRIMARY KEY DEFAULT nextval('seq_users_id'),
	username TEXT NOT NULL UNIQUE,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_active TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS search_history (
	id BIGINT PRIMARY KEY DEFAULT nextval('seq_search_history_id'),
	user_id BIGINT NOT NULL,
	query TEXT NOT NULL,
	category TEXT,
	tone TEXT,
	results_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_search_history_user ON search_history(user_id, created_at);

CREATE TABLE IF NOT EXISTS favorites (
	id BIGINT PRIMARY KEY DEFAULT nextval('seq_favorites_id'),
	user_id BIGINT NOT NULL,
	book_isbn13 TEXT NOT NULL,
	notes TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (user_id, book_isbn13)
);
CREATE INDEX IF NOT EXISTS idx_favorites_user ON favorites(user_id, created_at);
`

func (s *Store) createTables(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, baseSchema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// getMigrations returns all versioned migrations in order.
// The initial schema lives in baseSchema; migrations are append-only
// changes for databases already in the field.
func (s *Store) getMigrations() []Migration {
	return []Migration{
		// Future schema changes go here, starting from version 1.
	}
}

// runVersionedMigrations executes only migrations that have not been
// applied yet, recording each one in schema_migrations.
func (s *Store) runVersionedMigrations(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied := make(map[int]struct{})
	rows, err := s.conn.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[version] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	newMigrations := 0
	for _, m := range s.getMigrations() {
		if _, exists := applied[m.Version]; exists {
			continue
		}

		if _, err := s.conn.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("failed to execute migration v%d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := s.conn.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, name, description) VALUES (?, ?, ?)",
			m.Version, m.Name, m.Description); err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
		}
		newMigrations++
	}

	if newMigrations > 0 {
		logging.Info().Int("count", newMigrations).Msg("Applied database migrations")
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.conn.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
