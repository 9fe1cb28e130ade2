// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

/*
Package userdata persists per-user state in DuckDB: accounts, search
history, and favorites.

Users are identified by username only; there is no authentication. A
user row is created lazily the first time a username appears, and
last_active is bumped on every lookup.

The schema is created on startup and evolved through append-only
versioned migrations tracked in schema_migrations. Favorites reference
catalog books by ISBN-13; book data itself never enters this database.
*/
package userdata
