// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

// Package models defines the shared data types for Shelfwise.
//
// It holds the catalog book record, the recommendation hit shape returned
// by the search pipeline, user-data records (users, history, favorites),
// and the standard API response envelope. Keeping these in one leaf
// package avoids import cycles between the catalog, recommend, userdata,
// and api packages.
package models
