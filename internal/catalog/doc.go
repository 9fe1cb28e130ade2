// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

// Package catalog loads the enriched book dataset into memory.
//
// The catalog CSV is produced offline: descriptions are classified into
// simple categories and scored across five emotions. At runtime the
// catalog is read-only; the recommendation engine joins vector search
// results back to full book records through it.
package catalog
