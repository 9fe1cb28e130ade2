// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

/*
Package vectorstore maintains the book embedding index used for
semantic search.

Embeddings are stored as little-endian float32 blobs in a plain SQLite
table keyed by ISBN-13. When the binary is built with the sqlite_vec
tag, the sqlite-vec extension provides a vec0 virtual table for fast
KNN queries; otherwise search degrades to a brute-force cosine scan,
which keeps tests and extension-free builds working against the same
API.

The index is populated by the "shelfwise index" command from catalog
descriptions and queried by the recommendation engine with embedded
user queries.
*/
package vectorstore
