// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shelfwise/shelfwise/internal/embedding"
	"github.com/shelfwise/shelfwise/internal/logging"
	"github.com/shelfwise/shelfwise/internal/metrics"
)

// Match is a single vector search result. Similarity is cosine
// similarity in [-1, 1]; results are ordered most similar first.
type Match struct {
	ISBN13     string  `json:"isbn13"`
	Similarity float64 `json:"similarity"`
}

// Store persists book embeddings in SQLite and answers nearest-neighbor
// queries. When the sqlite-vec extension is available (sqlite_vec build
// tag) queries use the vec0 virtual table; otherwise the store falls
// back to a brute-force scan over the embeddings table, which stays
// practical for catalogs in the thousands of books.
type Store struct {
	mu   sync.RWMutex
	db   *sql.DB
	dims int

	vecAvailable bool
}

// New opens (or creates) the vector index at path for vectors of the
// given dimensionality.
func New(path string, dims int) (*Store, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("vectorstore: dimensions must be positive, got %d", dims)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: failed to open %s: %w", path, err)
	}

	s := &Store{db: db, dims: dims}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Info().
		Str("path", path).
		Int("dimensions", dims).
		Bool("sqlite_vec", s.vecAvailable).
		Msg("Vector store opened")

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS book_embeddings (
		isbn13 TEXT PRIMARY KEY,
		embedding BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("vectorstore: failed to create embeddings table: %w", err)
	}

	// The vec0 virtual table is only present when the extension loaded.
	// Probe instead of failing so plain builds still work.
	vecTable := fmt.Sprintf(
		"CREATE VIRTUAL TABLE IF NOT EXISTS vec_books USING vec0(embedding float[%d], isbn13 TEXT)", s.dims)
	if _, err := s.db.Exec(vecTable); err != nil {
		logging.Warn().Err(err).Msg("sqlite-vec unavailable, falling back to brute-force search")
		s.vecAvailable = false
		return nil
	}
	s.vecAvailable = true
	return nil
}

// Upsert stores or replaces the embedding for a book.
func (s *Store) Upsert(ctx context.Context, isbn13 string, vector []float32) error {
	if isbn13 == "" {
		return fmt.Errorf("vectorstore: empty isbn13")
	}
	if len(vector) != s.dims {
		return fmt.Errorf("vectorstore: vector has %d dimensions, index expects %d", len(vector), s.dims)
	}

	blob := encodeVector(vector)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO book_embeddings (isbn13, embedding, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(isbn13) DO UPDATE SET
			embedding = excluded.embedding,
			updated_at = CURRENT_TIMESTAMP
	`, isbn13, blob)
	if err != nil {
		return fmt.Errorf("vectorstore: upsert failed for %s: %w", isbn13, err)
	}

	if s.vecAvailable {
		if _, err := s.db.ExecContext(ctx,
			"INSERT OR REPLACE INTO vec_books (embedding, isbn13) VALUES (?, ?)", blob, isbn13); err != nil {
			logging.Warn().Err(err).Str("isbn13", isbn13).Msg("Failed to update vec_books, ANN may lag")
		}
	}

	return nil
}

// UpsertBatch stores a set of embeddings in a single transaction.
func (s *Store) UpsertBatch(ctx context.Context, vectors map[string][]float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("vectorstore: failed to begin batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO book_embeddings (isbn13, embedding, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(isbn13) DO UPDATE SET
			embedding = excluded.embedding,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("vectorstore: failed to prepare batch: %w", err)
	}
	defer stmt.Close()

	for isbn13, vector := range vectors {
		if len(vector) != s.dims {
			return fmt.Errorf("vectorstore: vector for %s has %d dimensions, index expects %d", isbn13, len(vector), s.dims)
		}
		if _, err := stmt.ExecContext(ctx, isbn13, encodeVector(vector)); err != nil {
			return fmt.Errorf("vectorstore: batch upsert failed for %s: %w", isbn13, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("vectorstore: failed to commit batch: %w", err)
	}

	if s.vecAvailable {
		for isbn13, vector := range vectors {
			if _, err := s.db.ExecContext(ctx,
				"INSERT OR REPLACE INTO vec_books (embedding, isbn13) VALUES (?, ?)",
				encodeVector(vector), isbn13); err != nil {
				logging.Warn().Err(err).Str("isbn13", isbn13).Msg("Failed to update vec_books, ANN may lag")
			}
		}
	}

	return nil
}

// Search returns the topK most similar books to the query vector.
func (s *Store) Search(ctx context.Context, query []float32, topK int) ([]Match, error) {
	if len(query) != s.dims {
		return nil, fmt.Errorf("vectorstore: query has %d dimensions, index expects %d", len(query), s.dims)
	}
	if topK <= 0 {
		topK = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()
	defer func() {
		metrics.RecordVectorSearch(time.Since(start))
	}()

	if s.vecAvailable {
		matches, err := s.searchVec(ctx, query, topK)
		if err == nil {
			return matches, nil
		}
		logging.Debug().Err(err).Msg("vec_books search failed, falling back to brute force")
	}
	return s.searchBruteForce(ctx, query, topK)
}

// searchVec runs a KNN query through the vec0 virtual table.
func (s *Store) searchVec(ctx context.Context, query []float32, topK int) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT isbn13, vec_distance_cosine(embedding, ?) AS distance
		FROM vec_books
		ORDER BY distance ASC
		LIMIT ?
	`, encodeVector(query), topK)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: vec search failed: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var distance float64
		if err := rows.Scan(&m.ISBN13, &distance); err != nil {
			logging.Warn().Err(err).Msg("Failed to scan vec search row")
			continue
		}
		m.Similarity = 1.0 - distance
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// searchBruteForce scans every stored embedding and sorts by cosine
// similarity. Fallback path when sqlite-vec is not compiled in.
func (s *Store) searchBruteForce(ctx context.Context, query []float32, topK int) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT isbn13, embedding FROM book_embeddings")
	if err != nil {
		return nil, fmt.Errorf("vectorstore: scan failed: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var isbn13 string
		var blob []byte
		if err := rows.Scan(&isbn13, &blob); err != nil {
			continue
		}

		vector := decodeVector(blob)
		if len(vector) != s.dims {
			continue
		}

		sim, err := embedding.CosineSimilarity(query, vector)
		if err != nil {
			continue
		}
		matches = append(matches, Match{ISBN13: isbn13, Similarity: sim})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Get returns the stored embedding for a book, or false if absent.
func (s *Store) Get(ctx context.Context, isbn13 string) ([]float32, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT embedding FROM book_embeddings WHERE isbn13 = ?", isbn13).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("vectorstore: get failed for %s: %w", isbn13, err)
	}
	return decodeVector(blob), true, nil
}

// Count returns the number of indexed embeddings.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM book_embeddings").Scan(&count); err != nil {
		return 0, fmt.Errorf("vectorstore: count failed: %w", err)
	}
	metrics.VectorIndexSize.Set(float64(count))
	return count, nil
}

// Dimensions returns the index dimensionality.
func (s *Store) Dimensions() int {
	return s.dims
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
