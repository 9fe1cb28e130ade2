// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

// Package main builds the vector index from the book catalog.
//
// Every book description is embedded through the configured API and
// written to the SQLite vector store the server searches against.
// Books already present in the index are skipped unless -rebuild is
// given, so incremental catalog updates only pay for the new rows.
//
// Usage:
//
//	export OPENAI_API_KEY=sk-...
//	shelfwise-index              # embed missing books
//	shelfwise-index -rebuild     # re-embed everything
//
// The command shares the server's configuration (environment variables
// and config.yaml) for the catalog, vector store, and embedding client.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/shelfwise/shelfwise/internal/catalog"
	"github.com/shelfwise/shelfwise/internal/config"
	"github.com/shelfwise/shelfwise/internal/embedding"
	"github.com/shelfwise/shelfwise/internal/logging"
	"github.com/shelfwise/shelfwise/internal/models"
	"github.com/shelfwise/shelfwise/internal/vectorstore"
)

// batchSize is the number of descriptions sent per embedding call.
const batchSize = 64

func main() {
	rebuild := flag.Bool("rebuild", false, "re-embed books already in the index")
	flag.Parse()

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load catalog")
	}

	store, err := vectorstore.New(cfg.VectorStore.Path, cfg.Embedding.Dimensions)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.VectorStore.Path).Msg("Failed to open vector store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing vector store")
		}
	}()

	client := embedding.NewClient(cfg.Embedding)

	pending, indexed, blank, err := selectBooks(ctx, cat, store, *rebuild)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to inspect existing index")
	}
	logging.Info().
		Int("pending", len(pending)).
		Int("already_indexed", indexed).
		Int("missing_description", blank).
		Str("model", client.Name()).
		Msg("Index build starting")

	start := time.Now()
	embedded := 0
	for batchStart := 0; batchStart < len(pending); batchStart += batchSize {
		end := batchStart + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[batchStart:end]

		if err := indexBatch(ctx, client, store, batch); err != nil {
			if errors.Is(err, context.Canceled) {
				logging.Warn().Int("indexed", embedded).Msg("Index build interrupted")
				os.Exit(1)
			}
			logging.Fatal().Err(err).Int("indexed", embedded).Msg("Index build failed")
		}

		embedded += len(batch)
		logging.Info().
			Int("indexed", embedded).
			Int("total", len(pending)).
			Dur("elapsed", time.Since(start)).
			Msg("Batch indexed")
	}

	total, err := store.Count(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to count index entries")
	}
	logging.Info().
		Int64("index_entries", total).
		Int("embedded", embedded).
		Dur("took", time.Since(start)).
		Msg("Index build complete")
}

// selectBooks returns the catalog books that still need embedding,
// along with counts of rows skipped because they are already indexed or
// have no description. The catalog only requires isbn13 and title, so a
// descriptionless row must not reach the embedding API; it would fail
// the whole batch it rides in.
func selectBooks(ctx context.Context, cat *catalog.Catalog, store *vectorstore.Store, rebuild bool) (pending []*models.Book, indexed, blank int, err error) {
	books := cat.All()
	pending = make([]*models.Book, 0, len(books))
	for _, book := range books {
		if strings.TrimSpace(book.Description) == "" {
			blank++
			logging.Warn().Str("isbn13", book.ISBN13).Msg("Skipping book without a description")
			continue
		}
		if !rebuild {
			_, found, getErr := store.Get(ctx, book.ISBN13)
			if getErr != nil {
				return nil, 0, 0, getErr
			}
			if found {
				indexed++
				continue
			}
		}
		pending = append(pending, book)
	}
	return pending, indexed, blank, nil
}

// indexBatch embeds one batch of descriptions and writes the vectors.
// Budget exhaustion backs off and retries; other failures abort.
func indexBatch(ctx context.Context, client *embedding.Client, store *vectorstore.Store, batch []*models.Book) error {
	texts := make([]string, len(batch))
	for i, book := range batch {
		texts[i] = book.Description
	}

	var vectors [][]float32
	backoff := retry.WithCappedDuration(time.Minute, retry.NewFibonacci(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var embedErr error
		vectors, embedErr = client.EmbedBatch(ctx, texts)
		if errors.Is(embedErr, embedding.ErrRateLimited) {
			logging.Debug().Msg("Embedding budget exhausted, backing off")
			return retry.RetryableError(embedErr)
		}
		return embedErr
	})
	if err != nil {
		return err
	}

	byISBN := make(map[string][]float32, len(batch))
	for i, book := range batch {
		byISBN[book.ISBN13] = vectors[i]
	}
	return store.UpsertBatch(ctx, byISBN)
}
