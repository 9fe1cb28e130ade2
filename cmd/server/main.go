// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

// Package main is the entry point for the Shelfwise server.
//
// Shelfwise recommends books by semantic similarity: user queries are
// embedded via an OpenAI-compatible API and matched against
// pre-computed embeddings of book descriptions, then filtered by
// category and re-ranked by emotional tone.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and optional config.yaml (Koanf v2)
//  2. Catalog: book records and emotion scores loaded from CSV into memory
//  3. Vector store: SQLite index of description embeddings (sqlite-vec
//     when built with -tags sqlite_vec, brute-force scan otherwise)
//  4. Embedding client: rate-limited, circuit-broken API client with an
//     embedding cache in front
//  5. User-data store: DuckDB database for users, history, and favorites
//  6. Recommendation engine: the search pipeline and its result cache
//  7. HTTP server: Chi-routed REST API plus /metrics
//
// The vector index is built offline by the companion command in
// cmd/index; the server only reads it.
//
// # Example Usage
//
// Development run against a local catalog:
//
//	export OPENAI_API_KEY=sk-...
//	export CATALOG_PATH=data/books_with_emotions.csv
//	export LOG_FORMAT=console
//	./shelfwise
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting connections, waits up to 10s for in-flight requests, then
// closes the stores.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/shelfwise/shelfwise/internal/api"
	"github.com/shelfwise/shelfwise/internal/catalog"
	"github.com/shelfwise/shelfwise/internal/config"
	"github.com/shelfwise/shelfwise/internal/embedding"
	"github.com/shelfwise/shelfwise/internal/logging"
	"github.com/shelfwise/shelfwise/internal/metrics"
	"github.com/shelfwise/shelfwise/internal/recommend"
	"github.com/shelfwise/shelfwise/internal/userdata"
	"github.com/shelfwise/shelfwise/internal/vectorstore"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

// embeddingCacheTTLFactor scales the search cache TTL for the embedding
// cache. Query embeddings only change when the model changes, so they
// can live much longer than search results.
const embeddingCacheTTLFactor = 24

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("catalog", cfg.Catalog.Path).
		Str("vector_store", cfg.VectorStore.Path).
		Str("database", cfg.Database.Path).
		Msg("Starting Shelfwise")

	if cfg.SourceFile != "" {
		watchErr := config.WatchConfigFile(cfg.SourceFile, func() {
			fresh, err := config.LoadWithKoanf()
			if err != nil {
				logging.Warn().Err(err).Msg("Ignoring config file change that fails validation")
				return
			}
			logging.SetLevelString(fresh.Logging.Level)
			logging.Info().Str("level", fresh.Logging.Level).Msg("Log level reloaded from config file")
		})
		if watchErr != nil {
			logging.Warn().Err(watchErr).Str("path", cfg.SourceFile).Msg("Config file watch unavailable")
		}
	}

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
	startTime := time.Now()
	go func() {
		for range time.Tick(15 * time.Second) {
			metrics.AppUptime.Set(time.Since(startTime).Seconds())
		}
	}()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load catalog")
	}
	logging.Info().
		Int("books", cat.Len()).
		Int("categories", len(cat.Categories())).
		Msg("Catalog loaded")

	store, err := vectorstore.New(cfg.VectorStore.Path, cfg.Embedding.Dimensions)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.VectorStore.Path).Msg("Failed to open vector store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing vector store")
		}
	}()

	if indexed, err := store.Count(context.Background()); err == nil {
		if indexed == 0 {
			logging.Warn().Msg("Vector index is empty; run the index command to embed the catalog")
		} else if int(indexed) < cat.Len() {
			logging.Warn().
				Int64("indexed", indexed).
				Int("catalog", cat.Len()).
				Msg("Vector index is missing some catalog books")
		}
	}

	client := embedding.NewClient(cfg.Embedding)
	embedder := embedding.NewCachedEmbedder(client,
		embeddingCacheTTLFactor*cfg.Search.CacheTTL, cfg.Search.CacheMaxEntries)

	users, err := userdata.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open user-data store")
	}
	defer func() {
		if err := users.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing user-data store")
		}
	}()

	engine := recommend.New(cat, embedder, store, cfg.Search)

	handler := api.NewHandler(engine, users, client, embedder, cfg.API)
	router := api.NewRouter(handler, cfg.API)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("Application stopped gracefully")
}
