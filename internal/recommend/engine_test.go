// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package recommend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shelfwise/shelfwise/internal/catalog"
	"github.com/shelfwise/shelfwise/internal/config"
	"github.com/shelfwise/shelfwise/internal/vectorstore"
)

const testCatalogCSV = `isbn13,title,authors,description,simple_categories,thumbnail,joy,surprise,anger,fear,sadness
9780000000001,Sunlit Meadows,Jane Doe,A warm pastoral tale of summer friendships.,Fiction,,0.9,0.1,0.0,0.1,0.1
9780000000002,The Locked Room,John Smith,A detective races to solve an impossible murder.,Fiction,,0.1,0.4,0.2,0.9,0.2
9780000000003,Grief and Growing,Maria Garcia,A memoir of loss and the slow return of hope.,Nonfiction,,0.2,0.1,0.1,0.2,0.9
9780000000004,Rocket Summer,Chen Wei,Engineers chase a launch window against all odds.,Fiction,,0.6,0.8,0.1,0.3,0.1
`

// queryEmbedder maps known query strings to fixed vectors so tests
// control which books the vector index returns.
type queryEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (q *queryEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	q.calls++
	if vec, ok := q.vectors[text]; ok {
		return vec, nil
	}
	return nil, fmt.Errorf("no fixture vector for %q", text)
}

func (q *queryEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := q.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (q *queryEmbedder) Dimensions() int { return 4 }
func (q *queryEmbedder) Name() string    { return "fixture-model" }

func newTestEngine(t *testing.T) (*Engine, *queryEmbedder) {
	t.Helper()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "books.csv")
	if err := os.WriteFile(catalogPath, []byte(testCatalogCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	store, err := vectorstore.New(filepath.Join(dir, "vectors.db"), 4)
	if err != nil {
		t.Fatalf("Failed to open vector store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	// Book vectors arranged so "happy stories" lands nearest books 1 and 4
	err = store.UpsertBatch(context.Background(), map[string][]float32{
		"9780000000001": {1, 0, 0, 0},
		"9780000000002": {0.8, 0.5, 0, 0},
		"9780000000003": {0.7, 0.6, 0.2, 0},
		"9780000000004": {0.9, 0.3, 0, 0},
	})
	if err != nil {
		t.Fatalf("Failed to seed vectors: %v", err)
	}

	embedder := &queryEmbedder{vectors: map[string][]float32{
		"happy stories": {1, 0.1, 0, 0},
	}}

	cfg := config.SearchConfig{
		InitialTopK:     50,
		FinalTopK:       16,
		CacheTTL:        time.Hour,
		CacheMaxEntries: 100,
	}
	return New(cat, embedder, store, cfg), embedder
}

func TestSearchPipeline(t *testing.T) {
	engine, _ := newTestEngine(t)

	recs, cached, err := engine.Search(context.Background(), Request{Query: "happy stories"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if cached {
		t.Error("First search should not be cached")
	}
	if len(recs) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(recs))
	}
	if recs[0].ISBN13 != "9780000000001" {
		t.Errorf("Expected closest book first, got %s", recs[0].ISBN13)
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Score > recs[i-1].Score {
			t.Error("Results not sorted by similarity")
		}
	}
}

func TestSearchCacheHit(t *testing.T) {
	engine, embedder := newTestEngine(t)
	ctx := context.Background()

	if _, _, err := engine.Search(ctx, Request{Query: "happy stories"}); err != nil {
		t.Fatal(err)
	}
	recs, cached, err := engine.Search(ctx, Request{Query: "happy stories"})
	if err != nil {
		t.Fatal(err)
	}
	if !cached {
		t.Error("Second identical search should hit the cache")
	}
	if len(recs) != 4 {
		t.Errorf("Cached result incomplete: %d", len(recs))
	}
	if embedder.calls != 1 {
		t.Errorf("Cache hit should skip embedding, got %d calls", embedder.calls)
	}

	// A trailing-space variant normalizes to the same cache key
	_, cached, _ = engine.Search(ctx, Request{Query: "  happy stories  "})
	if !cached {
		t.Error("Normalized-equivalent request should hit the cache")
	}

	stats := engine.Stats()
	if stats.Searches != 3 || stats.CacheHits != 2 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestSearchCategoryFilter(t *testing.T) {
	engine, _ := newTestEngine(t)

	recs, _, err := engine.Search(context.Background(), Request{
		Query:    "happy stories",
		Category: "Nonfiction",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].ISBN13 != "9780000000003" {
		t.Errorf("Expected only the nonfiction book, got %v", recs)
	}
}

func TestSearchToneSort(t *testing.T) {
	engine, _ := newTestEngine(t)

	recs, _, err := engine.Search(context.Background(), Request{
		Query: "happy stories",
		Tone:  "Suspenseful",
	})
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].ISBN13 != "9780000000002" {
		t.Errorf("Expected highest-fear book first, got %s", recs[0].ISBN13)
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Emotions.Fear > recs[i-1].Emotions.Fear {
			t.Error("Results not sorted by fear score")
		}
	}
}

func TestSearchFinalTopK(t *testing.T) {
	engine, _ := newTestEngine(t)

	recs, _, err := engine.Search(context.Background(), Request{
		Query:     "happy stories",
		FinalTopK: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("Expected 2 results, got %d", len(recs))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	engine, _ := newTestEngine(t)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, _, err := engine.Search(context.Background(), Request{Query: query})
		if !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("Query %q: expected ErrEmptyQuery, got %v", query, err)
		}
	}
	if engine.Stats().Errors != 3 {
		t.Error("Expected error counter to increment per blank query")
	}
}

func TestSearchEmbedFailure(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, _, err := engine.Search(context.Background(), Request{Query: "no fixture for this"})
	if err == nil {
		t.Error("Expected embedding failure to propagate")
	}
}

func TestClearCache(t *testing.T) {
	engine, embedder := newTestEngine(t)
	ctx := context.Background()

	if _, _, err := engine.Search(ctx, Request{Query: "happy stories"}); err != nil {
		t.Fatal(err)
	}
	engine.ClearCache()

	_, cached, err := engine.Search(ctx, Request{Query: "happy stories"})
	if err != nil {
		t.Fatal(err)
	}
	if cached {
		t.Error("Search after ClearCache should miss")
	}
	if embedder.calls != 2 {
		t.Errorf("Expected pipeline to rerun after clear, got %d embed calls", embedder.calls)
	}
}
