// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/shelfwise/shelfwise/internal/config"
)

func testConfig(baseURL string) config.EmbeddingConfig {
	return config.EmbeddingConfig{
		BaseURL:           baseURL,
		APIKey:            "sk-test",
		Model:             "text-embedding-3-small",
		Dimensions:        4,
		MaxRetries:        3,
		RetryDelay:        time.Millisecond,
		RequestsPerMinute: 1000,
		RequestsPerDay:    10000,
		Timeout:           5 * time.Second,
	}
}

// embeddingServer returns a fixed 4-dim vector per input, tagged with
// the input's index so tests can verify ordering.
func embeddingServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		resp := embeddingResponse{Model: req.Model}
		// Return in reverse order; the client must re-sort by index
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, struct {
				Index     int       `json:"index"`
				Embedding []float32 `json:"embedding"`
			}{Index: i, Embedding: []float32{float32(i), 0, 0, 1}})
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestClientEmbed(t *testing.T) {
	srv := embeddingServer(t)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	vec, err := client.Embed(context.Background(), "a cozy mystery in a seaside town")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != 4 {
		t.Errorf("Expected 4-dim vector, got %d", len(vec))
	}
}

func TestClientEmbedBatchOrder(t *testing.T) {
	srv := embeddingServer(t)
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	vectors, err := client.EmbedBatch(context.Background(), []string{"first", "second", "third"})
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("Expected 3 vectors, got %d", len(vectors))
	}
	for i, vec := range vectors {
		if vec[0] != float32(i) {
			t.Errorf("Vector %d out of order: marker %v", i, vec[0])
		}
	}
}

func TestClientEmptyInput(t *testing.T) {
	client := NewClient(testConfig("http://localhost:0"))

	if _, err := client.Embed(context.Background(), "   "); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
	if _, err := client.EmbedBatch(context.Background(), nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput for nil batch, got %v", err)
	}
}

func TestClientRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":{"message":"upstream hiccup"}}`)
			return
		}
		json.NewEncoder(w).Encode(embeddingResponse{
			Data: []struct {
				Index     int       `json:"index"`
				Embedding []float32 `json:"embedding"`
			}{{Index: 0, Embedding: []float32{1, 2, 3, 4}}},
		})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	vec, err := client.Embed(context.Background(), "retry me")
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if len(vec) != 4 {
		t.Errorf("Expected 4-dim vector, got %d", len(vec))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("Expected 3 attempts (2 failures + success), got %d", got)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"invalid model"}}`)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	_, err := client.Embed(context.Background(), "bad request")
	if err == nil {
		t.Fatal("Expected error for 400 response")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("Expected exactly 1 attempt for permanent error, got %d", got)
	}
}

func TestClientRateLimited(t *testing.T) {
	srv := embeddingServer(t)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.RequestsPerMinute = 1
	client := NewClient(cfg)

	if _, err := client.Embed(context.Background(), "first"); err != nil {
		t.Fatalf("First request should succeed: %v", err)
	}
	if _, err := client.Embed(context.Background(), "second"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("Expected ErrRateLimited, got %v", err)
	}
}

func TestClientDimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingResponse{
			Data: []struct {
				Index     int       `json:"index"`
				Embedding []float32 `json:"embedding"`
			}{{Index: 0, Embedding: []float32{1, 2}}},
		})
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	if _, err := client.Embed(context.Background(), "wrong dims"); err == nil {
		t.Error("Expected error for dimension mismatch")
	}
}
