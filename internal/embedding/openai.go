// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sethvargo/go-retry"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/shelfwise/shelfwise/internal/config"
	"github.com/shelfwise/shelfwise/internal/logging"
	"github.com/shelfwise/shelfwise/internal/metrics"
)

const breakerName = "embedding-api"

// Client calls an OpenAI-compatible embeddings endpoint.
//
// Every request passes through the rate limiter, a constant-backoff retry
// loop, and a circuit breaker. The breaker uses real time for its recovery
// windows; unit tests should exercise the HTTP path directly via httptest
// rather than waiting out breaker state transitions.
type Client struct {
	cfg        config.EmbeddingConfig
	httpClient *http.Client
	limiter    *RateLimiter
	cb         *gobreaker.CircuitBreaker[[][]float32]
}

// NewClient creates an embedding client from configuration.
// Circuit breaker settings:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
func NewClient(cfg config.EmbeddingConfig) *Client {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[[][]float32](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit to embedding API")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    NewRateLimiter(cfg.RequestsPerMinute, cfg.RequestsPerDay),
		cb:         cb,
	}
}

// Dimensions returns the configured embedding dimensionality.
func (c *Client) Dimensions() int {
	return c.cfg.Dimensions
}

// Name returns the model identifier.
func (c *Client) Name() string {
	return c.cfg.Model
}

// RateLimitStatus exposes the limiter snapshot for the status endpoint.
func (c *Client) RateLimitStatus() RateLimitStatus {
	return c.limiter.Status()
}

// BreakerState returns the circuit breaker state as a string for the
// status endpoint ("closed", "half-open", "open").
func (c *Client) BreakerState() string {
	return stateToString(c.cb.State())
}

// Embed returns the embedding for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds all texts in one API call, preserving input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			return nil, ErrEmptyInput
		}
	}

	if !c.limiter.Allow() {
		metrics.RecordEmbeddingRequest("rate_limited", 0)
		return nil, fmt.Errorf("%w: retry after %s", ErrRateLimited, c.limiter.WaitTime().Round(time.Millisecond))
	}

	start := time.Now()
	vectors, err := c.cb.Execute(func() ([][]float32, error) {
		return c.embedWithRetry(ctx, texts)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Embedding request rejected")
			return nil, ErrCircuitOpen
		}
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		metrics.RecordEmbeddingRequest("failure", 0)
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	metrics.RecordEmbeddingRequest("success", time.Since(start))
	return vectors, nil
}

// embedWithRetry retries transient failures with a constant backoff.
// 4xx responses other than 429 are permanent and fail immediately.
func (c *Client) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32
	attempt := 0

	backoff := retry.WithMaxRetries(uint64(c.cfg.MaxRetries), retry.NewConstant(c.cfg.RetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if attempt > 0 {
			metrics.EmbeddingRetries.Inc()
			logging.Debug().Int("attempt", attempt).Msg("Retrying embedding request")
		}
		attempt++

		var reqErr error
		vectors, reqErr = c.doRequest(ctx, texts)
		if reqErr == nil {
			return nil
		}
		if isRetryable(reqErr) {
			return retry.RetryableError(reqErr)
		}
		return reqErr
	})
	if err != nil {
		return nil, err
	}
	return vectors, nil
}

// embeddingRequest is the OpenAI embeddings API request body.
type embeddingRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// httpStatusError carries the response status for retry classification.
type httpStatusError struct {
	status  int
	message string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("embedding API returned %d: %s", e.status, e.message)
}

// doRequest performs a single embeddings API call.
// Each call consumes rate limit budget, including retries.
func (c *Client) doRequest(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingRequest{
		Input:      texts,
		Model:      c.cfg.Model,
		Dimensions: c.cfg.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedding request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	c.limiter.Record()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError(resp)
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embedding API returned %d vectors for %d inputs", len(parsed.Data), len(texts))
	}

	// The API may return data out of order; the index field is authoritative
	sort.Slice(parsed.Data, func(i, j int) bool {
		return parsed.Data[i].Index < parsed.Data[j].Index
	})

	vectors := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		if c.cfg.Dimensions > 0 && len(d.Embedding) != c.cfg.Dimensions {
			return nil, fmt.Errorf("embedding API returned %d dimensions, expected %d", len(d.Embedding), c.cfg.Dimensions)
		}
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

// newStatusError reads the error body and wraps the status code.
func newStatusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var parsed apiErrorResponse
	message := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Message != "" {
		message = parsed.Error.Message
	}
	return &httpStatusError{status: resp.StatusCode, message: message}
}

// isRetryable reports whether an API error is worth retrying.
// Network errors, 429, and 5xx are transient; other 4xx are permanent.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.status == http.StatusTooManyRequests || statusErr.status >= 500
	}

	// Network-level failures (connection refused, timeouts) are transient
	return true
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
