// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		Init(Config{Level: tt.level})
		if got := GetLevel(); got != tt.want {
			t.Errorf("Level %q: expected %v, got %v", tt.level, tt.want, got)
		}
	}

	// Restore default for other tests
	Init(DefaultConfig())
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf, Timestamp: true})
	defer Init(DefaultConfig())

	Info().Str("query", "space opera").Msg("search done")

	out := buf.String()
	if !strings.Contains(out, `"query":"space opera"`) {
		t.Errorf("Expected structured field in output: %s", out)
	}
	if !strings.Contains(out, `"message":"search done"`) {
		t.Errorf("Expected message field in output: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("should not appear")
	Info().Msg("should not appear either")
	Warn().Msg("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("Filtered levels leaked: %s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("Warn level missing: %s", out)
	}
}

func TestGenerateIDs(t *testing.T) {
	cid := GenerateCorrelationID()
	if len(cid) != 8 {
		t.Errorf("Expected 8-char correlation ID, got %q", cid)
	}

	rid := GenerateRequestID()
	if len(rid) != 36 {
		t.Errorf("Expected UUID request ID, got %q", rid)
	}
	if GenerateRequestID() == rid {
		t.Error("Request IDs should be unique")
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("Expected empty request ID, got %q", got)
	}

	ctx = ContextWithRequestID(ctx, "req-123")
	ctx = ContextWithCorrelationID(ctx, "corr-456")

	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("Expected req-123, got %q", got)
	}
	if got := CorrelationIDFromContext(ctx); got != "corr-456" {
		t.Errorf("Expected corr-456, got %q", got)
	}
}

func TestCtxAttachesIDs(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	ctx := ContextWithRequestID(context.Background(), "req-789")
	ctx = ContextWithCorrelationID(ctx, "corr-abc")

	Ctx(ctx).Info().Msg("with ids")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-789"`) {
		t.Errorf("Expected request_id in output: %s", out)
	}
	if !strings.Contains(out, `"correlation_id":"corr-abc"`) {
		t.Errorf("Expected correlation_id in output: %s", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	logger := WithComponent("recommend")
	logger.Info().Msg("component log")

	if !strings.Contains(buf.String(), `"component":"recommend"`) {
		t.Errorf("Expected component field: %s", buf.String())
	}
}
