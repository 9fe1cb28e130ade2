// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/search", "200"))

	RecordAPIRequest("GET", "/api/v1/search", "200", 25*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/search", "200"))
	if after != before+1 {
		t.Errorf("Expected counter to increment by 1, got %v -> %v", before, after)
	}
}

func TestRecordSearch(t *testing.T) {
	hitsBefore := testutil.ToFloat64(SearchesTotal.WithLabelValues("hit"))
	missesBefore := testutil.ToFloat64(SearchesTotal.WithLabelValues("miss"))

	RecordSearch("hit", 0, 16)
	RecordSearch("miss", 800*time.Millisecond, 16)
	RecordSearch("error", 0, 0)

	if got := testutil.ToFloat64(SearchesTotal.WithLabelValues("hit")); got != hitsBefore+1 {
		t.Errorf("Expected hit counter +1, got %v", got-hitsBefore)
	}
	if got := testutil.ToFloat64(SearchesTotal.WithLabelValues("miss")); got != missesBefore+1 {
		t.Errorf("Expected miss counter +1, got %v", got-missesBefore)
	}
}

func TestRecordDBQuery(t *testing.T) {
	errsBefore := testutil.ToFloat64(DBQueryErrors.WithLabelValues("INSERT", "favorites"))

	RecordDBQuery("SELECT", "users", 5*time.Millisecond, nil)
	RecordDBQuery("INSERT", "favorites", 10*time.Millisecond, errors.New("constraint violation"))

	errsAfter := testutil.ToFloat64(DBQueryErrors.WithLabelValues("INSERT", "favorites"))
	if errsAfter != errsBefore+1 {
		t.Errorf("Expected error counter +1, got %v", errsAfter-errsBefore)
	}
}

func TestRecordEmbeddingRequest(t *testing.T) {
	before := testutil.ToFloat64(EmbeddingRequestsTotal.WithLabelValues("rate_limited"))

	RecordEmbeddingRequest("success", 200*time.Millisecond)
	RecordEmbeddingRequest("rate_limited", 0)

	after := testutil.ToFloat64(EmbeddingRequestsTotal.WithLabelValues("rate_limited"))
	if after != before+1 {
		t.Errorf("Expected rate_limited counter +1, got %v", after-before)
	}
}

func TestUpdateEmbeddingBudgets(t *testing.T) {
	UpdateEmbeddingBudgets(42, 1000)

	if got := testutil.ToFloat64(EmbeddingRequestsThisMinute); got != 42 {
		t.Errorf("Expected minute gauge 42, got %v", got)
	}
	if got := testutil.ToFloat64(EmbeddingRequestsToday); got != 1000 {
		t.Errorf("Expected daily gauge 1000, got %v", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != base+1 {
		t.Errorf("Expected gauge +1, got %v", got-base)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != base {
		t.Errorf("Expected gauge back to base, got %v", got-base)
	}
}

func TestUpdateCacheGauges(t *testing.T) {
	UpdateCacheGauges("query", 123)

	if got := testutil.ToFloat64(CacheSize.WithLabelValues("query")); got != 123 {
		t.Errorf("Expected cache gauge 123, got %v", got)
	}
}
