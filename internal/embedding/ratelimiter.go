// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package embedding

import (
	"sync"
	"time"

	"github.com/shelfwise/shelfwise/internal/cache"
	"github.com/shelfwise/shelfwise/internal/metrics"
)

// RateLimiter enforces the embedding API budgets: a sliding per-minute
// window and a daily quota that resets at midnight UTC.
//
// The per-minute window uses a bucketed sliding counter so a burst at
// second 59 still counts against the next minute. The daily counter is a
// plain tally reset on day rollover, matching how API providers bill.
type RateLimiter struct {
	mu sync.Mutex

	minute    *cache.SlidingWindowCounter
	perMinute int64

	daily    int64
	perDay   int64
	dayStart time.Time // midnight UTC of the current accounting day
}

// RateLimitStatus is a point-in-time snapshot of budget consumption,
// served by the embeddings status endpoint.
type RateLimitStatus struct {
	RequestsThisMinute int64     `json:"requests_this_minute"`
	MinuteLimit        int64     `json:"minute_limit"`
	RequestsToday      int64     `json:"requests_today"`
	DailyLimit         int64     `json:"daily_limit"`
	DailyResetAt       time.Time `json:"daily_reset_at"`
}

// NewRateLimiter creates a limiter with the given budgets.
// Non-positive limits disable the corresponding check.
func NewRateLimiter(requestsPerMinute, requestsPerDay int) *RateLimiter {
	return &RateLimiter{
		minute:    cache.NewSlidingWindowCounter(time.Minute, 60),
		perMinute: int64(requestsPerMinute),
		perDay:    int64(requestsPerDay),
		dayStart:  midnightUTC(time.Now()),
	}
}

// Allow reports whether a request may proceed under both budgets.
// It does not consume budget; call Record after the request is sent.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.rolloverLocked()

	if rl.perMinute > 0 && rl.minute.Count() >= rl.perMinute {
		return false
	}
	if rl.perDay > 0 && rl.daily >= rl.perDay {
		return false
	}
	return true
}

// Record consumes one request from both budgets.
func (rl *RateLimiter) Record() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.rolloverLocked()
	rl.minute.IncrementOne()
	rl.daily++

	metrics.UpdateEmbeddingBudgets(rl.minute.Count(), rl.daily)
}

// WaitTime returns how long a caller should wait before retrying when
// Allow returned false. Zero means the request may proceed now.
func (rl *RateLimiter) WaitTime() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.rolloverLocked()

	if rl.perDay > 0 && rl.daily >= rl.perDay {
		return time.Until(rl.dayStart.Add(24 * time.Hour))
	}
	if rl.perMinute > 0 && rl.minute.Count() >= rl.perMinute {
		// The oldest bucket expires after at most one bucket interval
		return rl.minute.BucketSize()
	}
	return 0
}

// Status returns a snapshot of current budget consumption.
func (rl *RateLimiter) Status() RateLimitStatus {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.rolloverLocked()

	return RateLimitStatus{
		RequestsThisMinute: rl.minute.Count(),
		MinuteLimit:        rl.perMinute,
		RequestsToday:      rl.daily,
		DailyLimit:         rl.perDay,
		DailyResetAt:       rl.dayStart.Add(24 * time.Hour),
	}
}

// rolloverLocked resets the daily counter when the UTC day has changed.
// Must be called with the mutex held.
func (rl *RateLimiter) rolloverLocked() {
	now := time.Now()
	if now.Sub(rl.dayStart) >= 24*time.Hour {
		rl.daily = 0
		rl.dayStart = midnightUTC(now)
	}
}

func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
