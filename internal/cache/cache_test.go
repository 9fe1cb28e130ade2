// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheBasicOperations(t *testing.T) {
	c := New(1*time.Minute, 0)

	// Test Set and Get
	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	// Test non-existent key
	_, exists = c.Get("key2")
	if exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(100*time.Millisecond, 0)

	c.Set("key1", "value1")

	// Value should exist immediately
	_, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist immediately after set")
	}

	// Wait for expiration
	time.Sleep(150 * time.Millisecond)

	// Value should be expired
	_, exists = c.Get("key1")
	if exists {
		t.Error("Expected key1 to be expired")
	}
}

func TestCacheDelete(t *testing.T) {
	c := New(1*time.Minute, 0)

	c.Set("key1", "value1")
	c.Delete("key1")

	_, exists := c.Get("key1")
	if exists {
		t.Error("Expected key1 to be deleted")
	}
}

func TestCacheClear(t *testing.T) {
	c := New(1*time.Minute, 0)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")

	c.Clear()

	for _, key := range []string{"key1", "key2", "key3"} {
		_, exists := c.Get(key)
		if exists {
			t.Errorf("Expected %s to be cleared", key)
		}
	}
}

func TestCacheStats(t *testing.T) {
	c := New(1*time.Minute, 0)

	c.Set("key1", "value1")
	c.Get("key1") // hit
	c.Get("key2") // miss
	c.Get("key1") // hit

	stats := c.GetStats()

	if stats.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}
	if stats.Entries != 1 {
		t.Errorf("Expected 1 entry, got %d", stats.Entries)
	}
	if stats.TTLSeconds != 60 {
		t.Errorf("Expected ttl_seconds 60, got %v", stats.TTLSeconds)
	}

	hitRate := c.HitRate()
	expectedHitRate := 66.66666666666667 // 2/3 * 100
	if hitRate < expectedHitRate-0.01 || hitRate > expectedHitRate+0.01 {
		t.Errorf("Expected hit rate around %.2f%%, got %.2f%%", expectedHitRate, hitRate)
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c := New(1*time.Minute, 0)

	// Set with short TTL
	c.SetWithTTL("key1", "value1", 100*time.Millisecond)

	// Should exist immediately
	_, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}

	// Wait for expiration
	time.Sleep(150 * time.Millisecond)

	// Should be expired
	_, exists = c.Get("key1")
	if exists {
		t.Error("Expected key1 to be expired")
	}
}

func TestCacheMaxEntriesEviction(t *testing.T) {
	c := New(1*time.Minute, 2)

	// First entry expires soonest, making it the eviction victim
	c.SetWithTTL("key1", "value1", 10*time.Second)
	c.SetWithTTL("key2", "value2", 30*time.Second)
	c.SetWithTTL("key3", "value3", 30*time.Second)

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be evicted at capacity")
	}
	if _, exists := c.Get("key2"); !exists {
		t.Error("Expected key2 to survive eviction")
	}
	if _, exists := c.Get("key3"); !exists {
		t.Error("Expected key3 to be stored")
	}

	stats := c.GetStats()
	if stats.Evictions != 1 {
		t.Errorf("Expected 1 eviction, got %d", stats.Evictions)
	}
}

func TestCacheOverwriteAtCapacityDoesNotEvict(t *testing.T) {
	c := New(1*time.Minute, 2)

	c.Set("key1", "value1")
	c.Set("key2", "value2")

	// Overwriting an existing key must not evict anything
	c.Set("key1", "updated")

	if _, exists := c.Get("key2"); !exists {
		t.Error("Expected key2 to survive overwrite of key1")
	}
	value, _ := c.Get("key1")
	if value != "updated" {
		t.Errorf("Expected updated value, got %v", value)
	}
}

func TestCacheGetOrCompute(t *testing.T) {
	c := New(1*time.Minute, 0)

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return "computed", nil
	}

	value, err := c.GetOrCompute("key1", compute)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if value != "computed" {
		t.Errorf("Expected computed value, got %v", value)
	}

	// Second call should hit the cache
	value, err = c.GetOrCompute("key1", compute)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if value != "computed" {
		t.Errorf("Expected cached value, got %v", value)
	}
	if calls != 1 {
		t.Errorf("Expected compute to run once, ran %d times", calls)
	}
}

func TestCacheGetOrComputeError(t *testing.T) {
	c := New(1*time.Minute, 0)

	wantErr := errors.New("upstream unavailable")
	_, err := c.GetOrCompute("key1", func() (interface{}, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected compute error to propagate, got %v", err)
	}

	// Errors must not be cached
	if _, exists := c.Get("key1"); exists {
		t.Error("Expected failed compute to leave no entry")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(1*time.Minute, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%10)
			c.Set(key, n)
			c.Get(key)
		}(i)
	}
	wg.Wait()

	stats := c.GetStats()
	if stats.Entries != 10 {
		t.Errorf("Expected 10 entries, got %d", stats.Entries)
	}
}

func TestGenerateKey(t *testing.T) {
	type TestParams struct {
		Query string
		Tone  string
	}

	params1 := TestParams{Query: "forgiveness", Tone: "Happy"}
	params2 := TestParams{Query: "forgiveness", Tone: "Happy"}
	params3 := TestParams{Query: "forgiveness", Tone: "Sad"}

	key1 := GenerateKey("search", params1)
	key2 := GenerateKey("search", params2)
	key3 := GenerateKey("search", params3)

	// Same params should generate same key
	if key1 != key2 {
		t.Error("Expected same params to generate same key")
	}

	// Different params should generate different key
	if key1 == key3 {
		t.Error("Expected different params to generate different keys")
	}

	// Different methods should generate different keys
	if GenerateKey("embed", params1) == key1 {
		t.Error("Expected method prefix to differentiate keys")
	}
}
