// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package recommend

import "testing"

func TestRequestNormalize(t *testing.T) {
	req := Request{Query: "  space opera  "}
	req.Normalize(50, 16)

	if req.Query != "space opera" {
		t.Errorf("Expected trimmed query, got %q", req.Query)
	}
	if req.Category != "All" || req.Tone != "All" {
		t.Errorf("Expected All defaults, got %q/%q", req.Category, req.Tone)
	}
	if req.InitialTopK != 50 || req.FinalTopK != 16 {
		t.Errorf("Expected 50/16 defaults, got %d/%d", req.InitialTopK, req.FinalTopK)
	}
}

func TestRequestNormalizeClampsFinal(t *testing.T) {
	req := Request{Query: "q", InitialTopK: 10, FinalTopK: 40}
	req.Normalize(50, 16)

	if req.FinalTopK != 10 {
		t.Errorf("Expected final clamped to initial, got %d", req.FinalTopK)
	}
}

func TestRequestNormalizePreservesExplicit(t *testing.T) {
	req := Request{Query: "q", Category: "Fiction", Tone: "Sad", InitialTopK: 30, FinalTopK: 5}
	req.Normalize(50, 16)

	if req.Category != "Fiction" || req.Tone != "Sad" {
		t.Errorf("Explicit facets overwritten: %q/%q", req.Category, req.Tone)
	}
	if req.InitialTopK != 30 || req.FinalTopK != 5 {
		t.Errorf("Explicit top-k overwritten: %d/%d", req.InitialTopK, req.FinalTopK)
	}
}

func TestTones(t *testing.T) {
	tones := Tones()
	if len(tones) != 6 {
		t.Fatalf("Expected 6 tones, got %d", len(tones))
	}
	if tones[0] != "All" {
		t.Errorf("Expected All first, got %q", tones[0])
	}
}

func TestEmotionForTone(t *testing.T) {
	cases := map[string]string{
		"Happy":       "joy",
		"Surprising":  "surprise",
		"Angry":       "anger",
		"Suspenseful": "fear",
		"Sad":         "sadness",
	}
	for tone, want := range cases {
		got, ok := EmotionForTone(tone)
		if !ok || got != want {
			t.Errorf("EmotionForTone(%q) = %q, %v; want %q", tone, got, ok, want)
		}
	}

	if _, ok := EmotionForTone("All"); ok {
		t.Error("All should not map to an emotion")
	}
	if _, ok := EmotionForTone("Melancholy"); ok {
		t.Error("Unknown tone should not map to an emotion")
	}
}
