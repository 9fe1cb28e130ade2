// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package recommend

import "strings"

// Request is a recommendation search request. Zero values for the
// optional fields are filled in by Normalize before the pipeline runs.
type Request struct {
	Query       string `json:"query" validate:"required,max=1000"`
	Category    string `json:"category" validate:"omitempty,max=100"`
	Tone        string `json:"tone" validate:"omitempty,oneof=All Happy Surprising Angry Suspenseful Sad"`
	InitialTopK int    `json:"initial_top_k" validate:"omitempty,min=1,max=500"`
	FinalTopK   int    `json:"final_top_k" validate:"omitempty,min=1,max=100"`
}

// Normalize trims the query, applies facet and top-k defaults, and
// clamps final_top_k to initial_top_k. Equivalent requests normalize to
// identical values, which keeps cache keys stable.
func (r *Request) Normalize(defaultInitialTopK, defaultFinalTopK int) {
	r.Query = strings.TrimSpace(r.Query)

	if r.Category == "" {
		r.Category = "All"
	}
	if r.Tone == "" {
		r.Tone = "All"
	}
	if r.InitialTopK <= 0 {
		r.InitialTopK = defaultInitialTopK
	}
	if r.FinalTopK <= 0 {
		r.FinalTopK = defaultFinalTopK
	}
	if r.FinalTopK > r.InitialTopK {
		r.FinalTopK = r.InitialTopK
	}
}

// toneEmotions maps user-facing tone facets to emotion score fields.
var toneEmotions = map[string]string{
	"Happy":       "joy",
	"Surprising":  "surprise",
	"Angry":       "anger",
	"Suspenseful": "fear",
	"Sad":         "sadness",
}

// Tones returns the supported tone facets, "All" first, in the order
// shown to users.
func Tones() []string {
	return []string{"All", "Happy", "Surprising", "Angry", "Suspenseful", "Sad"}
}

// EmotionForTone resolves a tone facet to its emotion field. The second
// return is false for "All" and unknown tones, meaning no re-sort.
func EmotionForTone(tone string) (string, bool) {
	emotion, ok := toneEmotions[tone]
	return emotion, ok
}
