// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package models

import (
	"strings"
)

// PlaceholderThumbnail is served when a book has no cover image.
const PlaceholderThumbnail = "assets/cover-not-found.jpg"

// DefaultDescriptionWords caps the description shown on result cards.
const DefaultDescriptionWords = 30

// EmotionScores holds the per-book emotion classification in [0,1].
// Scores come from the catalog pipeline that classified each description;
// they are static per edition.
type EmotionScores struct {
	Joy      float64 `json:"joy"`
	Surprise float64 `json:"surprise"`
	Anger    float64 `json:"anger"`
	Fear     float64 `json:"fear"`
	Sadness  float64 `json:"sadness"`
}

// Score returns the score for the named emotion, or 0 for unknown names.
func (e EmotionScores) Score(emotion string) float64 {
	switch emotion {
	case "joy":
		return e.Joy
	case "surprise":
		return e.Surprise
	case "anger":
		return e.Anger
	case "fear":
		return e.Fear
	case "sadness":
		return e.Sadness
	default:
		return 0
	}
}

// Book is a single catalog entry keyed by ISBN13.
type Book struct {
	ISBN13      string        `json:"isbn13"`
	Title       string        `json:"title"`
	Authors     []string      `json:"authors"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Thumbnail   string        `json:"thumbnail"`
	Emotions    EmotionScores `json:"emotions"`
}

// FormatAuthors renders the author list for display:
// "A", "A and B", "A, B and C".
func (b *Book) FormatAuthors() string {
	switch len(b.Authors) {
	case 0:
		return ""
	case 1:
		return b.Authors[0]
	case 2:
		return b.Authors[0] + " and " + b.Authors[1]
	default:
		return strings.Join(b.Authors[:len(b.Authors)-1], ", ") +
			" and " + b.Authors[len(b.Authors)-1]
	}
}

// TruncateDescription returns the description capped at maxWords words,
// with an ellipsis appended when truncated. maxWords <= 0 uses the default.
func (b *Book) TruncateDescription(maxWords int) string {
	if maxWords <= 0 {
		maxWords = DefaultDescriptionWords
	}
	words := strings.Fields(b.Description)
	if len(words) <= maxWords {
		return b.Description
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// PreparedThumbnail returns a display-ready cover URL. Google Books
// thumbnails get a width hint appended; missing covers fall back to the
// placeholder asset.
func (b *Book) PreparedThumbnail() string {
	if strings.TrimSpace(b.Thumbnail) == "" {
		return PlaceholderThumbnail
	}
	return b.Thumbnail + "&fife=w800"
}

// Recommendation is a search hit enriched for presentation.
type Recommendation struct {
	ISBN13      string        `json:"isbn13"`
	Title       string        `json:"title"`
	Authors     string        `json:"authors"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Thumbnail   string        `json:"thumbnail"`
	Score       float64       `json:"score"`
	Emotions    EmotionScores `json:"emotions"`
}

// NewRecommendation builds a display-ready recommendation from a catalog
// book and its similarity score.
func NewRecommendation(book *Book, score float64) Recommendation {
	return Recommendation{
		ISBN13:      book.ISBN13,
		Title:       book.Title,
		Authors:     book.FormatAuthors(),
		Description: book.TruncateDescription(DefaultDescriptionWords),
		Category:    book.Category,
		Thumbnail:   book.PreparedThumbnail(),
		Score:       score,
		Emotions:    book.Emotions,
	}
}
