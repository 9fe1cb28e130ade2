// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shelfwise/shelfwise/internal/logging"
	"github.com/shelfwise/shelfwise/internal/models"
)

// Catalog is the in-memory book catalog loaded from the enriched CSV.
// It is immutable after load and safe for concurrent reads.
type Catalog struct {
	books      []*models.Book
	byISBN     map[string]*models.Book
	categories []string
}

// Load reads the book catalog from a CSV file. The file must carry a
// header row; columns are matched by name so column order is free.
//
// Required columns: isbn13, title, authors, description.
// Optional columns: simple_categories, thumbnail, and the five emotion
// scores (joy, surprise, anger, fear, sadness).
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to open %s: %w", path, err)
	}
	defer f.Close()

	c, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to parse %s: %w", path, err)
	}

	logging.Info().
		Str("path", path).
		Int("books", len(c.books)).
		Int("categories", len(c.categories)-1).
		Msg("Catalog loaded")

	return c, nil
}

func parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are skipped below, not fatal

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("missing header row: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"isbn13", "title", "authors", "description"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	c := &Catalog{byISBN: make(map[string]*models.Book)}
	categorySet := make(map[string]struct{})
	line := 1
	skipped := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logging.Warn().Err(err).Int("line", line).Msg("Skipping malformed catalog row")
			skipped++
			continue
		}

		field := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		isbn13 := field("isbn13")
		title := field("title")
		if isbn13 == "" || title == "" {
			skipped++
			continue
		}
		if _, dup := c.byISBN[isbn13]; dup {
			logging.Warn().Str("isbn13", isbn13).Int("line", line).Msg("Duplicate ISBN in catalog, keeping first")
			skipped++
			continue
		}

		category := field("simple_categories")
		if category == "" {
			category = "Unknown"
		}

		book := &models.Book{
			ISBN13:      isbn13,
			Title:       title,
			Authors:     splitAuthors(field("authors")),
			Description: field("description"),
			Category:    category,
			Thumbnail:   field("thumbnail"),
			Emotions: models.EmotionScores{
				Joy:      parseScore(field("joy")),
				Surprise: parseScore(field("surprise")),
				Anger:    parseScore(field("anger")),
				Fear:     parseScore(field("fear")),
				Sadness:  parseScore(field("sadness")),
			},
		}

		c.books = append(c.books, book)
		c.byISBN[isbn13] = book
		categorySet[category] = struct{}{}
	}

	if len(c.books) == 0 {
		return nil, fmt.Errorf("no valid book rows")
	}
	if skipped > 0 {
		logging.Warn().Int("skipped", skipped).Msg("Some catalog rows were skipped")
	}

	// "All" first, then the distinct categories sorted
	sorted := make([]string, 0, len(categorySet))
	for cat := range categorySet {
		sorted = append(sorted, cat)
	}
	sort.Strings(sorted)
	c.categories = append([]string{"All"}, sorted...)

	return c, nil
}

// splitAuthors breaks the semicolon-separated author field apart.
func splitAuthors(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}

// parseScore reads an emotion score, treating blanks and junk as zero.
func parseScore(raw string) float64 {
	if raw == "" {
		return 0
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return score
}

// Get returns the book with the given ISBN-13.
func (c *Catalog) Get(isbn13 string) (*models.Book, bool) {
	book, ok := c.byISBN[isbn13]
	return book, ok
}

// All returns every book in file order. Callers must not mutate.
func (c *Catalog) All() []*models.Book {
	return c.books
}

// Categories returns "All" followed by the distinct categories sorted
// alphabetically.
func (c *Catalog) Categories() []string {
	return c.categories
}

// Len returns the number of books in the catalog.
func (c *Catalog) Len() int {
	return len(c.books)
}
