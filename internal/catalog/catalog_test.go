// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `isbn13,title,authors,description,simple_categories,thumbnail,joy,surprise,anger,fear,sadness
9780000000001,The Quiet Harbor,Jane Doe,A gentle story about a fishing village finding hope after a long winter of storms and loss at sea.,Fiction,http://books.example/1.jpg,0.8,0.1,0.05,0.1,0.3
9780000000002,Midnight Circuit,John Smith;Alice Jones,A hacker uncovers a conspiracy that reaches the highest levels of government in this fast-paced thriller.,Fiction,http://books.example/2.jpg,0.2,0.7,0.3,0.9,0.1
9780000000003,Gardens of Memory,Maria Garcia,,Nonfiction,,0.5,0.2,0.1,0.2,0.6
`

func loadSample(t *testing.T, csv string) *Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.csv")
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return c
}

func TestLoadAndGet(t *testing.T) {
	c := loadSample(t, sampleCSV)

	if c.Len() != 3 {
		t.Fatalf("Expected 3 books, got %d", c.Len())
	}

	book, ok := c.Get("9780000000002")
	if !ok {
		t.Fatal("Expected to find book by ISBN")
	}
	if book.Title != "Midnight Circuit" {
		t.Errorf("Unexpected title %q", book.Title)
	}
	if len(book.Authors) != 2 || book.Authors[1] != "Alice Jones" {
		t.Errorf("Expected semicolon-split authors, got %v", book.Authors)
	}
	if book.Emotions.Fear != 0.9 {
		t.Errorf("Expected fear 0.9, got %v", book.Emotions.Fear)
	}

	if _, ok := c.Get("9999999999999"); ok {
		t.Error("Expected miss for unknown ISBN")
	}
}

func TestCategories(t *testing.T) {
	c := loadSample(t, sampleCSV)

	cats := c.Categories()
	if len(cats) != 3 {
		t.Fatalf("Expected 3 categories, got %v", cats)
	}
	if cats[0] != "All" {
		t.Errorf("Expected All first, got %q", cats[0])
	}
	if cats[1] != "Fiction" || cats[2] != "Nonfiction" {
		t.Errorf("Expected sorted categories, got %v", cats)
	}
}

func TestLoadSkipsBadRows(t *testing.T) {
	csv := `isbn13,title,authors,description
9780000000001,Good Book,Jane Doe,A fine description.
,Missing ISBN,Nobody,Should be skipped.
9780000000001,Duplicate ISBN,Jane Doe,Also skipped.
9780000000002,Second Book,John Smith,Another description.
`
	c := loadSample(t, csv)

	if c.Len() != 2 {
		t.Errorf("Expected 2 valid books, got %d", c.Len())
	}
	if book, _ := c.Get("9780000000001"); book.Title != "Good Book" {
		t.Errorf("Expected first occurrence kept, got %q", book.Title)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	if err := os.WriteFile(path, []byte("isbn13,title\n978,Book\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "authors") {
		t.Errorf("Expected missing-column error, got %v", err)
	}
}

func TestLoadEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	header := "isbn13,title,authors,description\n"
	if err := os.WriteFile(path, []byte(header), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for catalog with no rows")
	}
}

func TestDefaultCategory(t *testing.T) {
	csv := `isbn13,title,authors,description
9780000000001,Uncategorized,Jane Doe,No category column at all.
`
	c := loadSample(t, csv)

	book, _ := c.Get("9780000000001")
	if book.Category != "Unknown" {
		t.Errorf("Expected Unknown category, got %q", book.Category)
	}
}
