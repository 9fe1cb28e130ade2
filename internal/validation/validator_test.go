// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package validation

import (
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	// Test that GetValidator returns the same instance
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// searchParams mirrors the validation tags used by the search endpoint.
type searchParams struct {
	Query       string `validate:"required,max=1000"`
	Tone        string `validate:"omitempty,oneof=All Happy Surprising Angry Suspenseful Sad"`
	InitialTopK int    `validate:"min=1,max=500"`
	FinalTopK   int    `validate:"min=1,max=100"`
}

func TestValidateStruct_Valid(t *testing.T) {
	req := searchParams{
		Query:       "a story about forgiveness",
		Tone:        "Happy",
		InitialTopK: 50,
		FinalTopK:   16,
	}

	if err := ValidateStruct(&req); err != nil {
		t.Errorf("Expected valid struct, got: %v", err)
	}
}

func TestValidateStruct_MissingQuery(t *testing.T) {
	req := searchParams{InitialTopK: 50, FinalTopK: 16}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("Expected validation error for missing query")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR code, got %s", apiErr.Code)
	}
	if apiErr.Details["field"] != "Query" {
		t.Errorf("Expected Query field in details, got %v", apiErr.Details["field"])
	}
}

func TestValidateStruct_BadTone(t *testing.T) {
	req := searchParams{
		Query:       "dragons",
		Tone:        "Melancholy",
		InitialTopK: 50,
		FinalTopK:   16,
	}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("Expected validation error for unknown tone")
	}

	errs := err.Errors()
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errs))
	}
	if errs[0].Tag() != "oneof" {
		t.Errorf("Expected oneof tag, got %s", errs[0].Tag())
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	req := searchParams{
		Query:       "",
		InitialTopK: 0,
		FinalTopK:   500,
	}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("Expected validation errors")
	}
	if len(err.Errors()) < 3 {
		t.Errorf("Expected at least 3 errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Expected fields list in multi-error details")
	}
}

func TestValidateStruct_ISBN13(t *testing.T) {
	type favoriteParams struct {
		ISBN13 string `validate:"required,isbn13"`
	}

	if err := ValidateStruct(&favoriteParams{ISBN13: "9780141439600"}); err != nil {
		t.Errorf("Expected valid ISBN-13, got: %v", err)
	}

	err := ValidateStruct(&favoriteParams{ISBN13: "not-an-isbn"})
	if err == nil {
		t.Fatal("Expected validation error for bad ISBN-13")
	}
}
