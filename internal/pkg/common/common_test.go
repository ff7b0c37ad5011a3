package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]any
	if err := ParseJSON(`{"a":1}{"b":2}`, &v); err == nil {
		t.Fatal("expected error for trailing data")
	}
	if err := ParseJSON(`{"a":1}  `, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseJSONBytesStrict(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	var p payload
	if err := ParseJSONBytesStrict([]byte(`{"name":"x","extra":true}`), &p); err == nil {
		t.Fatal("expected error for unknown field")
	}
	if err := ParseJSONBytes([]byte(`{"name":"x","extra":true}`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "x" {
		t.Fatalf("expected name x, got %q", p.Name)
	}
}

func TestAsCustomError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"custom", ErrRecipeNotFound, http.StatusNotFound, "RECIPE_NOT_FOUND"},
		{"wrapped custom", fmt.Errorf("load: %w", ErrInvalidSortOrder.Wrap(errors.New("bad"))), http.StatusBadRequest, "INVALID_SORT_ORDER"},
		{"validation", NewValidationError("bad input"), http.StatusBadRequest, ErrCodeInvalidRequest},
		{"plain", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := AsCustomError(tt.err)
			if ce.Status != tt.status || ce.Code != tt.code {
				t.Fatalf("expected %d/%s, got %d/%s", tt.status, tt.code, ce.Status, ce.Code)
			}
		})
	}
}

func TestCustomErrorIs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", ErrRecipeNotFound.Wrap(errors.New("missing")))
	if !errors.Is(err, ErrRecipeNotFound) {
		t.Fatal("expected errors.Is to match by code")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("different codes must not match")
	}
}

func TestFilterFieldsDropsSecrets(t *testing.T) {
	if !isSensitiveKey("document_api_key") || !isSensitiveKey("Authorization") {
		t.Fatal("expected secret keys to be filtered")
	}
	if isSensitiveKey("collection") {
		t.Fatal("collection is not a secret")
	}
}
