package recipe

import (
	"errors"
	"reflect"
	"testing"

	"recipe-discovery/internal/pkg/common"
)

func names(recipes []Recipe) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.DisplayName()
	}
	return out
}

func TestSortShortestTimeTieBreak(t *testing.T) {
	recipes := []Recipe{
		{ID: "A", Time: intPtr(30)},
		{ID: "B", Time: intPtr(10)},
		{ID: "C", Time: intPtr(10), AvgRating: floatPtr(5)},
	}
	got := names(SortRecipes(recipes, SortShortestTime))
	if !reflect.DeepEqual(got, []string{"C", "B", "A"}) {
		t.Fatalf("unexpected order: %v", got)
	}
	if recipes[0].ID != "A" {
		t.Fatal("input must not be mutated")
	}
}

func TestSortTopRated(t *testing.T) {
	recipes := []Recipe{
		{ID: "Carrot Cake", AvgRating: floatPtr(4.5)},
		{ID: "Toast"},
		{ID: "Banana Bread", AvgRating: floatPtr(4.8)},
		{ID: "Apple Pie", AvgRating: floatPtr(4.5)},
	}
	got := names(SortRecipes(recipes, SortTopRated))
	want := []string{"Banana Bread", "Apple Pie", "Carrot Cake", "Toast"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestSortAlphabeticalIsLocaleAware(t *testing.T) {
	recipes := []Recipe{
		{ID: "zucchini bread"},
		{ID: "Éclair"},
		{ID: "apple pie"},
		{ID: "Banana Bread"},
	}
	got := names(SortRecipes(recipes, SortAlphabetical))
	want := []string{"apple pie", "Banana Bread", "Éclair", "zucchini bread"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestSortIsIdempotent(t *testing.T) {
	recipes := []Recipe{
		{ID: "d", Time: intPtr(5), AvgRating: floatPtr(3)},
		{ID: "b", Time: intPtr(5)},
		{ID: "a", AvgRating: floatPtr(3)},
		{ID: "c", Time: intPtr(20), AvgRating: floatPtr(4)},
		{ID: "e", Time: intPtr(5), AvgRating: floatPtr(3)},
	}
	for _, order := range SortOrders {
		t.Run(string(order), func(t *testing.T) {
			once := SortRecipes(recipes, order)
			twice := SortRecipes(once, order)
			if !reflect.DeepEqual(names(once), names(twice)) {
				t.Fatalf("sort not idempotent: %v vs %v", names(once), names(twice))
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		in   string
		want SortOrder
	}{
		{"", SortTopRated},
		{"Top Rated", SortTopRated},
		{"shortest_time", SortShortestTime},
		{"a to z", SortAlphabetical},
		{"A_TO_Z", SortAlphabetical},
	}
	for _, tt := range tests {
		got, err := ParseSortOrder(tt.in)
		if err != nil {
			t.Fatalf("ParseSortOrder(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseSortOrder(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	_, err := ParseSortOrder("newest")
	if !errors.Is(err, common.ErrInvalidSortOrder) {
		t.Fatalf("expected invalid sort order error, got %v", err)
	}
	if !common.IsValidationError(err) {
		t.Fatal("expected validation error in chain")
	}
	if SortShortestTime.Slug() != "shortest_time" {
		t.Fatalf("unexpected slug %q", SortShortestTime.Slug())
	}
}
