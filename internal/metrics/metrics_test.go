package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSearchOutcome(t *testing.T) {
	tests := []struct {
		name        string
		hasSearched bool
		matched     int
		outcome     string
	}{
		{"unfiltered", false, 3, "unfiltered"},
		{"empty", true, 0, "empty"},
		{"matched", true, 2, "matched"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := SearchesTotal.WithLabelValues("manual", tt.outcome)
			before := testutil.ToFloat64(counter)
			RecordSearch("manual", tt.hasSearched, tt.matched)
			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Fatalf("expected %s counter to increase by 1, got %v -> %v", tt.outcome, before, got)
			}
		})
	}
}

func TestRecordDocumentFetchCountsErrors(t *testing.T) {
	counter := DocumentFetchErrors.WithLabelValues("Recipes")
	before := testutil.ToFloat64(counter)

	RecordDocumentFetch("Recipes", time.Millisecond, nil)
	if got := testutil.ToFloat64(counter); got != before {
		t.Fatalf("successful fetch must not count as error")
	}

	RecordDocumentFetch("Recipes", time.Millisecond, errors.New("unreachable"))
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Fatalf("expected error counter to increase")
	}
}
