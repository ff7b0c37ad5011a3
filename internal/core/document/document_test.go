package document

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"recipe-discovery/internal/infrastructure/config"
	"recipe-discovery/internal/pkg/common"
)

func restConfig(baseURL string) config.DocumentStoreConfig {
	return config.DocumentStoreConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
		Breaker: config.BreakerConfig{
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			FailureThreshold: 2,
		},
	}
}

func TestRESTFetcherFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer token, got %q", got)
		}
		switch r.URL.EscapedPath() {
		case "/v1/collections/Recipes/documents":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"documents":[{"id":"Pad Thai","fields":{"time":20,"ingredientTags":["noodles"]}}]}`))
		case "/v1/collections/Recipes/Pad%20Thai/reviews/documents":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"documents":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewRESTFetcher(restConfig(srv.URL))
	ctx := context.Background()

	docs, err := f.FetchAll(ctx, "Recipes")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "Pad Thai" {
		t.Fatalf("unexpected documents: %+v", docs)
	}
	if _, ok := docs[0].Fields["ingredientTags"]; !ok {
		t.Fatal("expected ingredientTags field")
	}

	reviews, err := f.FetchAll(ctx, SubCollection("Recipes", "Pad Thai", "reviews"))
	if err != nil {
		t.Fatalf("fetch reviews: %v", err)
	}
	if len(reviews) != 0 {
		t.Fatalf("expected no reviews, got %d", len(reviews))
	}

	missing, err := f.FetchAll(ctx, "Unknown")
	if err != nil {
		t.Fatalf("missing collection should not fail: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("expected empty collection, got %d", len(missing))
	}
}

func TestRESTFetcherBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewRESTFetcher(restConfig(srv.URL))
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := f.FetchAll(ctx, "Recipes")
		if err == nil {
			t.Fatalf("call %d: expected error", i)
		}
		if !errors.Is(err, common.ErrDocumentStore) {
			t.Fatalf("call %d: expected document store error, got %v", i, err)
		}
	}

	// 兩次失敗後斷路器開啟，之後的請求不會送出
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", got)
	}
}

func TestRESTFetcherRejectsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"documents": [`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(restConfig(srv.URL))
	if _, err := f.FetchAll(context.Background(), "Recipes"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMemoryFetcher(t *testing.T) {
	f := NewMemoryFetcher(map[string][]Document{
		"Recipes": {{ID: "a"}, {ID: "b"}},
	})
	ctx := context.Background()

	f.Put("Recipes", Document{ID: "a", Fields: map[string]any{"time": 5}}, Document{ID: "c"})

	docs, err := f.FetchAll(ctx, "Recipes")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	if docs[0].Fields["time"] != 5 {
		t.Fatalf("expected document a to be replaced, got %+v", docs[0])
	}

	empty, err := f.FetchAll(ctx, "users")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty collection, got %v, %v", empty, err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := f.FetchAll(cancelled, "Recipes"); err == nil {
		t.Fatal("expected context error")
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	data := `{"Recipes":[{"id":"Omelette","fields":{"time":10,"dietTags":["vegetarian"]}}],"users":[]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	f, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	docs, _ := f.FetchAll(context.Background(), "Recipes")
	if len(docs) != 1 || docs[0].ID != "Omelette" {
		t.Fatalf("unexpected documents: %+v", docs)
	}

	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing seed file")
	}
}
