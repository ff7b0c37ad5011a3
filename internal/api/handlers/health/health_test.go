package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"recipe-discovery/internal/core/session"
	"recipe-discovery/internal/infrastructure/config"
)

type downStore struct{ session.Store }

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func serve(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestReadinessCheck(t *testing.T) {
	store := session.NewMemoryStore(config.SessionConfig{})
	defer store.Close()

	if w := serve(NewHandler("test", store).ReadinessCheck); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w := serve(NewHandler("test", downStore{store}).ReadinessCheck)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "SESSION_UNAVAILABLE") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestHealthCheck(t *testing.T) {
	w := serve(NewHandler("1.2.3", nil).HealthCheck)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"version":"1.2.3"`) {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
}
