package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.DocumentStore.Backend != DocumentBackendMemory {
		t.Fatalf("expected memory document backend, got %q", cfg.DocumentStore.Backend)
	}
	if cfg.Session.Backend != SessionBackendMemory {
		t.Fatalf("expected memory session backend, got %q", cfg.Session.Backend)
	}
	if cfg.Session.TTL != 12*time.Hour {
		t.Fatalf("expected 12h ttl, got %s", cfg.Session.TTL)
	}
	if cfg.DocumentStore.RecipesCollection != "Recipes" {
		t.Fatalf("expected Recipes collection, got %q", cfg.DocumentStore.RecipesCollection)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("DOCUMENT_STORE_BACKEND", "rest")
	t.Setenv("DOCUMENT_STORE_URL", "https://docs.example.com")
	t.Setenv("APP_SESSION_TTL", "30m")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.Backend != SessionBackendRedis || cfg.Session.Redis.Addr != "cache:6380" {
		t.Fatalf("unexpected session config: %+v", cfg.Session)
	}
	if cfg.DocumentStore.Backend != DocumentBackendREST || cfg.DocumentStore.BaseURL != "https://docs.example.com" {
		t.Fatalf("unexpected document store config: %+v", cfg.DocumentStore)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %s", cfg.Session.TTL)
	}
	if cfg.RateLimit.Requests != 5 {
		t.Fatalf("expected 5 requests, got %d", cfg.RateLimit.Requests)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown session backend", map[string]string{"SESSION_BACKEND": "etcd"}, "unknown session backend"},
		{"rest without url", map[string]string{"DOCUMENT_STORE_BACKEND": "rest"}, "base url is required"},
		{"unknown document backend", map[string]string{"DOCUMENT_STORE_BACKEND": "sql"}, "unknown document store backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("short"); got != "****" {
		t.Fatalf("expected mask, got %q", got)
	}
	if got := MaskSecret("abcdefghijkl"); got != "abcd...ijkl" {
		t.Fatalf("unexpected mask %q", got)
	}
}
