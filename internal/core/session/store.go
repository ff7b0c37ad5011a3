package session

import (
	"context"
	"fmt"
	"io"

	"recipe-discovery/internal/infrastructure/config"
)

// Store session 範圍的 key-value 儲存
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pinger 可檢查連線狀態的儲存（readiness 使用）
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewStore 依設定建立儲存後端
func NewStore(cfg config.SessionConfig) (Store, error) {
	switch cfg.Backend {
	case config.SessionBackendMemory, "":
		return NewMemoryStore(cfg), nil
	case config.SessionBackendRedis:
		store, err := NewRedisStore(cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.SessionBackendBadger:
		store, err := OpenBadgerStore(cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

// Ping 檢查儲存是否可用；不支援 Ping 的儲存視為可用
func Ping(ctx context.Context, store Store) error {
	if p, ok := store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close 關閉儲存（如果支援）
func Close(store Store) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
