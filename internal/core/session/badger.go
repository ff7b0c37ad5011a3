package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"recipe-discovery/internal/infrastructure/config"
	"recipe-discovery/internal/pkg/common"
)

const backendBadger = "badger"

// Compile-time interface check.
var _ Store = (*BadgerStore)(nil)

// BadgerStore 以嵌入式 BadgerDB 保存搜尋狀態，重啟後仍保留
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerStore 開啟 BadgerDB
func OpenBadgerStore(cfg config.SessionConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Badger.Path)
	if cfg.Badger.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	common.LogInfo("BadgerDB session 儲存已開啟",
		zap.String("path", cfg.Badger.Path),
		zap.Bool("in_memory", cfg.Badger.InMemory),
	)
	return NewBadgerStore(db, cfg.TTL), nil
}

// NewBadgerStore 以既有資料庫建立儲存
func NewBadgerStore(db *badger.DB, ttl time.Duration) *BadgerStore {
	return &BadgerStore{db: db, ttl: ttl}
}

// Get 讀取值；過期條目由 BadgerDB 自動視為不存在
func (s *BadgerStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		common.LogStoreMiss(backendBadger, key)
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get session value: %w", err)
	}
	common.LogStoreHit(backendBadger, key)
	return string(value), true, nil
}

// Set 寫入值
func (s *BadgerStore) Set(ctx context.Context, key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), []byte(value))
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		if err := txn.SetEntry(entry); err != nil {
			return fmt.Errorf("set session value: %w", err)
		}
		return nil
	})
}

// Remove 刪除值
func (s *BadgerStore) Remove(ctx context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete session value: %w", err)
		}
		return nil
	})
}

// Ping 資料庫已關閉時回傳錯誤
func (s *BadgerStore) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger is closed")
	}
	return nil
}

// Close 關閉資料庫
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
