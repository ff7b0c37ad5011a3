package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"recipe-discovery/internal/infrastructure/config"
	"recipe-discovery/internal/pkg/common"
)

const backendMemory = "memory"

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// MemoryStore 單機記憶體儲存，條目有存活時間，超過容量時淘汰最少使用的條目
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	maxSize int
	stats   memoryStats
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type memoryEntry struct {
	value       string
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

type memoryStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewMemoryStore 建立記憶體儲存並啟動過期清理
func NewMemoryStore(cfg config.SessionConfig) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     cfg.TTL,
		maxSize: cfg.MaxSize,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go s.startCleanup(cfg.CleanupInterval)
	}

	common.LogInfo("記憶體 session 儲存已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
	)
	return s
}

// Get 讀取值；過期條目視為不存在
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		s.stats.misses++
		common.LogStoreMiss(backendMemory, key)
		return "", false, nil
	}

	now := s.now()
	if s.ttl > 0 && now.After(entry.expiresAt) {
		delete(s.entries, key)
		s.stats.evictions++
		s.stats.misses++
		common.LogStoreMiss(backendMemory, key)
		return "", false, nil
	}

	entry.lastAccess = now
	entry.accessCount++
	s.entries[key] = entry
	s.stats.hits++
	common.LogStoreHit(backendMemory, key)
	return entry.value, true, nil
}

// Set 寫入值，後寫入者為準
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && s.maxSize > 0 && len(s.entries) >= s.maxSize {
		if evicted := s.cleanup(); evicted > 0 {
			common.LogDebug("session 儲存清理執行", zap.Int("清理數量", evicted))
		}
		for len(s.entries) >= s.maxSize {
			s.evictLRU()
		}
	}

	now := s.now()
	s.entries[key] = memoryEntry{
		value:      value,
		expiresAt:  now.Add(s.ttl),
		lastAccess: now,
	}
	return nil
}

// Remove 刪除值，不存在時不視為錯誤
func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Len 目前條目數
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.cleanup()
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}

// cleanup 清理過期條目，呼叫端需持有鎖
func (s *MemoryStore) cleanup() int {
	if s.ttl <= 0 {
		return 0
	}

	now := s.now()
	count := 0
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
			count++
			s.stats.evictions++
		}
	}

	if count > 0 {
		common.LogInfo("Cleaned up expired session entries",
			zap.Int("count", count),
			zap.Int64("total_evictions", s.stats.evictions),
			zap.Int("remaining_size", len(s.entries)),
		)
	}
	return count
}

// evictLRU 淘汰存取次數最少、最久未存取的條目，呼叫端需持有鎖
func (s *MemoryStore) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range s.entries {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(s.entries, oldestKey)
		s.stats.evictions++
		common.LogDebug("session 條目已淘汰(LRU)", zap.String("鍵", oldestKey))
	}
}

// Close 停止清理並清空儲存
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]memoryEntry)
	common.LogInfo("記憶體 session 儲存已關閉",
		zap.Int64("命中次數", s.stats.hits),
		zap.Int64("未命中次數", s.stats.misses),
		zap.Int64("淘汰次數", s.stats.evictions),
	)
	return nil
}
