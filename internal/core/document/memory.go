package document

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"recipe-discovery/internal/pkg/common"

	"go.uber.org/zap"
)

// Compile-time interface check.
var _ Fetcher = (*MemoryFetcher)(nil)

// MemoryFetcher 記憶體文件庫，供本地開發與測試使用
type MemoryFetcher struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

// NewMemoryFetcher 以初始資料建立記憶體文件庫
func NewMemoryFetcher(seed map[string][]Document) *MemoryFetcher {
	f := &MemoryFetcher{collections: make(map[string][]Document)}
	for name, docs := range seed {
		f.Put(name, docs...)
	}
	return f
}

// LoadSeedFile 從 JSON 檔載入初始資料，格式為 {"<collection>": [{"id": "...", "fields": {...}}]}
func LoadSeedFile(path string) (*MemoryFetcher, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer file.Close()

	var seed map[string][]Document
	if err := common.DecodeJSON(file, &seed); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	f := NewMemoryFetcher(seed)

	names := make([]string, 0, len(seed))
	for name := range seed {
		names = append(names, name)
	}
	sort.Strings(names)
	common.LogInfo("已載入文件庫初始資料",
		zap.String("path", path),
		zap.Strings("collections", names),
	)
	return f, nil
}

// Put 新增或覆寫文件
func (f *MemoryFetcher) Put(collection string, docs ...Document) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing := f.collections[collection]
	for _, doc := range docs {
		replaced := false
		for i := range existing {
			if existing[i].ID == doc.ID {
				existing[i] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, doc)
		}
	}
	f.collections[collection] = existing
}

// FetchAll 回傳集合全部文件的副本；不存在的集合回傳空列表
func (f *MemoryFetcher) FetchAll(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	docs := f.collections[collection]
	out := make([]Document, len(docs))
	copy(out, docs)
	return out, nil
}
