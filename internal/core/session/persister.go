package session

import (
	"context"

	"go.uber.org/zap"

	"recipe-discovery/internal/metrics"
	"recipe-discovery/internal/pkg/common"
)

// stateKey 搜尋狀態在 session 中的鍵名
const stateKey = "searchState"

// 讀取結果（指標標籤）
const (
	loadHit       = "hit"
	loadMiss      = "miss"
	loadMalformed = "malformed"
	loadError     = "error"
)

// Persister 將搜尋狀態序列化後存入 Store
type Persister struct {
	store  Store
	prefix string
}

// NewPersister 建立搜尋狀態保存器，prefix 會加在每個鍵前面
func NewPersister(store Store, prefix string) *Persister {
	return &Persister{store: store, prefix: prefix}
}

// Key 該 session 的搜尋狀態鍵
func (p *Persister) Key(sessionID string) string {
	return p.prefix + sessionID + ":" + stateKey
}

// Store 底層儲存
func (p *Persister) Store() Store {
	return p.store
}

// Save 保存完整搜尋狀態
func (p *Persister) Save(ctx context.Context, sessionID string, state SearchState) error {
	if sessionID == "" {
		return common.ErrMissingSession
	}

	state.normalize()
	data, err := common.ToJSON(state)
	if err != nil {
		return err
	}
	if err := p.store.Set(ctx, p.Key(sessionID), data); err != nil {
		return common.ErrSessionUnavailable.Wrap(err)
	}
	return nil
}

// Load 讀取搜尋狀態。不存在、格式錯誤或儲存無法讀取時回傳預設值，found 為 false。
func (p *Persister) Load(ctx context.Context, sessionID string) (state SearchState, found bool) {
	if sessionID == "" {
		return DefaultState(), false
	}

	key := p.Key(sessionID)
	data, ok, err := p.store.Get(ctx, key)
	if err != nil {
		metrics.RecordSessionLoad(loadError)
		common.LogWarn("讀取搜尋狀態失敗，使用預設值",
			zap.String("key", key),
			zap.Error(err),
		)
		return DefaultState(), false
	}
	if !ok {
		metrics.RecordSessionLoad(loadMiss)
		return DefaultState(), false
	}

	if err := common.ParseJSON(data, &state); err != nil {
		metrics.RecordSessionLoad(loadMalformed)
		common.LogWarn("搜尋狀態格式錯誤，使用預設值",
			zap.String("key", key),
			zap.Error(err),
		)
		return DefaultState(), false
	}

	state.normalize()
	metrics.RecordSessionLoad(loadHit)
	return state, true
}

// Clear 刪除搜尋狀態
func (p *Persister) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return common.ErrMissingSession
	}
	if err := p.store.Remove(ctx, p.Key(sessionID)); err != nil {
		return common.ErrSessionUnavailable.Wrap(err)
	}
	return nil
}
