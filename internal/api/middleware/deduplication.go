package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-discovery/internal/pkg/common"
)

const defaultDedupWindow = time.Second

// Deduplicator 短時間內同一 session 重複送出相同 POST 請求時拒絕
type Deduplicator struct {
	mu        sync.Mutex
	requests  map[string]time.Time
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewDeduplicator 建立請求去重器
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &Deduplicator{
		requests: make(map[string]time.Time),
		window:   window,
		now:      time.Now,
	}
}

// seen 記錄指紋，window 內重複出現時回傳 true
func (d *Deduplicator) seen(fingerprint string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.sweep(now)

	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// sweep 定期清除過舊的指紋，呼叫端需持有鎖
func (d *Deduplicator) sweep(now time.Time) {
	if now.Sub(d.lastSweep) < 10*d.window {
		return
	}
	for k, t := range d.requests {
		if now.Sub(t) > d.window {
			delete(d.requests, k)
		}
	}
	d.lastSweep = now
}

// Middleware 請求去重中間件，只處理 POST
func (d *Deduplicator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				common.WriteError(c, common.ErrRequestTooLarge.Wrap(err))
				return
			}
			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		fingerprint := SessionID(c) + ":" + c.Request.URL.Path + ":" + bodyHash
		if d.seen(fingerprint) {
			common.LogDebug("重複請求已拒絕",
				zap.String("path", c.Request.URL.Path),
				zap.String("session_id", SessionID(c)),
			)
			common.WriteError(c, common.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}
