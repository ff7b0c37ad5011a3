package middleware

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"recipe-discovery/internal/pkg/common"
)

// RateLimiter 令牌桶限流器：window 內最多 requests 次
type RateLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter 創建新的限流器
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	limit := rate.Limit(float64(requests) / window.Seconds())
	return &RateLimiter{
		limiter:  rate.NewLimiter(limit, requests),
		lastSeen: time.Now(),
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow() bool {
	return rl.allowAt(time.Now())
}

func (rl *RateLimiter) allowAt(now time.Time) bool {
	return rl.limiter.AllowN(now, 1)
}

// clientLimiters 每個用戶端 IP 各自一個令牌桶，閒置超過 idle 的條目會被移除
type clientLimiters struct {
	mu        sync.Mutex
	limiters  map[string]*RateLimiter
	requests  int
	window    time.Duration
	idle      time.Duration
	lastSweep time.Time
}

func (l *clientLimiters) get(key string, now time.Time) *RateLimiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.idle {
		for k, rl := range l.limiters {
			if now.Sub(rl.lastSeen) > l.idle {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}

	rl, ok := l.limiters[key]
	if !ok {
		rl = NewRateLimiter(l.requests, l.window)
		l.limiters[key] = rl
	}
	rl.lastSeen = now
	return rl
}

// RateLimit 限流中間件，依用戶端 IP 計算
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	clients := &clientLimiters{
		limiters:  make(map[string]*RateLimiter),
		requests:  requests,
		window:    window,
		idle:      10 * window,
		lastSweep: time.Now(),
	}

	return func(c *gin.Context) {
		if !clients.get(c.ClientIP(), time.Now()).Allow() {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(window.Seconds()))))
			common.WriteError(c, common.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}
