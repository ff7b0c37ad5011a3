package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 身分相關標頭與 context 鍵
const (
	HeaderSessionID = "X-Session-ID"
	HeaderUserID    = "X-User-ID"

	sessionIDKey = "session_id"
	userIDKey    = "user_id"
)

// SessionOptions session cookie 設定
type SessionOptions struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Session 從 cookie 或 X-Session-ID 取得 session ID，沒有時產生新的並寫回 cookie。
// 使用者 ID 由前端的認證服務透過 X-User-ID 提供。
func Session(opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderSessionID)
		if id == "" {
			if cookie, err := c.Cookie(opts.CookieName); err == nil {
				id = cookie
			}
		}
		if !validSessionID(id) {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(opts.CookieName, id, int(opts.TTL.Seconds()), "/", "", opts.Secure, true)
		}

		c.Set(sessionIDKey, id)
		c.Set(userIDKey, strings.TrimSpace(c.GetHeader(HeaderUserID)))
		c.Header(HeaderSessionID, id)

		c.Next()
	}
}

// validSessionID 只接受 UUID 格式，避免任意字串成為儲存鍵
func validSessionID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// SessionID 目前請求的 session ID
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// UserID 目前請求的使用者 ID，未登入時為空字串
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
