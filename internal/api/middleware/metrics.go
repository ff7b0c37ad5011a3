package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"recipe-discovery/internal/metrics"
)

// Metrics 記錄 HTTP 請求數與耗時，route 使用路由樣板避免高基數標籤
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
