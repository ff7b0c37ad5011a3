package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// WriteError 寫入統一格式的錯誤響應
func WriteError(c *gin.Context, err error) {
	ce := AsCustomError(err)
	resp := ErrorResponse{
		Code:    ce.Code,
		Message: ce.Message,
	}
	if gin.Mode() == gin.DebugMode && ce.Err != nil {
		resp.Details = ce.Err.Error()
	}
	status := ce.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, resp)
}
