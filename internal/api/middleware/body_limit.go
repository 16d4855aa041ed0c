package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-schedule/pkg/response"
)

// BodyLimit 限制请求体大小，超限时返回 413
// Content-Length 已知时直接拒绝，未知时由 MaxBytesReader 在读取阶段截断
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
