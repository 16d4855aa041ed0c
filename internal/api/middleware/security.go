package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders 安全响应头
// 本服务只返回 JSON 与导出文件，CSP 收紧为 default-src 'none'
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}
