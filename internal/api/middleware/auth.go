package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"smart-schedule/pkg/jwt"
	"smart-schedule/pkg/response"
)

// 上下文键，Handler 通过 c.Get 读取
const (
	CtxUserID     = "user_id"
	CtxRole       = "role"
	CtxDepartment = "department"
)

// JWTAuth 校验 Authorization: Bearer <token>，并将身份写入上下文
// 令牌由外部身份系统或 cmd/token 签发，本服务只做校验
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, 10002, "缺少或无效的认证头")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}
		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxDepartment, claims.Department)

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// RoleAuth 仅允许指定角色访问，需挂在 JWTAuth 之后
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if role == "" {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, 10003, "无权限访问")
			c.Abort()
			return
		}
		c.Next()
	}
}
