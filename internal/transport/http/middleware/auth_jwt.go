package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"tez-jumush/internal/core/auth"
	resp "tez-jumush/internal/transport/http/response"
)

// gin context 里的身份键。角色只作为 UI 提示，
// 权限判定一律由 service 层按数据库当前值重查。
const (
	CtxUserID = "userId"
	CtxEmail  = "email"
	CtxRole   = "role"
)

func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Unauthorized(c, "authorization token required")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Unauthorized(c, "invalid or expired token")
			return
		}
		c.Set(CtxUserID, claims.UID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}
