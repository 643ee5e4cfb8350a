package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "tez-jumush/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小。头像走 Base64 JSON，上限要放到 16MB。
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Err() != nil && !c.Writer.Written() {
			resp.BadRequest(c, "request body too large")
		}
	}
}
