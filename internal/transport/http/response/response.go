package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tez-jumush/internal/service"
)

// ErrorBody 错误响应统一形态
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func statusOf(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindAuthentication:
		return http.StatusUnauthorized
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusBadRequest // 前端按 400 提示重复/状态冲突
	default:
		return http.StatusInternalServerError
	}
}

// Err 服务层错误按 Kind 映射到 HTTP 状态码
func Err(c *gin.Context, err error) {
	kind := service.KindOf(err)
	msg := err.Error()
	if kind == service.KindInternal {
		_ = c.Error(err)
		msg = "internal server error"
	}
	c.JSON(statusOf(kind), ErrorBody{Error: msg, Kind: string(kind)})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: msg, Kind: string(service.KindValidation)})
}

func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{Error: msg, Kind: string(service.KindAuthentication)})
}

func Forbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, ErrorBody{Error: msg, Kind: string(service.KindAuthorization)})
}

func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorBody{Error: "too many requests"})
}

func Unavailable(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorBody{Error: msg})
}

func Internal(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{Error: msg})
}
