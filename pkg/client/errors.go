package client

import (
	"errors"
	"fmt"
)

// APIError 服务端返回的业务错误（JSON 且状态码 4xx）。
// 这类错误直接透传，绝不触发降级。
type APIError struct {
	Status  int
	Kind    string `json:"kind"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// unavailableError 连通性/格式类失败：网络错误、超时、非 JSON 响应体、404/5xx。
// 只有这一类会触发本地镜像降级。
type unavailableError struct {
	reason string
	err    error
}

func (e *unavailableError) Error() string {
	if e.err != nil {
		return e.reason + ": " + e.err.Error()
	}
	return e.reason
}

func (e *unavailableError) Unwrap() error { return e.err }

func unavailable(reason string, err error) error {
	return &unavailableError{reason: reason, err: err}
}

// IsUnavailable 判断是否为可降级的连通性失败
func IsUnavailable(err error) bool {
	var u *unavailableError
	return errors.As(err, &u)
}
