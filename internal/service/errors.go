package service

import "errors"

// Kind 业务错误分类，transport 层据此映射 HTTP 状态码
type Kind string

const (
	KindValidation     Kind = "validation"     // 400
	KindAuthentication Kind = "authentication" // 401
	KindAuthorization  Kind = "authorization"  // 403
	KindNotFound       Kind = "not_found"      // 404
	KindConflict       Kind = "conflict"       // 409（对外沿用旧接口的 400）
	KindInternal       Kind = "internal"       // 500
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func ValidationError(msg string) error    { return &Error{Kind: KindValidation, Msg: msg} }
func AuthenticationError(msg string) error { return &Error{Kind: KindAuthentication, Msg: msg} }
func AuthorizationError(msg string) error { return &Error{Kind: KindAuthorization, Msg: msg} }
func NotFoundError(msg string) error      { return &Error{Kind: KindNotFound, Msg: msg} }
func ConflictError(msg string) error      { return &Error{Kind: KindConflict, Msg: msg} }
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// IsKind 判断 err 是否为指定分类的业务错误
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// KindOf 未分类错误一律按 internal 处理
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
