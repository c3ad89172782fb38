package errs

import (
	"errors"
	"fmt"
)

// Kind 标识错误类别,HTTP 边界据此映射状态码和响应码
type Kind int

const (
	KindInternal Kind = iota
	KindBadInput
	KindAuthFailure
	KindTokenExpired
	KindTokenInvalid
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
)

// Error 携带错误类别和内部子码的领域错误。
// Msg 是面向调用方的通用提示;认证相关错误的 Msg 不得泄露失败原因。
type Error struct {
	Kind Kind
	Code int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// 内部审计子码,对齐响应体 code 字段
const (
	CodeAuthenticationFailed = 10001
	CodeLoginFailed          = 10002
	CodeTokenExpired         = 10003
	CodeTokenInvalid         = 10004
	CodeUserNotFound         = 10005
	CodeUserDisabled         = 10006
	CodePasswordError        = 10007
	CodeCaptchaError         = 10008
	CodePermissionDenied     = 20001
	CodeResourceExists       = 30001
	CodeResourceNotFound     = 30002
	CodeResourceReferenced   = 30003
	CodeDatabaseError        = 40001
	CodeKVError              = 70001
)

// New 创建一个指定类别的错误。
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// WithCode 创建带内部子码的错误。
func WithCode(kind Kind, code int, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

// Wrap 包装底层错误并赋予类别。
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// AuthFailure 返回统一口径的认证失败错误:对外一条通用消息,
// 对内保留子码用于审计。
func AuthFailure(code int) *Error {
	return &Error{Kind: KindAuthFailure, Code: code, Msg: "用户名或密码错误"}
}

// KindOf 提取错误的类别,非 *Error 一律视为 Internal。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf 提取错误的内部子码,没有则返回 0。
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// Is 判断错误是否属于指定类别。
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
