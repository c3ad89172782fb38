package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"admind/internal/errs"
)

// 通用响应码,0 表示成功,其余按错误域划分
const (
	codeBadRequest   = 400
	codeUnauthorized = 401
	codeForbidden    = 403
	codeNotFound     = 404
	codeConflict     = 409
	codeInternal     = 500
	codeUnavailable  = 503
)

func httpStatusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindBadInput:
		return http.StatusBadRequest
	case errs.KindAuthFailure, errs.KindTokenExpired, errs.KindTokenInvalid:
		return http.StatusUnauthorized
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func envelopeCodeOf(kind errs.Kind) int {
	switch kind {
	case errs.KindBadInput:
		return codeBadRequest
	case errs.KindAuthFailure, errs.KindTokenExpired, errs.KindTokenInvalid:
		return codeUnauthorized
	case errs.KindForbidden:
		return codeForbidden
	case errs.KindNotFound:
		return codeNotFound
	case errs.KindConflict:
		return codeConflict
	case errs.KindUnavailable:
		return codeUnavailable
	default:
		return codeInternal
	}
}

// Fail 把领域错误映射为统一错误响应。审计子码优先于通用码。
func Fail(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	code := errs.CodeOf(err)
	if code == 0 {
		code = envelopeCodeOf(kind)
	}

	msg := "服务器内部错误"
	if kind != errs.KindInternal {
		msg = err.Error()
	} else {
		logrus.WithError(err).Error("internal error while handling request")
	}

	c.JSON(httpStatusOf(kind), Envelope{Code: code, Msg: msg, Data: nil})
}

// FailStatus 以给定错误种类返回一条固定文案。
func FailStatus(c *gin.Context, kind errs.Kind, msg string) {
	c.JSON(httpStatusOf(kind), Envelope{Code: envelopeCodeOf(kind), Msg: msg, Data: nil})
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	FailStatus(c, errs.KindBadInput, "无效的请求参数")
}
