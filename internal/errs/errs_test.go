package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfAndCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		code int
	}{
		{"plain error", errors.New("boom"), KindInternal, 0},
		{"typed without code", New(KindNotFound, "用户不存在"), KindNotFound, 0},
		{"typed with code", WithCode(KindConflict, CodeResourceExists, "资源已存在"), KindConflict, CodeResourceExists},
		{"auth failure", AuthFailure(CodeUserDisabled), KindAuthFailure, CodeUserDisabled},
		{"wrapped once more", fmt.Errorf("outer: %w", WithCode(KindForbidden, CodePermissionDenied, "没有操作权限")), KindForbidden, CodePermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.kind {
				t.Errorf("KindOf = %d, want %d", got, tt.kind)
			}
			if got := CodeOf(tt.err); got != tt.code {
				t.Errorf("CodeOf = %d, want %d", got, tt.code)
			}
		})
	}
}

func TestAuthFailureHidesReason(t *testing.T) {
	for _, code := range []int{CodeUserNotFound, CodePasswordError, CodeUserDisabled} {
		if msg := AuthFailure(code).Error(); msg != "用户名或密码错误" {
			t.Fatalf("auth failure leaked reason: %q", msg)
		}
	}
}

func TestWrapChains(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindUnavailable, "KV 不可用", cause)
	if !errors.Is(err, cause) {
		t.Fatal("wrapped cause lost")
	}
	if !Is(err, KindUnavailable) {
		t.Fatal("kind lost through wrap")
	}
}
