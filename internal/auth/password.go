package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"admind/internal/errs"
)

const defaultBcryptCost = bcrypt.DefaultCost

// HashPassword 对明文密码进行哈希处理。
// 摘要自描述(bcrypt 内嵌 cost 和 salt),新写入的密码不再使用历史加盐格式。
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password must not be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), defaultBcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword 验证密码是否与存储的摘要匹配。
// 兼容历史格式 "saltBase64:bcryptHash":按第一个冒号拆分,
// 将明文与盐拼接后再校验。
func VerifyPassword(digest, candidate string) error {
	if strings.TrimSpace(digest) == "" {
		return errs.New(errs.KindInternal, "stored password digest is empty")
	}

	hash := digest
	if idx := strings.Index(digest, ":"); idx > 0 {
		salt := digest[:idx]
		hash = digest[idx+1:]
		candidate = candidate + salt
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return errs.AuthFailure(errs.CodePasswordError)
	}
	return errs.Wrap(errs.KindInternal, "malformed password digest", err)
}
