package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"admind/internal/errs"
)

// Claims 是访问令牌与刷新令牌共用的载荷:
// sub 为用户 ID 字符串,session_uuid 为会话标识,exp 为 Unix 秒。
type Claims struct {
	SessionUUID string `json:"session_uuid"`
	jwt.RegisteredClaims
}

// UserID 解析 sub 中的用户 ID。
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.New(errs.KindTokenInvalid, "token subject is not a user id")
	}
	return id, nil
}

// TokenCodec 负责签发和校验紧凑型 Bearer 令牌。
// 它不查询会话存储,在线状态由认证网关单独确认。
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec 创建令牌编解码器,密钥为进程级配置。
func NewTokenCodec(secret string) (*TokenCodec, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errors.New("token secret must not be empty")
	}
	return &TokenCodec{secret: []byte(trimmed)}, nil
}

// Mint 签发一枚 HS256 令牌,返回令牌串和过期时间。
func (t *TokenCodec) Mint(userID int64, sessionUUID string, ttl time.Duration) (string, time.Time, error) {
	if t == nil {
		return "", time.Time{}, errors.New("token codec is nil")
	}
	if userID <= 0 || strings.TrimSpace(sessionUUID) == "" {
		return "", time.Time{}, errors.New("invalid token subject")
	}
	now := time.Now().UTC()
	expiry := now.Add(ttl)

	claims := Claims{
		SessionUUID: sessionUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// Verify 校验令牌并返回载荷。
// 过期返回 TokenExpired 类错误,其余校验失败返回 TokenInvalid。
func (t *TokenCodec) Verify(tokenString string) (*Claims, error) {
	if t == nil {
		return nil, errors.New("token codec is nil")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.WithCode(errs.KindTokenExpired, errs.CodeTokenExpired, "token expired")
		}
		return nil, errs.WithCode(errs.KindTokenInvalid, errs.CodeTokenInvalid, "token invalid")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errs.WithCode(errs.KindTokenInvalid, errs.CodeTokenInvalid, "token claims invalid")
	}
	if strings.TrimSpace(claims.Subject) == "" || strings.TrimSpace(claims.SessionUUID) == "" {
		return nil, errs.WithCode(errs.KindTokenInvalid, errs.CodeTokenInvalid, "token payload incomplete")
	}
	return claims, nil
}
