package captcha

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/mojocn/base64Captcha"

	"admind/internal/config"
	"admind/internal/errs"
)

// 排除易混淆字形(I O 0 1 L)
const answerCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	imageWidth  = 160
	imageHeight = 60
)

// Issuer 生成图片验证码并把答案绑定到 KV 中短期存活的 UUID 键。
// 每个验证码仅允许一次校验,无论成败都会删除。
type Issuer struct {
	client *redis.Client
	driver *base64Captcha.DriverString
	prefix string
	ttl    time.Duration
}

// NewIssuer 创建验证码签发器。
func NewIssuer(client *redis.Client, cfg config.Config) *Issuer {
	length := cfg.CaptchaLength
	if length <= 0 {
		length = 4
	}
	ttl := cfg.CaptchaTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	driver := base64Captcha.NewDriverString(
		imageHeight, imageWidth,
		2, base64Captcha.OptionShowHollowLine|base64Captcha.OptionShowSineLine,
		length, answerCharset,
		nil, nil, nil,
	)
	return &Issuer{
		client: client,
		driver: driver,
		prefix: cfg.CaptchaPrefix,
		ttl:    ttl,
	}
}

func (i *Issuer) key(id string) string {
	return i.prefix + ":" + id
}

// Generate 生成一组验证码,返回绑定键的 UUID 和 PNG 的 base64 编码。
func (i *Issuer) Generate(ctx context.Context) (string, string, error) {
	_, content, answer := i.driver.GenerateIdQuestionAnswer()
	item, err := i.driver.DrawCaptcha(content)
	if err != nil {
		return "", "", errs.Wrap(errs.KindInternal, "draw captcha", err)
	}

	id := uuid.NewString()
	if err := i.client.Set(ctx, i.key(id), strings.ToUpper(answer), i.ttl).Err(); err != nil {
		return "", "", errs.Wrap(errs.KindUnavailable, "store captcha answer", err)
	}

	encoded := item.EncodeB64string()
	encoded = strings.TrimPrefix(encoded, "data:image/png;base64,")
	return id, encoded, nil
}

// Verify 校验答案,大小写不敏感。
// 键无论校验结果如何都被消耗,一个验证码最多允许一次登录尝试。
func (i *Issuer) Verify(ctx context.Context, id, answer string) error {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(answer) == "" {
		return errs.AuthFailure(errs.CodeCaptchaError)
	}

	stored, err := i.client.GetDel(ctx, i.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return errs.AuthFailure(errs.CodeCaptchaError)
	}
	if err != nil {
		return errs.Wrap(errs.KindUnavailable, "captcha lookup failed", err)
	}

	if !strings.EqualFold(strings.TrimSpace(answer), stored) {
		return errs.AuthFailure(errs.CodeCaptchaError)
	}
	return nil
}
