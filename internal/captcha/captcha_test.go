package captcha

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"admind/internal/config"
	"admind/internal/errs"
)

func setupIssuerTest(t *testing.T) (*Issuer, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	issuer := NewIssuer(client, config.Config{
		CaptchaPrefix: "auth:captcha",
		CaptchaLength: 4,
		CaptchaTTL:    5 * time.Minute,
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}
	return issuer, mr, cleanup
}

func TestGenerateStoresAnswer(t *testing.T) {
	issuer, mr, cleanup := setupIssuerTest(t)
	defer cleanup()

	id, image, err := issuer.Generate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" || image == "" {
		t.Fatal("expected uuid and image payload")
	}
	if strings.HasPrefix(image, "data:") {
		t.Fatal("expected raw base64 without data URI prefix")
	}

	answer, err := mr.Get("auth:captcha:" + id)
	if err != nil {
		t.Fatalf("expected stored answer: %v", err)
	}
	if len(answer) != 4 {
		t.Fatalf("expected 4-char answer, got %q", answer)
	}
	for _, ch := range answer {
		if !strings.ContainsRune(answerCharset, ch) {
			t.Fatalf("answer contains char outside charset: %q", answer)
		}
	}
}

func TestVerifyCaseInsensitiveSingleUse(t *testing.T) {
	issuer, mr, cleanup := setupIssuerTest(t)
	defer cleanup()

	ctx := context.Background()
	id, _, err := issuer.Generate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	answer, _ := mr.Get("auth:captcha:" + id)

	if err := issuer.Verify(ctx, id, strings.ToLower(answer)); err != nil {
		t.Fatalf("expected case-insensitive match, got %v", err)
	}
	if mr.Exists("auth:captcha:" + id) {
		t.Fatal("expected key consumed after successful verify")
	}

	// 第二次使用同一验证码必须失败
	if err := issuer.Verify(ctx, id, answer); err == nil {
		t.Fatal("expected second attempt to fail")
	}
}

func TestVerifyWrongAnswerConsumesKey(t *testing.T) {
	issuer, mr, cleanup := setupIssuerTest(t)
	defer cleanup()

	ctx := context.Background()
	id, _, err := issuer.Generate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = issuer.Verify(ctx, id, "ZZZZZZ")
	if err == nil {
		t.Fatal("expected wrong answer to fail")
	}
	if !errs.Is(err, errs.KindAuthFailure) {
		t.Fatalf("expected auth failure kind, got %v", err)
	}
	if mr.Exists("auth:captcha:" + id) {
		t.Fatal("expected key consumed after failed verify")
	}
}

func TestVerifyExpired(t *testing.T) {
	issuer, mr, cleanup := setupIssuerTest(t)
	defer cleanup()

	ctx := context.Background()
	id, _, err := issuer.Generate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(6 * time.Minute)
	if err := issuer.Verify(ctx, id, "ABCD"); err == nil {
		t.Fatal("expected expired captcha to fail")
	}
}
