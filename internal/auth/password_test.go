package auth

import (
	"encoding/base64"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"admind/internal/errs"
)

func TestPasswordHashingLifecycle(t *testing.T) {
	password := "S3curePass!"
	digest, err := HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}
	if digest == "" {
		t.Fatal("expected digest to be populated")
	}

	if err := VerifyPassword(digest, password); err != nil {
		t.Fatalf("expected password to verify, got error: %v", err)
	}

	err = VerifyPassword(digest, "wrong")
	if err == nil {
		t.Fatal("expected verification to fail for wrong password")
	}
	if !errs.Is(err, errs.KindAuthFailure) {
		t.Fatalf("expected auth failure kind, got %v", err)
	}
}

func TestVerifyPasswordLegacySaltedFormat(t *testing.T) {
	salt := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))
	password := "Passw0rd!"

	hashed, err := bcrypt.GenerateFromPassword([]byte(password+salt), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to build legacy digest: %v", err)
	}
	legacy := salt + ":" + string(hashed)

	if err := VerifyPassword(legacy, password); err != nil {
		t.Fatalf("expected legacy digest to verify, got error: %v", err)
	}
	if err := VerifyPassword(legacy, "other"); err == nil {
		t.Fatal("expected legacy verification to fail for wrong password")
	}
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	err := VerifyPassword("not-a-bcrypt-digest", "whatever")
	if err == nil {
		t.Fatal("expected error for malformed digest")
	}
	if !errs.Is(err, errs.KindInternal) {
		t.Fatalf("expected internal kind, got %v", err)
	}
}
