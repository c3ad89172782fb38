package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"admind/internal/config"
)

func setupSessionTest(t *testing.T) (*SessionStore, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, config.Config{
		TokenPrefix:     "auth:token",
		TokenMetaPrefix: "auth:token_meta",
		OnlineKey:       "auth:online",
		RefreshPrefix:   "auth:refresh",
		BlacklistPrefix: "auth:blacklist",
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}
	return store, mr, cleanup
}

func sampleMeta(username string) SessionMetadata {
	return SessionMetadata{
		Username:      username,
		Nickname:      username,
		IP:            "127.0.0.1",
		OS:            "Linux",
		Browser:       "Firefox",
		Device:        "PC",
		LastLoginTime: time.Now().UTC().Truncate(time.Second),
		ExpireTime:    time.Now().UTC().Add(time.Hour).Truncate(time.Second),
	}
}

func TestRegisterAndExists(t *testing.T) {
	store, mr, cleanup := setupSessionTest(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Register(ctx, "s1", 10, time.Hour, sampleMeta("admin")); err != nil {
		t.Fatalf("unexpected error registering session: %v", err)
	}

	ok, err := store.Exists(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("expected session to exist, ok=%v err=%v", ok, err)
	}
	if !mr.Exists("auth:token:s1") {
		t.Fatal("expected token key present")
	}
	if !mr.Exists("auth:token_meta:10:s1") {
		t.Fatal("expected metadata key present")
	}
	if members, _ := mr.SMembers("auth:online"); len(members) != 1 || members[0] != "s1" {
		t.Fatalf("expected online set membership, got %v", members)
	}

	// 重复注册幂等
	if err := store.Register(ctx, "s1", 10, time.Hour, sampleMeta("admin")); err != nil {
		t.Fatalf("expected idempotent register, got %v", err)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	store, _, cleanup := setupSessionTest(t)
	defer cleanup()

	ctx := context.Background()
	want := sampleMeta("admin")
	if err := store.Register(ctx, "s1", 10, time.Hour, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Metadata(ctx, 10, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected metadata present")
	}
	if got.Username != "admin" || got.UserID != 10 || got.IP != "127.0.0.1" {
		t.Fatalf("metadata mismatch: %+v", got)
	}

	missing, err := store.Metadata(ctx, 10, "unknown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil metadata for unknown session")
	}
}

func TestInvalidateRemovesAllEntries(t *testing.T) {
	store, mr, cleanup := setupSessionTest(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Register(ctx, "s1", 10, time.Hour, sampleMeta("admin")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.RegisterRefresh(ctx, "s1", 10, 2*time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Invalidate(ctx, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists("auth:token:s1") || mr.Exists("auth:token_meta:10:s1") || mr.Exists("auth:refresh:s1") {
		t.Fatal("expected all session keys removed")
	}
	if members, _ := mr.SMembers("auth:online"); len(members) != 0 {
		t.Fatalf("expected online set emptied, got %v", members)
	}

	// 再次失效幂等
	if err := store.Invalidate(ctx, "s1"); err != nil {
		t.Fatalf("expected idempotent invalidate, got %v", err)
	}
}

func TestEnumerateWithFilter(t *testing.T) {
	store, _, cleanup := setupSessionTest(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Register(ctx, "s1", 10, time.Hour, sampleMeta("admin")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Register(ctx, "s2", 11, time.Hour, sampleMeta("alice")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := store.Enumerate(ctx, SessionFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(all))
	}

	filtered, err := store.Enumerate(ctx, SessionFilter{Username: "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].SessionUUID != "s2" {
		t.Fatalf("expected only alice's session, got %+v", filtered)
	}
}

func TestExtendProlongsTTL(t *testing.T) {
	store, mr, cleanup := setupSessionTest(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Register(ctx, "s1", 10, time.Minute, sampleMeta("admin")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Extend(ctx, 10, "s1", 2*time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(90 * time.Minute)
	ok, err := store.Exists(ctx, "s1")
	if err != nil || !ok {
		t.Fatalf("expected session alive after extension, ok=%v err=%v", ok, err)
	}

	ttl, err := store.MetaTTL(ctx, 10, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl <= 0 {
		t.Fatalf("expected positive meta TTL, got %v", ttl)
	}
}

func TestBlacklist(t *testing.T) {
	store, _, cleanup := setupSessionTest(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Blacklist(ctx, "s1", time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	banned, err := store.IsBlacklisted(ctx, "s1")
	if err != nil || !banned {
		t.Fatalf("expected session blacklisted, banned=%v err=%v", banned, err)
	}
	clear, err := store.IsBlacklisted(ctx, "s2")
	if err != nil || clear {
		t.Fatalf("expected other session not blacklisted, got banned=%v err=%v", clear, err)
	}
}

func TestSessionTTLExpiry(t *testing.T) {
	store, mr, cleanup := setupSessionTest(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Register(ctx, "s1", 10, time.Minute, sampleMeta("admin")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	ok, err := store.Exists(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected session expired by TTL")
	}
}
