package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"admind/internal/config"
	"admind/internal/errs"
)

// 单次枚举扫描处理的最大 token 键数
const enumerateScanCap = 500

// SessionMetadata 记录一次登录的客户端指纹。
type SessionMetadata struct {
	UserID        int64     `json:"user_id"`
	Username      string    `json:"username"`
	Nickname      string    `json:"nickname"`
	IP            string    `json:"ip"`
	OS            string    `json:"os"`
	Browser       string    `json:"browser"`
	Device        string    `json:"device"`
	LastLoginTime time.Time `json:"last_login_time"`
	ExpireTime    time.Time `json:"expire_time"`
}

// SessionFilter 限定在线会话枚举结果。
type SessionFilter struct {
	Username string
}

// OnlineEntry 是一次枚举返回的单个会话。
type OnlineEntry struct {
	SessionUUID string
	Meta        SessionMetadata
}

// SessionStore 在 KV 中记录活动会话:
//   - {token 前缀}:{sess} -> 用户 ID,TTL 等于访问令牌有效期
//   - 在线集合成员 sess(幂等)
//   - {meta 前缀}:{uid}:{sess} -> 指纹 JSON,同 TTL
//
// 会话只存在于 KV,登录创建、刷新续期、登出/强踢/TTL 过期销毁。
type SessionStore struct {
	client          *redis.Client
	tokenPrefix     string
	tokenMetaPrefix string
	onlineKey       string
	refreshPrefix   string
	blacklistPrefix string
}

// NewSessionStore 创建会话存储,键前缀来自配置。
func NewSessionStore(client *redis.Client, cfg config.Config) *SessionStore {
	return &SessionStore{
		client:          client,
		tokenPrefix:     cfg.TokenPrefix,
		tokenMetaPrefix: cfg.TokenMetaPrefix,
		onlineKey:       cfg.OnlineKey,
		refreshPrefix:   cfg.RefreshPrefix,
		blacklistPrefix: cfg.BlacklistPrefix,
	}
}

func (s *SessionStore) tokenKey(sessionUUID string) string {
	return fmt.Sprintf("%s:%s", s.tokenPrefix, sessionUUID)
}

func (s *SessionStore) metaKey(userID int64, sessionUUID string) string {
	return fmt.Sprintf("%s:%d:%s", s.tokenMetaPrefix, userID, sessionUUID)
}

func (s *SessionStore) refreshKey(sessionUUID string) string {
	return fmt.Sprintf("%s:%s", s.refreshPrefix, sessionUUID)
}

func (s *SessionStore) blacklistKey(sessionUUID string) string {
	return fmt.Sprintf("%s:%s", s.blacklistPrefix, sessionUUID)
}

// Register 记录新会话:token 键、在线集合成员、指纹哈希,幂等。
func (s *SessionStore) Register(ctx context.Context, sessionUUID string, userID int64, ttl time.Duration, meta SessionMetadata) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	meta.UserID = userID
	payload, err := json.Marshal(meta)
	if err != nil {
		return errs.Wrap(errs.KindInternal, "marshal session metadata", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(sessionUUID), strconv.FormatInt(userID, 10), ttl)
	pipe.SAdd(ctx, s.onlineKey, sessionUUID)
	pipe.Set(ctx, s.metaKey(userID, sessionUUID), payload, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errs.Wrap(errs.KindUnavailable, "register session failed", err)
	}
	return nil
}

// RegisterRefresh 记录刷新令牌对应的会话键。
func (s *SessionStore) RegisterRefresh(ctx context.Context, sessionUUID string, userID int64, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := s.client.Set(ctx, s.refreshKey(sessionUUID), strconv.FormatInt(userID, 10), ttl).Err()
	if err != nil {
		return errs.Wrap(errs.KindUnavailable, "register refresh failed", err)
	}
	return nil
}

// Exists 判断会话是否仍然在线。
func (s *SessionStore) Exists(ctx context.Context, sessionUUID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := s.client.Exists(ctx, s.tokenKey(sessionUUID)).Result()
	if err != nil {
		return false, errs.Wrap(errs.KindUnavailable, "session lookup failed", err)
	}
	return n > 0, nil
}

// RefreshExists 判断刷新键是否有效。
func (s *SessionStore) RefreshExists(ctx context.Context, sessionUUID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := s.client.Exists(ctx, s.refreshKey(sessionUUID)).Result()
	if err != nil {
		return false, errs.Wrap(errs.KindUnavailable, "refresh lookup failed", err)
	}
	return n > 0, nil
}

// Metadata 返回会话指纹,不存在时返回 nil。
func (s *SessionStore) Metadata(ctx context.Context, userID int64, sessionUUID string) (*SessionMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	payload, err := s.client.Get(ctx, s.metaKey(userID, sessionUUID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.KindUnavailable, "session metadata lookup failed", err)
	}

	var meta SessionMetadata
	if err := json.Unmarshal([]byte(payload), &meta); err != nil {
		// 损坏的数据直接清除
		s.client.Del(ctx, s.metaKey(userID, sessionUUID))
		return nil, errs.Wrap(errs.KindInternal, "unmarshal session metadata", err)
	}
	return &meta, nil
}

// Extend 刷新时延长会话及指纹的 TTL,会话 UUID 保持不变。
func (s *SessionStore) Extend(ctx context.Context, userID int64, sessionUUID string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.Expire(ctx, s.tokenKey(sessionUUID), ttl)
	pipe.Expire(ctx, s.metaKey(userID, sessionUUID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return errs.Wrap(errs.KindUnavailable, "extend session failed", err)
	}
	return nil
}

// Invalidate 删除会话的全部 KV 条目,幂等。
func (s *SessionStore) Invalidate(ctx context.Context, sessionUUID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// 先取 token 键得到用户 ID,才能定位指纹键
	uid, err := s.client.Get(ctx, s.tokenKey(sessionUUID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return errs.Wrap(errs.KindUnavailable, "session lookup failed", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.tokenKey(sessionUUID))
	pipe.SRem(ctx, s.onlineKey, sessionUUID)
	pipe.Del(ctx, s.refreshKey(sessionUUID))
	if uid != "" {
		if userID, parseErr := strconv.ParseInt(uid, 10, 64); parseErr == nil {
			pipe.Del(ctx, s.metaKey(userID, sessionUUID))
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errs.Wrap(errs.KindUnavailable, "invalidate session failed", err)
	}
	return nil
}

// Blacklist 将会话放入黑名单命名空间,刷新路径会拒绝黑名单中的会话。
func (s *SessionStore) Blacklist(ctx context.Context, sessionUUID string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, s.blacklistKey(sessionUUID), "1", ttl).Err(); err != nil {
		return errs.Wrap(errs.KindUnavailable, "blacklist session failed", err)
	}
	return nil
}

// IsBlacklisted 判断会话是否在黑名单中。
func (s *SessionStore) IsBlacklisted(ctx context.Context, sessionUUID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := s.client.Exists(ctx, s.blacklistKey(sessionUUID)).Result()
	if err != nil {
		return false, errs.Wrap(errs.KindUnavailable, "blacklist lookup failed", err)
	}
	return n > 0, nil
}

// Enumerate 用游标扫描 token 键枚举在线会话,单次调用最多处理
// enumerateScanCap 个键。结果按需要用用户名过滤。
func (s *SessionStore) Enumerate(ctx context.Context, filter SessionFilter) ([]OnlineEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pattern := s.tokenPrefix + ":*"
	entries := make([]OnlineEntry, 0)
	scanned := 0

	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if scanned >= enumerateScanCap {
			break
		}
		scanned++

		key := iter.Val()
		sessionUUID := strings.TrimPrefix(key, s.tokenPrefix+":")
		if sessionUUID == "" || sessionUUID == key {
			continue
		}

		uid, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, errs.Wrap(errs.KindUnavailable, "session scan failed", err)
		}
		userID, err := strconv.ParseInt(uid, 10, 64)
		if err != nil {
			continue
		}

		meta, err := s.Metadata(ctx, userID, sessionUUID)
		if err != nil || meta == nil {
			continue
		}
		if filter.Username != "" && meta.Username != filter.Username {
			continue
		}

		entries = append(entries, OnlineEntry{SessionUUID: sessionUUID, Meta: *meta})
	}
	if err := iter.Err(); err != nil {
		return nil, errs.Wrap(errs.KindUnavailable, "session scan failed", err)
	}
	return entries, nil
}

// MetaTTL 返回指纹键的剩余有效期,主要用于校验续期效果。
func (s *SessionStore) MetaTTL(ctx context.Context, userID int64, sessionUUID string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.client.TTL(ctx, s.metaKey(userID, sessionUUID)).Result()
}
