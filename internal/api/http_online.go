package api

import (
	"github.com/gin-gonic/gin"

	"admind/internal/entity"
	"admind/internal/errs"
	"admind/internal/kv"
)

// ListOnlineSessions 枚举在线会话,支持按用户名过滤
func (h *HTTPHandler) ListOnlineSessions(c *gin.Context) {
	entries, err := h.sessions.Enumerate(c.Request.Context(), kv.SessionFilter{
		Username: c.Query("username"),
	})
	if err != nil {
		Fail(c, err)
		return
	}

	sessions := make([]entity.OnlineSession, 0, len(entries))
	for _, entry := range entries {
		sessions = append(sessions, entity.OnlineSession{
			SessionUUID:   entry.SessionUUID,
			UserID:        entry.Meta.UserID,
			Username:      entry.Meta.Username,
			Nickname:      entry.Meta.Nickname,
			IP:            entry.Meta.IP,
			OS:            entry.Meta.OS,
			Browser:       entry.Meta.Browser,
			Device:        entry.Meta.Device,
			LastLoginTime: entry.Meta.LastLoginTime,
			ExpireTime:    entry.Meta.ExpireTime,
		})
	}
	OK(c, sessions)
}

// KickSession 强制下线指定会话,令牌立即拉黑
func (h *HTTPHandler) KickSession(c *gin.Context) {
	sessionUUID := c.Param("session")
	if sessionUUID == "" {
		InvalidPayload(c)
		return
	}
	ac := CurrentAuth(c)
	if ac != nil && ac.SessionUUID == sessionUUID {
		Fail(c, errs.New(errs.KindBadInput, "不能踢出当前会话"))
		return
	}

	ctx := c.Request.Context()
	live, err := h.sessions.Exists(ctx, sessionUUID)
	if err != nil {
		Fail(c, err)
		return
	}
	if !live {
		Fail(c, errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "会话不存在"))
		return
	}

	var kickedUser int64
	entries, err := h.sessions.Enumerate(ctx, kv.SessionFilter{})
	if err == nil {
		for _, entry := range entries {
			if entry.SessionUUID == sessionUUID {
				kickedUser = entry.Meta.UserID
				break
			}
		}
	}

	if err := h.sessions.Invalidate(ctx, sessionUUID); err != nil {
		Fail(c, err)
		return
	}
	if err := h.sessions.Blacklist(ctx, sessionUUID, h.cfg.RefreshTokenTTL); err != nil {
		Fail(c, err)
		return
	}
	h.notifier.NotifyKicked(ctx, kickedUser, sessionUUID)
	OK(c, nil)
}
