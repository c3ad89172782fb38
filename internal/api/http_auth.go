package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"admind/internal/auth"
	"admind/internal/entity"
	"admind/internal/errs"
	"admind/internal/kv"
)

// GetCaptcha 签发一张验证码图片,5 分钟内一次性有效
func (h *HTTPHandler) GetCaptcha(c *gin.Context) {
	id, image, err := h.captcha.Generate(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, entity.CaptchaResponse{UUID: id, Image: image, ImgType: "png"})
}

// clientFingerprint 从请求头粗提取客户端指纹
func clientFingerprint(c *gin.Context) (os, browser, device string) {
	ua := strings.ToLower(c.GetHeader("User-Agent"))
	switch {
	case strings.Contains(ua, "windows"):
		os = "Windows"
	case strings.Contains(ua, "mac os"), strings.Contains(ua, "macintosh"):
		os = "macOS"
	case strings.Contains(ua, "android"):
		os = "Android"
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"):
		os = "iOS"
	case strings.Contains(ua, "linux"):
		os = "Linux"
	default:
		os = "Unknown"
	}
	switch {
	case strings.Contains(ua, "edg/"):
		browser = "Edge"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	default:
		browser = "Unknown"
	}
	device = "PC"
	if strings.Contains(ua, "mobile") {
		device = "Mobile"
	}
	return os, browser, device
}

func (h *HTTPHandler) recordLogin(c *gin.Context, username string, status, code int, msg string) {
	os, browser, device := clientFingerprint(c)
	rec := &entity.DbLoginLog{
		Username:  username,
		IP:        c.ClientIP(),
		OS:        os,
		Browser:   browser,
		Device:    device,
		Status:    status,
		Code:      code,
		Msg:       msg,
		LoginTime: time.Now(),
	}
	if err := h.repo.CreateLoginLog(c.Request.Context(), rec); err != nil {
		logrus.WithError(err).Warn("failed to record login attempt")
	}
}

// Login 校验验证码和口令,签发访问/刷新令牌并登记会话
func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()

	if err := h.captcha.Verify(ctx, req.UUID, req.Captcha); err != nil {
		h.recordLogin(c, req.Username, 0, errs.CodeOf(err), "验证码错误")
		Fail(c, err)
		return
	}

	user, err := h.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		// 用户不存在时不区分提示
		h.recordLogin(c, req.Username, 0, errs.CodeUserNotFound, "用户不存在")
		Fail(c, errs.AuthFailure(errs.CodeAuthenticationFailed))
		return
	}
	if err := auth.VerifyPassword(user.Password, req.Password); err != nil {
		h.recordLogin(c, req.Username, 0, errs.CodeOf(err), "密码错误")
		Fail(c, errs.AuthFailure(errs.CodeAuthenticationFailed))
		return
	}
	if !user.CanAuthenticate() {
		h.recordLogin(c, req.Username, 0, errs.CodeUserDisabled, "用户已停用")
		Fail(c, errs.AuthFailure(errs.CodeUserDisabled))
		return
	}

	// 不允许多端登录的用户,新登录挤掉旧会话
	if !user.IsMultiLogin {
		if entries, err := h.sessions.Enumerate(ctx, kv.SessionFilter{Username: user.Username}); err == nil {
			for _, entry := range entries {
				if entry.Meta.UserID != user.ID {
					continue
				}
				if err := h.sessions.Invalidate(ctx, entry.SessionUUID); err != nil {
					logrus.WithError(err).Warn("failed to evict previous session")
				}
			}
		}
	}

	sessionUUID := uuid.NewString()
	accessToken, accessExpiry, err := h.codec.Mint(user.ID, sessionUUID, h.cfg.AccessTokenTTL)
	if err != nil {
		Fail(c, err)
		return
	}
	refreshToken, _, err := h.codec.Mint(user.ID, sessionUUID, h.cfg.RefreshTokenTTL)
	if err != nil {
		Fail(c, err)
		return
	}

	now := time.Now()
	os, browser, device := clientFingerprint(c)
	meta := kv.SessionMetadata{
		UserID:        user.ID,
		Username:      user.Username,
		Nickname:      user.Nickname,
		IP:            c.ClientIP(),
		OS:            os,
		Browser:       browser,
		Device:        device,
		LastLoginTime: now,
		ExpireTime:    accessExpiry,
	}
	if err := h.sessions.Register(ctx, sessionUUID, user.ID, h.cfg.AccessTokenTTL, meta); err != nil {
		Fail(c, err)
		return
	}
	if err := h.sessions.RegisterRefresh(ctx, sessionUUID, user.ID, h.cfg.RefreshTokenTTL); err != nil {
		Fail(c, err)
		return
	}

	if err := h.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		logrus.WithError(err).Warn("failed to stamp last login time")
	}
	h.recordLogin(c, user.Username, 1, 0, "登录成功")

	roles, err := h.repo.ListRolesByUser(ctx, user.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	roleCodes := make([]string, 0, len(roles))
	for _, role := range roles {
		roleCodes = append(roleCodes, role.Code)
	}

	OK(c, entity.LoginResponse{
		AccessToken:           accessToken,
		AccessTokenExpireTime: accessExpiry,
		RefreshToken:          refreshToken,
		SessionUUID:           sessionUUID,
		User:                  entity.MakeUserInfo(user, roleCodes),
	})
}

// Refresh 用刷新令牌换新的访问令牌,沿用原会话 UUID
func (h *HTTPHandler) Refresh(c *gin.Context) {
	ac := CurrentAuth(c)
	ctx := c.Request.Context()

	user, err := h.repo.GetUserByID(ctx, ac.UserID)
	if err != nil {
		Fail(c, err)
		return
	}
	if !user.CanAuthenticate() {
		Fail(c, errs.AuthFailure(errs.CodeUserDisabled))
		return
	}

	accessToken, accessExpiry, err := h.codec.Mint(user.ID, ac.SessionUUID, h.cfg.AccessTokenTTL)
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.sessions.Extend(ctx, user.ID, ac.SessionUUID, h.cfg.AccessTokenTTL); err != nil {
		Fail(c, err)
		return
	}
	// 会话在两次刷新之间可能已被踢掉并过期,重登记访问令牌键
	live, err := h.sessions.Exists(ctx, ac.SessionUUID)
	if err != nil {
		Fail(c, err)
		return
	}
	if !live {
		now := time.Now()
		os, browser, device := clientFingerprint(c)
		meta := kv.SessionMetadata{
			UserID:        user.ID,
			Username:      user.Username,
			Nickname:      user.Nickname,
			IP:            c.ClientIP(),
			OS:            os,
			Browser:       browser,
			Device:        device,
			LastLoginTime: now,
			ExpireTime:    accessExpiry,
		}
		if err := h.sessions.Register(ctx, ac.SessionUUID, user.ID, h.cfg.AccessTokenTTL, meta); err != nil {
			Fail(c, err)
			return
		}
	}

	OK(c, entity.RefreshResponse{
		AccessToken:           accessToken,
		AccessTokenExpireTime: accessExpiry,
		SessionUUID:           ac.SessionUUID,
	})
}

// Logout 注销当前会话。销毁尽力而为,KV 故障不阻塞登出。
func (h *HTTPHandler) Logout(c *gin.Context) {
	ac := CurrentAuth(c)
	ctx := c.Request.Context()

	if err := h.sessions.Invalidate(ctx, ac.SessionUUID); err != nil {
		logrus.WithError(err).Warn("failed to invalidate session on logout")
	}
	if err := h.sessions.Blacklist(ctx, ac.SessionUUID, h.cfg.RefreshTokenTTL); err != nil {
		logrus.WithError(err).Warn("failed to blacklist session on logout")
	}
	OK(c, nil)
}

// AuthCodes 返回当前用户的权限码集合
func (h *HTTPHandler) AuthCodes(c *gin.Context) {
	res, err := h.resolution(c)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, res.Codes)
}

// Me 返回当前用户信息
func (h *HTTPHandler) Me(c *gin.Context) {
	ac := CurrentAuth(c)
	ctx := c.Request.Context()

	user, err := h.repo.GetUserByID(ctx, ac.UserID)
	if err != nil {
		Fail(c, err)
		return
	}
	roles, err := h.repo.ListRolesByUser(ctx, user.ID)
	if err != nil {
		Fail(c, err)
		return
	}
	roleCodes := make([]string, 0, len(roles))
	for _, role := range roles {
		roleCodes = append(roleCodes, role.Code)
	}
	OK(c, entity.MakeUserInfo(user, roleCodes))
}
