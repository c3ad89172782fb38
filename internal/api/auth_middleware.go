package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"admind/internal/errs"
	"admind/internal/rbac"
)

const authContextKey = "auth-context"

// AuthContext 请求上下文中的认证信息
type AuthContext struct {
	UserID      int64
	SessionUUID string

	resolution *rbac.Resolution
}

// CurrentAuth 取出当前请求的认证信息,未认证时返回 nil
func CurrentAuth(c *gin.Context) *AuthContext {
	value, ok := c.Get(authContextKey)
	if !ok {
		return nil
	}
	ac, _ := value.(*AuthContext)
	return ac
}

// extractToken 从请求头取出令牌。Bearer 前缀可选,裸令牌同样接受。
func extractToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// AuthMiddleware 认证中间件。forRefresh 为 true 时校验刷新令牌的
// KV 登记而不是访问令牌的。
func (h *HTTPHandler) AuthMiddleware(forRefresh bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			FailStatus(c, errs.KindAuthFailure, "缺少认证令牌")
			c.Abort()
			return
		}

		claims, err := h.codec.Verify(token)
		if err != nil {
			Fail(c, err)
			c.Abort()
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			Fail(c, err)
			c.Abort()
			return
		}

		ctx := c.Request.Context()

		blacklisted, err := h.sessions.IsBlacklisted(ctx, claims.SessionUUID)
		if err != nil {
			Fail(c, err)
			c.Abort()
			return
		}
		if blacklisted {
			FailStatus(c, errs.KindTokenInvalid, "会话已失效")
			c.Abort()
			return
		}

		var live bool
		if forRefresh {
			live, err = h.sessions.RefreshExists(ctx, claims.SessionUUID)
		} else {
			live, err = h.sessions.Exists(ctx, claims.SessionUUID)
		}
		if err != nil {
			Fail(c, err)
			c.Abort()
			return
		}
		if !live {
			FailStatus(c, errs.KindTokenExpired, "会话已过期,请重新登录")
			c.Abort()
			return
		}

		c.Set(authContextKey, &AuthContext{UserID: userID, SessionUUID: claims.SessionUUID})
		c.Next()
	}
}

// resolution 懒加载当前用户的权限,同一请求内只解析一次
func (h *HTTPHandler) resolution(c *gin.Context) (*rbac.Resolution, error) {
	ac := CurrentAuth(c)
	if ac == nil {
		return nil, errs.New(errs.KindAuthFailure, "未认证的请求")
	}
	if ac.resolution != nil {
		return ac.resolution, nil
	}
	res, err := h.resolver.Resolve(c.Request.Context(), ac.UserID)
	if err != nil {
		return nil, err
	}
	ac.resolution = res
	return res, nil
}

func (h *HTTPHandler) guard(c *gin.Context, check func(*rbac.Resolution) bool) {
	res, err := h.resolution(c)
	if err != nil {
		Fail(c, err)
		c.Abort()
		return
	}
	if !check(res) {
		logrus.WithFields(logrus.Fields{
			"user_id": res.UserID,
			"path":    c.Request.URL.Path,
		}).Warn("permission denied")
		c.JSON(httpStatusOf(errs.KindForbidden), Envelope{Code: errs.CodePermissionDenied, Msg: "没有操作权限"})
		c.Abort()
		return
	}
	c.Next()
}

// Require 要求指定权限码
func (h *HTTPHandler) Require(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.guard(c, func(res *rbac.Resolution) bool { return res.Has(code) })
	}
}

// RequireAny 任意一个权限码命中即可
func (h *HTTPHandler) RequireAny(codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.guard(c, func(res *rbac.Resolution) bool { return res.HasAny(codes...) })
	}
}

// RequireAll 要求全部权限码
func (h *HTTPHandler) RequireAll(codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.guard(c, func(res *rbac.Resolution) bool { return res.HasAll(codes...) })
	}
}

// scopeFilter 构建当前用户的行级过滤描述
func (h *HTTPHandler) scopeFilter(c *gin.Context) (rbac.ScopeFilter, *rbac.Resolution, error) {
	res, err := h.resolution(c)
	if err != nil {
		return rbac.ScopeFilter{}, nil, err
	}
	filter, err := h.resolver.BuildFilter(c.Request.Context(), res)
	if err != nil {
		return rbac.ScopeFilter{}, nil, err
	}
	return filter, res, nil
}

// ruleCondition 求值当前用户挂在目标模型上的数据规则
func (h *HTTPHandler) ruleCondition(c *gin.Context, res *rbac.Resolution, tableName string) (rbac.Condition, error) {
	if res.IsSuperuser || !res.FilterScopes {
		return rbac.Condition{}, nil
	}
	scopeIDs := res.ScopeIDs()
	if len(scopeIDs) == 0 {
		return rbac.Condition{}, nil
	}
	rules, err := h.repo.ListRulesByScopes(c.Request.Context(), scopeIDs)
	if err != nil {
		return rbac.Condition{}, err
	}
	return rbac.BuildCondition(tableName, rules)
}
