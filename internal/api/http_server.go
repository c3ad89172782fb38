package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"admind/internal/auth"
	"admind/internal/captcha"
	"admind/internal/config"
	"admind/internal/kv"
	"admind/internal/model"
	"admind/internal/rbac"
	"admind/internal/storage"
)

// KickNotifier 通知被强制下线的用户。默认实现只记日志,
// 推送通道由部署方自行接入。
type KickNotifier interface {
	NotifyKicked(ctx context.Context, userID int64, sessionUUID string)
}

type logNotifier struct{}

func (logNotifier) NotifyKicked(_ context.Context, userID int64, sessionUUID string) {
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"session": sessionUUID,
	}).Info("session kicked")
}

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg      config.Config
	repo     model.Repository
	sessions *kv.SessionStore
	cache    *kv.Cache
	resolver *rbac.Resolver
	codec    *auth.TokenCodec
	captcha  *captcha.Issuer
	storage  storage.Storage
	notifier KickNotifier
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(
	cfg config.Config,
	repo model.Repository,
	sessions *kv.SessionStore,
	cache *kv.Cache,
	resolver *rbac.Resolver,
	codec *auth.TokenCodec,
	issuer *captcha.Issuer,
	store storage.Storage,
) *HTTPHandler {
	return &HTTPHandler{
		cfg:      cfg,
		repo:     repo,
		sessions: sessions,
		cache:    cache,
		resolver: resolver,
		codec:    codec,
		captcha:  issuer,
		storage:  store,
		notifier: logNotifier{},
	}
}

// SetKickNotifier 替换强制下线通知实现
func (h *HTTPHandler) SetKickNotifier(n KickNotifier) {
	if n != nil {
		h.notifier = n
	}
}

// RegisterRoutes 注册全部路由
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.GET("/captcha", h.GetCaptcha)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/refresh", h.AuthMiddleware(true), h.Refresh)
	authGroup.POST("/logout", h.AuthMiddleware(false), h.Logout)
	authGroup.GET("/codes", h.AuthMiddleware(false), h.AuthCodes)
	authGroup.GET("/me", h.AuthMiddleware(false), h.Me)

	protected := v1.Group("", h.AuthMiddleware(false))

	users := protected.Group("/users")
	users.GET("", h.Require("sys:user:list"), h.ListUsers)
	users.GET("/:id", h.Require("sys:user:view"), h.GetUser)
	users.POST("", h.Require("sys:user:create"), h.CreateUser)
	users.PUT("/:id", h.Require("sys:user:update"), h.UpdateUser)
	users.DELETE("/:id", h.Require("sys:user:delete"), h.DeleteUser)
	users.PUT("/:id/roles", h.Require("sys:user:update"), h.SetUserRoles)

	roles := protected.Group("/roles")
	roles.GET("", h.Require("sys:role:list"), h.ListRoles)
	roles.GET("/:id", h.Require("sys:role:view"), h.GetRole)
	roles.POST("", h.Require("sys:role:create"), h.CreateRole)
	roles.PUT("/:id", h.Require("sys:role:update"), h.UpdateRole)
	roles.DELETE("/:id", h.Require("sys:role:delete"), h.DeleteRole)
	roles.GET("/:id/menus", h.Require("sys:role:view"), h.ListRoleMenus)
	roles.PUT("/:id/menus", h.Require("sys:role:update"), h.SetRoleMenus)
	roles.GET("/:id/scopes", h.Require("sys:role:view"), h.ListRoleScopes)
	roles.PUT("/:id/scopes", h.Require("sys:role:update"), h.SetRoleScopes)

	menus := protected.Group("/menus")
	menus.GET("", h.Require("sys:menu:list"), h.ListMenus)
	menus.POST("", h.Require("sys:menu:create"), h.CreateMenu)
	menus.PUT("/:id", h.Require("sys:menu:update"), h.UpdateMenu)
	menus.DELETE("/:id", h.Require("sys:menu:delete"), h.DeleteMenu)

	depts := protected.Group("/depts")
	depts.GET("", h.Require("sys:dept:list"), h.ListDepts)
	depts.POST("", h.Require("sys:dept:create"), h.CreateDept)
	depts.PUT("/:id", h.Require("sys:dept:update"), h.UpdateDept)
	depts.DELETE("/:id", h.Require("sys:dept:delete"), h.DeleteDept)

	scopes := protected.Group("/data-scopes")
	scopes.GET("", h.Require("sys:data_scope:list"), h.ListDataScopes)
	scopes.POST("", h.Require("sys:data_scope:create"), h.CreateDataScope)
	scopes.PUT("/:id", h.Require("sys:data_scope:update"), h.UpdateDataScope)
	scopes.DELETE("/:id", h.Require("sys:data_scope:delete"), h.DeleteDataScope)
	scopes.PUT("/:id/depts", h.Require("sys:data_scope:update"), h.SetScopeDepts)
	scopes.GET("/:id/rules", h.Require("sys:data_scope:view"), h.ListScopeRules)
	scopes.PUT("/:id/rules", h.Require("sys:data_scope:update"), h.SetScopeRules)

	rules := protected.Group("/data-rules")
	rules.GET("", h.Require("sys:data_rule:list"), h.ListDataRules)
	rules.POST("", h.Require("sys:data_rule:create"), h.CreateDataRule)
	rules.PUT("/:id", h.Require("sys:data_rule:update"), h.UpdateDataRule)
	rules.DELETE("/:id", h.Require("sys:data_rule:delete"), h.DeleteDataRule)

	dicts := protected.Group("/dict-types")
	dicts.GET("", h.Require("sys:dict:list"), h.ListDictTypes)
	dicts.POST("", h.Require("sys:dict:create"), h.CreateDictType)
	dicts.PUT("/:id", h.Require("sys:dict:update"), h.UpdateDictType)
	dicts.DELETE("/:id", h.Require("sys:dict:delete"), h.DeleteDictType)

	dictData := protected.Group("/dict-data")
	dictData.GET("", h.Require("sys:dict:list"), h.ListDictData)
	dictData.GET("/type/:code", h.GetDictByType)
	dictData.POST("", h.Require("sys:dict:create"), h.CreateDictData)
	dictData.PUT("/:id", h.Require("sys:dict:update"), h.UpdateDictData)
	dictData.DELETE("/:id", h.Require("sys:dict:delete"), h.DeleteDictData)

	configs := protected.Group("/configs")
	configs.GET("", h.Require("sys:config:list"), h.ListConfigs)
	configs.GET("/key/:key", h.GetConfigValue)
	configs.POST("", h.Require("sys:config:create"), h.CreateConfig)
	configs.PUT("/:id", h.Require("sys:config:update"), h.UpdateConfig)
	configs.DELETE("/:id", h.Require("sys:config:delete"), h.DeleteConfig)

	notices := protected.Group("/notices")
	notices.GET("", h.Require("sys:notice:list"), h.ListNotices)
	notices.GET("/:id", h.Require("sys:notice:list"), h.GetNotice)
	notices.POST("", h.Require("sys:notice:create"), h.CreateNotice)
	notices.PUT("/:id", h.Require("sys:notice:update"), h.UpdateNotice)
	notices.DELETE("/:id", h.Require("sys:notice:delete"), h.DeleteNotice)

	files := protected.Group("/files")
	files.GET("", h.Require("sys:file:list"), h.ListFiles)
	files.POST("", h.Require("sys:file:upload"), h.UploadFile)
	files.DELETE("/:id", h.Require("sys:file:delete"), h.DeleteFile)

	logs := protected.Group("/login-logs")
	logs.GET("", h.Require("sys:login_log:list"), h.ListLoginLogs)
	logs.DELETE("", h.Require("sys:login_log:delete"), h.DeleteLoginLogs)

	online := protected.Group("/online")
	online.GET("", h.Require("sys:online:list"), h.ListOnlineSessions)
	online.DELETE("/:session", h.Require("sys:online:kick"), h.KickSession)
}
