package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"admind/internal/auth"
	"admind/internal/captcha"
	"admind/internal/config"
	"admind/internal/entity"
	"admind/internal/errs"
	"admind/internal/kv"
	"admind/internal/model"
	modelsql "admind/internal/model/sql"
	"admind/internal/rbac"
	"admind/internal/storage"
)

var apiDBCounter int64

type testEnv struct {
	t        *testing.T
	cfg      config.Config
	mr       *miniredis.Miniredis
	repo     model.Repository
	resolver *rbac.Resolver
	router   *gin.Engine
}

type testEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	dsn := fmt.Sprintf("file:api_test_%d?mode=memory&cache=shared", atomic.AddInt64(&apiDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := model.MigrateSchema(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := modelsql.NewGormRepository(db)

	cfg := config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		TokenPrefix:     "auth:token",
		TokenMetaPrefix: "auth:token_meta",
		OnlineKey:       "auth:online",
		RefreshPrefix:   "auth:refresh",
		BlacklistPrefix: "auth:blacklist",
		CaptchaPrefix:   "auth:captcha",
		ConfigPrefix:    "cache:config",
		DictPrefix:      "cache:dict",
		PermsPrefix:     "cache:perms",
		ConfigCacheTTL:  time.Hour,
		DictCacheTTL:    time.Hour,
		PermsCacheTTL:   10 * time.Minute,
		CaptchaLength:   4,
		CaptchaTTL:      5 * time.Minute,

		StorageType:          "local",
		StorageLocalDir:      t.TempDir(),
		StoragePublicBaseURL: "/files",
	}

	codec, err := auth.NewTokenCodec(cfg.JWTSecret)
	if err != nil {
		t.Fatalf("token codec: %v", err)
	}
	store, err := storage.NewLocalStorage(cfg.StorageLocalDir)
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}

	cache := kv.NewCache(client)
	sessions := kv.NewSessionStore(client, cfg)
	issuer := captcha.NewIssuer(client, cfg)
	resolver := rbac.NewResolver(repo, cache, cfg.PermsPrefix, cfg.PermsCacheTTL)

	handler := NewHTTPHandler(cfg, repo, sessions, cache, resolver, codec, issuer, store)
	router := gin.New()
	handler.RegisterRoutes(router)

	return &testEnv{t: t, cfg: cfg, mr: mr, repo: repo, resolver: resolver, router: router}
}

func (env *testEnv) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	env.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			env.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) decode(w *httptest.ResponseRecorder) testEnvelope {
	env.t.Helper()
	var envl testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envl); err != nil {
		env.t.Fatalf("decode envelope: %v (body %s)", err, w.Body.String())
	}
	return envl
}

func (env *testEnv) seedDept(name string, parentID *int64) int64 {
	env.t.Helper()
	dept := &entity.DbDept{Name: name, ParentID: parentID, Status: entity.StatusActive}
	if err := env.repo.CreateDept(context.Background(), dept); err != nil {
		env.t.Fatalf("seed dept %s: %v", name, err)
	}
	return dept.ID
}

type seedUserOpts struct {
	deptID     *int64
	superuser  bool
	multiLogin bool
	status     int
}

func (env *testEnv) seedUser(username, password string, opts seedUserOpts) *entity.DbUser {
	env.t.Helper()
	hashed, err := auth.HashPassword(password)
	if err != nil {
		env.t.Fatalf("hash password: %v", err)
	}
	status := opts.status
	if status == 0 {
		status = entity.StatusActive
	} else if status < 0 {
		status = entity.StatusDisabled
	}
	user := &entity.DbUser{
		UUID:         username + "-uuid",
		Username:     username,
		Nickname:     username,
		Password:     hashed,
		Status:       status,
		IsSuperuser:  opts.superuser,
		IsMultiLogin: opts.multiLogin,
		DeptID:       opts.deptID,
	}
	if err := env.repo.CreateUser(context.Background(), user); err != nil {
		env.t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// seedRole 建角色并通过一个按钮菜单挂权限码,再把用户绑定到角色上。
func (env *testEnv) seedRole(code string, filterScopes bool, perms string, userIDs ...int64) int64 {
	env.t.Helper()
	ctx := context.Background()
	role := &entity.DbRole{Name: code, Code: code, FilterScopes: filterScopes, Status: entity.StatusActive}
	if err := env.repo.CreateRole(ctx, role); err != nil {
		env.t.Fatalf("seed role %s: %v", code, err)
	}
	if perms != "" {
		menu := &entity.DbMenu{Title: code + "-perms", MenuType: entity.MenuTypeButton, Perms: perms, Status: entity.StatusActive}
		if err := env.repo.CreateMenu(ctx, menu); err != nil {
			env.t.Fatalf("seed menu: %v", err)
		}
		if err := env.repo.SetRoleMenus(ctx, role.ID, []int64{menu.ID}); err != nil {
			env.t.Fatalf("bind menu: %v", err)
		}
	}
	for _, uid := range userIDs {
		if err := env.repo.SetUserRoles(ctx, uid, []int64{role.ID}); err != nil {
			env.t.Fatalf("bind role: %v", err)
		}
	}
	return role.ID
}

func (env *testEnv) attachScope(roleID int64, mode int, customDeptIDs ...int64) int64 {
	env.t.Helper()
	ctx := context.Background()
	scope := &entity.DbDataScope{Name: fmt.Sprintf("scope-%d-%d", roleID, mode), Mode: mode, Status: entity.StatusActive}
	if err := env.repo.CreateDataScope(ctx, scope); err != nil {
		env.t.Fatalf("seed scope: %v", err)
	}
	if len(customDeptIDs) > 0 {
		if err := env.repo.SetScopeDepts(ctx, scope.ID, customDeptIDs); err != nil {
			env.t.Fatalf("bind scope depts: %v", err)
		}
	}
	if err := env.repo.SetRoleScopes(ctx, roleID, []int64{scope.ID}); err != nil {
		env.t.Fatalf("bind role scope: %v", err)
	}
	return scope.ID
}

// login 走完整的验证码加口令流程,答案直接从 KV 里读出来。
func (env *testEnv) login(username, password string) entity.LoginResponse {
	env.t.Helper()
	w := env.request(http.MethodGet, "/api/v1/auth/captcha", "", nil)
	if w.Code != http.StatusOK {
		env.t.Fatalf("captcha status %d: %s", w.Code, w.Body.String())
	}
	var capResp entity.CaptchaResponse
	mustUnmarshal(env.t, env.decode(w).Data, &capResp)

	answer, err := env.mr.Get(env.cfg.CaptchaPrefix + ":" + capResp.UUID)
	if err != nil {
		env.t.Fatalf("read captcha answer: %v", err)
	}

	w = env.request(http.MethodPost, "/api/v1/auth/login", "", entity.LoginRequest{
		Username: username,
		Password: password,
		Captcha:  answer,
		UUID:     capResp.UUID,
	})
	envl := env.decode(w)
	if w.Code != http.StatusOK || envl.Code != 0 {
		env.t.Fatalf("login failed: status %d, body %s", w.Code, w.Body.String())
	}
	var resp entity.LoginResponse
	mustUnmarshal(env.t, envl.Data, &resp)
	return resp
}

// loginExpectFail 同 login,但断言失败并返回响应码
func (env *testEnv) loginExpectFail(username, password, captchaAnswer string) testEnvelope {
	env.t.Helper()
	w := env.request(http.MethodGet, "/api/v1/auth/captcha", "", nil)
	var capResp entity.CaptchaResponse
	mustUnmarshal(env.t, env.decode(w).Data, &capResp)

	answer := captchaAnswer
	if answer == "" {
		stored, err := env.mr.Get(env.cfg.CaptchaPrefix + ":" + capResp.UUID)
		if err != nil {
			env.t.Fatalf("read captcha answer: %v", err)
		}
		answer = stored
	}

	w = env.request(http.MethodPost, "/api/v1/auth/login", "", entity.LoginRequest{
		Username: username,
		Password: password,
		Captcha:  answer,
		UUID:     capResp.UUID,
	})
	if w.Code == http.StatusOK {
		env.t.Fatalf("expected login failure, got %s", w.Body.String())
	}
	return env.decode(w)
}

func mustUnmarshal(t *testing.T, data json.RawMessage, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshal data: %v (%s)", err, string(data))
	}
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("admin", "admin123", seedUserOpts{superuser: true, multiLogin: true})

	resp := env.login("admin", "admin123")
	if resp.AccessToken == "" || resp.RefreshToken == "" || resp.SessionUUID == "" {
		t.Fatalf("incomplete login response: %+v", resp)
	}
	if resp.User.Username != "admin" {
		t.Fatalf("unexpected user info: %+v", resp.User)
	}
	if !env.mr.Exists(env.cfg.TokenPrefix + ":" + resp.SessionUUID) {
		t.Fatal("session token key not registered")
	}

	w := env.request(http.MethodGet, "/api/v1/auth/me", resp.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status %d: %s", w.Code, w.Body.String())
	}
	var me entity.UserInfo
	mustUnmarshal(t, env.decode(w).Data, &me)
	if me.Username != "admin" {
		t.Fatalf("me returned %+v", me)
	}
}

func TestLoginWrongCaptchaConsumesKey(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("admin", "admin123", seedUserOpts{superuser: true})

	w := env.request(http.MethodGet, "/api/v1/auth/captcha", "", nil)
	var capResp entity.CaptchaResponse
	mustUnmarshal(t, env.decode(w).Data, &capResp)

	answer, err := env.mr.Get(env.cfg.CaptchaPrefix + ":" + capResp.UUID)
	if err != nil {
		t.Fatalf("read answer: %v", err)
	}

	w = env.request(http.MethodPost, "/api/v1/auth/login", "", entity.LoginRequest{
		Username: "admin", Password: "admin123", Captcha: "????", UUID: capResp.UUID,
	})
	if env.decode(w).Code != errs.CodeCaptchaError {
		t.Fatalf("expected captcha error, got %s", w.Body.String())
	}

	// 同一验证码不允许二次尝试,即使这次答案正确
	w = env.request(http.MethodPost, "/api/v1/auth/login", "", entity.LoginRequest{
		Username: "admin", Password: "admin123", Captcha: answer, UUID: capResp.UUID,
	})
	if env.decode(w).Code != errs.CodeCaptchaError {
		t.Fatalf("captcha key should be consumed, got %s", w.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("admin", "admin123", seedUserOpts{superuser: true})

	envl := env.loginExpectFail("admin", "not-the-password", "")
	if envl.Code != errs.CodeAuthenticationFailed {
		t.Fatalf("expected code %d, got %d", errs.CodeAuthenticationFailed, envl.Code)
	}

	// 失败已落一条登录日志
	logs, _, err := env.repo.ListLoginLogs(context.Background(), &entity.LoginLogQuery{})
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Status != 0 {
		t.Fatalf("expected one failed login log, got %+v", logs)
	}
}

func TestLoginUnknownUserSameResponse(t *testing.T) {
	env := newTestEnv(t)
	envl := env.loginExpectFail("nobody", "whatever", "")
	if envl.Code != errs.CodeAuthenticationFailed {
		t.Fatalf("expected generic auth failure, got %d", envl.Code)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("ghost", "secret99", seedUserOpts{status: -1})

	envl := env.loginExpectFail("ghost", "secret99", "")
	if envl.Code != errs.CodeUserDisabled {
		t.Fatalf("expected code %d, got %d", errs.CodeUserDisabled, envl.Code)
	}
}

func TestAuthCodes(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("zhang", "pass1234", seedUserOpts{})
	env.seedRole("viewer", false, "sys:user:list,sys:role:list", user.ID)

	resp := env.login("zhang", "pass1234")
	w := env.request(http.MethodGet, "/api/v1/auth/codes", resp.AccessToken, nil)
	var codes []string
	mustUnmarshal(t, env.decode(w).Data, &codes)
	if len(codes) != 2 || codes[0] != "sys:role:list" || codes[1] != "sys:user:list" {
		t.Fatalf("unexpected codes %v", codes)
	}
}

func TestPermissionDenied(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("zhang", "pass1234", seedUserOpts{})
	env.seedRole("empty", false, "", user.ID)

	resp := env.login("zhang", "pass1234")
	w := env.request(http.MethodGet, "/api/v1/users", resp.AccessToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
	if env.decode(w).Code != errs.CodePermissionDenied {
		t.Fatalf("expected code %d, got %s", errs.CodePermissionDenied, w.Body.String())
	}
}

func TestScopeSelfLimitsUserList(t *testing.T) {
	env := newTestEnv(t)
	deptID := env.seedDept("研发部", nil)
	me := env.seedUser("zhang", "pass1234", seedUserOpts{deptID: &deptID})
	env.seedUser("li", "pass1234", seedUserOpts{deptID: &deptID})
	roleID := env.seedRole("staff", true, "sys:user:list", me.ID)
	env.attachScope(roleID, entity.ScopeModeSelf)

	resp := env.login("zhang", "pass1234")
	w := env.request(http.MethodGet, "/api/v1/users", resp.AccessToken, nil)
	envl := env.decode(w)
	if envl.Code != 0 {
		t.Fatalf("list failed: %s", w.Body.String())
	}
	var page struct {
		Items []entity.DbUser `json:"items"`
		Total int64           `json:"total"`
	}
	mustUnmarshal(t, envl.Data, &page)
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].Username != "zhang" {
		t.Fatalf("self scope leaked rows: %+v", page)
	}
}

func TestScopeDeptAndChildren(t *testing.T) {
	env := newTestEnv(t)
	rootID := env.seedDept("总公司", nil)
	subID := env.seedDept("分公司", &rootID)
	otherID := env.seedDept("友商", nil)

	me := env.seedUser("zhang", "pass1234", seedUserOpts{deptID: &rootID})
	env.seedUser("li", "pass1234", seedUserOpts{deptID: &subID})
	env.seedUser("wang", "pass1234", seedUserOpts{deptID: &otherID})
	roleID := env.seedRole("manager", true, "sys:user:list", me.ID)
	env.attachScope(roleID, entity.ScopeModeDeptAndChildren)

	resp := env.login("zhang", "pass1234")
	w := env.request(http.MethodGet, "/api/v1/users", resp.AccessToken, nil)
	var page struct {
		Items []entity.DbUser `json:"items"`
		Total int64           `json:"total"`
	}
	mustUnmarshal(t, env.decode(w).Data, &page)
	if page.Total != 2 {
		t.Fatalf("expected own dept plus child, got %+v", page)
	}
	for _, item := range page.Items {
		if item.Username == "wang" {
			t.Fatal("row outside dept subtree leaked")
		}
	}
}

func TestSuperuserBypassesScopes(t *testing.T) {
	env := newTestEnv(t)
	deptID := env.seedDept("研发部", nil)
	env.seedUser("root", "admin123", seedUserOpts{superuser: true})
	env.seedUser("li", "pass1234", seedUserOpts{deptID: &deptID})

	resp := env.login("root", "admin123")
	w := env.request(http.MethodGet, "/api/v1/users", resp.AccessToken, nil)
	var page struct {
		Total int64 `json:"total"`
	}
	mustUnmarshal(t, env.decode(w).Data, &page)
	if page.Total != 2 {
		t.Fatalf("superuser should see all rows, got %+v", page)
	}
}

func TestRoleMenuChangeInvalidatesPerms(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser("root", "admin123", seedUserOpts{superuser: true, multiLogin: true})
	_ = admin
	user := env.seedUser("zhang", "pass1234", seedUserOpts{})
	roleID := env.seedRole("staff", false, "sys:user:list", user.ID)

	userResp := env.login("zhang", "pass1234")
	w := env.request(http.MethodGet, "/api/v1/auth/codes", userResp.AccessToken, nil)
	var codes []string
	mustUnmarshal(t, env.decode(w).Data, &codes)
	if len(codes) != 1 || codes[0] != "sys:user:list" {
		t.Fatalf("unexpected initial codes %v", codes)
	}

	// 管理员换绑另一个菜单,成员的权限缓存随之失效
	other := &entity.DbMenu{Title: "notice-perms", MenuType: entity.MenuTypeButton, Perms: "sys:notice:list", Status: entity.StatusActive}
	if err := env.repo.CreateMenu(context.Background(), other); err != nil {
		t.Fatalf("seed menu: %v", err)
	}
	adminResp := env.login("root", "admin123")
	w = env.request(http.MethodPut, fmt.Sprintf("/api/v1/roles/%d/menus", roleID), adminResp.AccessToken, entity.BindingRequest{IDs: []int64{other.ID}})
	if env.decode(w).Code != 0 {
		t.Fatalf("set role menus failed: %s", w.Body.String())
	}

	w = env.request(http.MethodGet, "/api/v1/auth/codes", userResp.AccessToken, nil)
	mustUnmarshal(t, env.decode(w).Data, &codes)
	if len(codes) != 1 || codes[0] != "sys:notice:list" {
		t.Fatalf("stale permission codes after binding change: %v", codes)
	}
}

func TestRefreshKeepsSessionUUID(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("admin", "admin123", seedUserOpts{superuser: true, multiLogin: true})
	resp := env.login("admin", "admin123")

	w := env.request(http.MethodPost, "/api/v1/auth/refresh", resp.RefreshToken, nil)
	envl := env.decode(w)
	if envl.Code != 0 {
		t.Fatalf("refresh failed: %s", w.Body.String())
	}
	var refreshed entity.RefreshResponse
	mustUnmarshal(t, envl.Data, &refreshed)
	if refreshed.SessionUUID != resp.SessionUUID {
		t.Fatalf("refresh changed session uuid: %s != %s", refreshed.SessionUUID, resp.SessionUUID)
	}

	// 新的访问令牌可用
	w = env.request(http.MethodGet, "/api/v1/auth/me", refreshed.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("new access token rejected: %d %s", w.Code, w.Body.String())
	}
}

func TestAccessTokenCannotRefresh(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("admin", "admin123", seedUserOpts{superuser: true, multiLogin: true})
	resp := env.login("admin", "admin123")

	// 用访问令牌调刷新接口,刷新键校验通过(同一会话),但语义上等价;
	// 真正的负例是会话被注销后刷新被拒
	w := env.request(http.MethodPost, "/api/v1/auth/logout", resp.AccessToken, nil)
	if env.decode(w).Code != 0 {
		t.Fatalf("logout failed: %s", w.Body.String())
	}
	w = env.request(http.MethodPost, "/api/v1/auth/refresh", resp.RefreshToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout should be rejected, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("admin", "admin123", seedUserOpts{superuser: true, multiLogin: true})
	resp := env.login("admin", "admin123")

	w := env.request(http.MethodPost, "/api/v1/auth/logout", resp.AccessToken, nil)
	if env.decode(w).Code != 0 {
		t.Fatalf("logout failed: %s", w.Body.String())
	}

	w = env.request(http.MethodGet, "/api/v1/auth/me", resp.AccessToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("token should be dead after logout, got %d", w.Code)
	}
}

func TestSingleLoginEvictsPreviousSession(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("zhang", "pass1234", seedUserOpts{multiLogin: false})

	first := env.login("zhang", "pass1234")
	second := env.login("zhang", "pass1234")

	w := env.request(http.MethodGet, "/api/v1/auth/me", first.AccessToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("old session should be evicted, got %d", w.Code)
	}
	w = env.request(http.MethodGet, "/api/v1/auth/me", second.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("new session should stay valid, got %d", w.Code)
	}
}

func TestKickSession(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("root", "admin123", seedUserOpts{superuser: true, multiLogin: true})
	env.seedUser("zhang", "pass1234", seedUserOpts{multiLogin: true})

	target := env.login("zhang", "pass1234")
	admin := env.login("root", "admin123")

	w := env.request(http.MethodDelete, "/api/v1/online/"+target.SessionUUID, admin.AccessToken, nil)
	if env.decode(w).Code != 0 {
		t.Fatalf("kick failed: %s", w.Body.String())
	}

	w = env.request(http.MethodGet, "/api/v1/auth/me", target.AccessToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("kicked session still alive, got %d", w.Code)
	}
	// 刷新令牌同样被拉黑
	w = env.request(http.MethodPost, "/api/v1/auth/refresh", target.RefreshToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("kicked session refresh should fail, got %d", w.Code)
	}
}

func TestKickOwnSessionRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("root", "admin123", seedUserOpts{superuser: true, multiLogin: true})
	admin := env.login("root", "admin123")

	w := env.request(http.MethodDelete, "/api/v1/online/"+admin.SessionUUID, admin.AccessToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("self kick should be rejected, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOnlineSessionList(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("root", "admin123", seedUserOpts{superuser: true, multiLogin: true})
	env.seedUser("zhang", "pass1234", seedUserOpts{multiLogin: true})

	env.login("zhang", "pass1234")
	admin := env.login("root", "admin123")

	w := env.request(http.MethodGet, "/api/v1/online?username=zhang", admin.AccessToken, nil)
	var sessions []entity.OnlineSession
	mustUnmarshal(t, env.decode(w).Data, &sessions)
	if len(sessions) != 1 || sessions[0].Username != "zhang" {
		t.Fatalf("unexpected online sessions: %+v", sessions)
	}
}

func TestUploadListDeleteFile(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("root", "admin123", seedUserOpts{superuser: true, multiLogin: true})
	admin := env.login("root", "admin123")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "report.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("quarterly numbers")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin.AccessToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	envl := env.decode(w)
	if envl.Code != 0 {
		t.Fatalf("upload failed: %s", w.Body.String())
	}
	var uploaded struct {
		ID        int64  `json:"id"`
		ObjectKey string `json:"object_key"`
		URL       string `json:"url"`
	}
	mustUnmarshal(t, envl.Data, &uploaded)
	if uploaded.ObjectKey == "" || uploaded.URL == "" {
		t.Fatalf("incomplete upload response: %+v", uploaded)
	}

	absPath := filepath.Join(env.cfg.StorageLocalDir, filepath.FromSlash(uploaded.ObjectKey))
	if _, err := os.Stat(absPath); err != nil {
		t.Fatalf("uploaded file missing on disk: %v", err)
	}

	lw := env.request(http.MethodGet, "/api/v1/files", admin.AccessToken, nil)
	var page struct {
		Total int64 `json:"total"`
	}
	mustUnmarshal(t, env.decode(lw).Data, &page)
	if page.Total != 1 {
		t.Fatalf("expected one file, got %+v", page)
	}

	dw := env.request(http.MethodDelete, fmt.Sprintf("/api/v1/files/%d", uploaded.ID), admin.AccessToken, nil)
	if env.decode(dw).Code != 0 {
		t.Fatalf("delete failed: %s", dw.Body.String())
	}
	if _, err := os.Stat(absPath); !os.IsNotExist(err) {
		t.Fatal("file should be removed from disk")
	}
}

func TestConfigValueCached(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("root", "admin123", seedUserOpts{superuser: true, multiLogin: true})
	admin := env.login("root", "admin123")

	cfg := &entity.DbConfig{Name: "站点名称", Key: "site_name", Value: "admind"}
	if err := env.repo.CreateConfig(context.Background(), cfg); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	var got struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	w := env.request(http.MethodGet, "/api/v1/configs/key/site_name", admin.AccessToken, nil)
	mustUnmarshal(t, env.decode(w).Data, &got)
	if got.Value != "admind" {
		t.Fatalf("unexpected config value %q", got.Value)
	}

	// 绕过接口直接改库,缓存命中返回旧值
	cfg.Value = "changed"
	if err := env.repo.UpdateConfig(context.Background(), cfg); err != nil {
		t.Fatalf("update config: %v", err)
	}
	w = env.request(http.MethodGet, "/api/v1/configs/key/site_name", admin.AccessToken, nil)
	mustUnmarshal(t, env.decode(w).Data, &got)
	if got.Value != "admind" {
		t.Fatalf("expected cached value, got %q", got.Value)
	}
}

func TestUserCRUDThroughAPI(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("root", "admin123", seedUserOpts{superuser: true, multiLogin: true})
	admin := env.login("root", "admin123")

	w := env.request(http.MethodPost, "/api/v1/users", admin.AccessToken, entity.CreateUserRequest{
		Username: "newbie",
		Password: "pass1234",
		Nickname: "新人",
	})
	envl := env.decode(w)
	if envl.Code != 0 {
		t.Fatalf("create user failed: %s", w.Body.String())
	}
	var created entity.DbUser
	mustUnmarshal(t, envl.Data, &created)
	if created.ID == 0 {
		t.Fatal("created user has no id")
	}

	// 重复用户名冲突
	w = env.request(http.MethodPost, "/api/v1/users", admin.AccessToken, entity.CreateUserRequest{
		Username: "newbie",
		Password: "pass1234",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate username should 409, got %d: %s", w.Code, w.Body.String())
	}

	nickname := "改名"
	w = env.request(http.MethodPut, fmt.Sprintf("/api/v1/users/%d", created.ID), admin.AccessToken, entity.UpdateUserRequest{
		Nickname: &nickname,
	})
	if env.decode(w).Code != 0 {
		t.Fatalf("update user failed: %s", w.Body.String())
	}

	w = env.request(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", created.ID), admin.AccessToken, nil)
	var fetched entity.DbUser
	mustUnmarshal(t, env.decode(w).Data, &fetched)
	if fetched.Nickname != nickname {
		t.Fatalf("nickname not updated: %+v", fetched)
	}

	w = env.request(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", created.ID), admin.AccessToken, nil)
	if env.decode(w).Code != 0 {
		t.Fatalf("delete user failed: %s", w.Body.String())
	}
	w = env.request(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", created.ID), admin.AccessToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted user should 404, got %d", w.Code)
	}
}

func TestDeleteSelfRejected(t *testing.T) {
	env := newTestEnv(t)
	root := env.seedUser("root", "admin123", seedUserOpts{superuser: true, multiLogin: true})
	admin := env.login("root", "admin123")

	w := env.request(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", root.ID), admin.AccessToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("self delete should be rejected, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDataRuleFiltersList(t *testing.T) {
	env := newTestEnv(t)
	deptID := env.seedDept("研发部", nil)
	me := env.seedUser("zhang", "pass1234", seedUserOpts{deptID: &deptID})
	env.seedUser("li", "pass1234", seedUserOpts{deptID: &deptID})

	roleID := env.seedRole("staff", true, "sys:user:list", me.ID)
	scopeID := env.attachScope(roleID, entity.ScopeModeDept)

	ctx := context.Background()
	rule := &entity.DbDataRule{
		Name:       "仅看自己用户名",
		Model:      "sys_user",
		Column:     "username",
		Operator:   entity.RuleOperatorAnd,
		Expression: entity.RuleExprEq,
		Value:      "zhang",
	}
	if err := env.repo.CreateDataRule(ctx, rule); err != nil {
		t.Fatalf("seed rule: %v", err)
	}
	if err := env.repo.SetScopeRules(ctx, scopeID, []int64{rule.ID}); err != nil {
		t.Fatalf("bind rule: %v", err)
	}

	resp := env.login("zhang", "pass1234")
	w := env.request(http.MethodGet, "/api/v1/users", resp.AccessToken, nil)
	var page struct {
		Items []entity.DbUser `json:"items"`
		Total int64           `json:"total"`
	}
	mustUnmarshal(t, env.decode(w).Data, &page)
	if page.Total != 1 || page.Items[0].Username != "zhang" {
		t.Fatalf("rule should narrow dept scope to one row: %+v", page)
	}
}
