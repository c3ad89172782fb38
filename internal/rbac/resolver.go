package rbac

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"admind/internal/entity"
	"admind/internal/errs"
	"admind/internal/kv"
)

// Store 是解析器依赖的持久层子集,由 model.Repository 实现。
type Store interface {
	GetUserByID(ctx context.Context, id int64) (*entity.DbUser, error)
	ListRolesByUser(ctx context.Context, userID int64) ([]entity.DbRole, error)
	ListMenusByRoles(ctx context.Context, roleIDs []int64) ([]entity.DbMenu, error)
	ListScopesByRole(ctx context.Context, roleID int64) ([]entity.DbDataScope, error)
	ListScopeDeptIDs(ctx context.Context, scopeID int64) ([]int64, error)
	ListRulesByScopes(ctx context.Context, scopeIDs []int64) ([]entity.DbDataRule, error)
	ListDeptAndChildren(ctx context.Context, deptID int64) ([]int64, error)
}

// ScopeDescriptor 描述一个 (角色, 数据范围) 绑定。
type ScopeDescriptor struct {
	RoleID        int64   `json:"role_id"`
	ScopeID       int64   `json:"scope_id"`
	Mode          int     `json:"mode"`
	CustomDeptIDs []int64 `json:"custom_dept_ids,omitempty"`
}

// Resolution 是一个用户的有效权限:权限码集合与数据范围描述。
// 超级管理员短路为 "*" 权限和查看全部。
type Resolution struct {
	UserID       int64             `json:"user_id"`
	DeptID       *int64            `json:"dept_id"`
	IsSuperuser  bool              `json:"is_superuser"`
	FilterScopes bool              `json:"filter_scopes"`
	Codes        []string          `json:"permission_codes"`
	RoleNames    []string          `json:"role_names"`
	Scopes       []ScopeDescriptor `json:"scope_descriptors"`
}

// Has 判断调用方是否持有指定权限码。
func (r *Resolution) Has(code string) bool {
	if r == nil {
		return false
	}
	if r.IsSuperuser {
		return true
	}
	for _, c := range r.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// HasAny 任意一个权限码命中即通过。
func (r *Resolution) HasAny(codes ...string) bool {
	for _, code := range codes {
		if r.Has(code) {
			return true
		}
	}
	return false
}

// HasAll 所有权限码都命中才通过。
func (r *Resolution) HasAll(codes ...string) bool {
	for _, code := range codes {
		if !r.Has(code) {
			return false
		}
	}
	return true
}

// ScopeIDs 返回去重后的数据范围 ID 集合,用于规则求值。
func (r *Resolution) ScopeIDs() []int64 {
	seen := make(map[int64]struct{}, len(r.Scopes))
	ids := make([]int64, 0, len(r.Scopes))
	for _, s := range r.Scopes {
		if _, ok := seen[s.ScopeID]; ok {
			continue
		}
		seen[s.ScopeID] = struct{}{}
		ids = append(ids, s.ScopeID)
	}
	return ids
}

// Resolver 计算用户的有效权限并在 KV 中短期缓存。
type Resolver struct {
	store  Store
	cache  *kv.Cache
	prefix string
	ttl    time.Duration
}

// NewResolver 创建权限解析器。
func NewResolver(store Store, cache *kv.Cache, prefix string, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Resolver{store: store, cache: cache, prefix: prefix, ttl: ttl}
}

func (r *Resolver) key(userID int64) string {
	return fmt.Sprintf("%s:%d", r.prefix, userID)
}

// Resolve 返回用户的有效权限,命中缓存时不触达关系库。
func (r *Resolver) Resolve(ctx context.Context, userID int64) (*Resolution, error) {
	payload, err := r.cache.GetOrCompute(ctx, r.key(userID), r.ttl, func(ctx context.Context) (string, error) {
		res, err := r.compute(ctx, userID)
		if err != nil {
			return "", err
		}
		raw, err := json.Marshal(res)
		if err != nil {
			return "", errs.Wrap(errs.KindInternal, "marshal resolution", err)
		}
		return string(raw), nil
	})
	if err != nil {
		return nil, err
	}

	var res Resolution
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		// 缓存损坏时清除并直接计算
		_ = r.cache.Invalidate(ctx, r.key(userID))
		return r.compute(ctx, userID)
	}
	return &res, nil
}

// Invalidate 清除指定用户的权限缓存。
func (r *Resolver) Invalidate(ctx context.Context, userIDs ...int64) error {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, r.key(id))
	}
	return r.cache.Invalidate(ctx, keys...)
}

// InvalidateAll 清除全部权限缓存,角色或菜单大范围变更时使用。
func (r *Resolver) InvalidateAll(ctx context.Context) error {
	return r.cache.InvalidatePrefix(ctx, r.prefix+":")
}

func (r *Resolver) compute(ctx context.Context, userID int64) (*Resolution, error) {
	user, err := r.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &Resolution{
		UserID:    user.ID,
		DeptID:    user.DeptID,
		Codes:     []string{},
		RoleNames: []string{},
		Scopes:    []ScopeDescriptor{},
	}

	if user.IsSuperuser {
		res.IsSuperuser = true
		res.Codes = []string{"*"}
		return res, nil
	}

	roles, err := r.store.ListRolesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	codeSet := make(map[string]struct{})
	roleIDs := make([]int64, 0, len(roles))
	for _, role := range roles {
		if role.Status != entity.StatusActive {
			continue
		}
		roleIDs = append(roleIDs, role.ID)
		res.RoleNames = append(res.RoleNames, role.Name)
		if role.FilterScopes {
			res.FilterScopes = true
		}
	}

	if len(roleIDs) > 0 {
		menus, err := r.store.ListMenusByRoles(ctx, roleIDs)
		if err != nil {
			return nil, err
		}
		for _, menu := range menus {
			for _, token := range strings.Split(menu.Perms, ",") {
				code := strings.TrimSpace(token)
				if code != "" {
					codeSet[code] = struct{}{}
				}
			}
		}

		for _, roleID := range roleIDs {
			scopes, err := r.store.ListScopesByRole(ctx, roleID)
			if err != nil {
				return nil, err
			}
			for _, scope := range scopes {
				if scope.Status != entity.StatusActive {
					continue
				}
				desc := ScopeDescriptor{RoleID: roleID, ScopeID: scope.ID, Mode: scope.Mode}
				if scope.Mode == entity.ScopeModeCustom {
					deptIDs, err := r.store.ListScopeDeptIDs(ctx, scope.ID)
					if err != nil {
						return nil, err
					}
					desc.CustomDeptIDs = deptIDs
				}
				res.Scopes = append(res.Scopes, desc)
			}
		}
	}

	for code := range codeSet {
		res.Codes = append(res.Codes, code)
	}
	sort.Strings(res.Codes)
	return res, nil
}
