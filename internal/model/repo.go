package model

import (
	"context"
	"time"

	"admind/internal/entity"
	"admind/internal/rbac"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id int64, updates entity.UserUpdates) error
	GetUserByID(ctx context.Context, id int64) (*entity.DbUser, error)
	GetUserByUsername(ctx context.Context, username string) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery, filter rbac.ScopeFilter, cond rbac.Condition) ([]entity.DbUser, *entity.Meta, error)
	DeleteUser(ctx context.Context, id int64) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	SetUserRoles(ctx context.Context, userID int64, roleIDs []int64) error
	ListUserIDsByRole(ctx context.Context, roleID int64) ([]int64, error)

	// 角色管理
	CreateRole(ctx context.Context, role *entity.DbRole) error
	UpdateRole(ctx context.Context, role *entity.DbRole) error
	DeleteRole(ctx context.Context, id int64) error
	GetRole(ctx context.Context, id int64) (*entity.DbRole, error)
	ListRoles(ctx context.Context, params *entity.RoleQuery) ([]entity.DbRole, *entity.Meta, error)
	SetRoleMenus(ctx context.Context, roleID int64, menuIDs []int64) error
	SetRoleScopes(ctx context.Context, roleID int64, scopeIDs []int64) error
	ListRoleMenuIDs(ctx context.Context, roleID int64) ([]int64, error)
	ListRoleScopeIDs(ctx context.Context, roleID int64) ([]int64, error)

	// 菜单管理
	CreateMenu(ctx context.Context, menu *entity.DbMenu) error
	UpdateMenu(ctx context.Context, menu *entity.DbMenu) error
	DeleteMenu(ctx context.Context, id int64) error
	GetMenu(ctx context.Context, id int64) (*entity.DbMenu, error)
	ListMenus(ctx context.Context) ([]entity.DbMenu, error)

	// 部门管理
	CreateDept(ctx context.Context, dept *entity.DbDept) error
	UpdateDept(ctx context.Context, dept *entity.DbDept) error
	DeleteDept(ctx context.Context, id int64) error
	GetDept(ctx context.Context, id int64) (*entity.DbDept, error)
	ListDepts(ctx context.Context, params *entity.DeptQuery) ([]entity.DbDept, error)

	// 数据范围与数据规则
	CreateDataScope(ctx context.Context, scope *entity.DbDataScope) error
	UpdateDataScope(ctx context.Context, scope *entity.DbDataScope) error
	DeleteDataScope(ctx context.Context, id int64) error
	GetDataScope(ctx context.Context, id int64) (*entity.DbDataScope, error)
	ListDataScopes(ctx context.Context, params *entity.BaseParams) ([]entity.DbDataScope, *entity.Meta, error)
	SetScopeDepts(ctx context.Context, scopeID int64, deptIDs []int64) error
	SetScopeRules(ctx context.Context, scopeID int64, ruleIDs []int64) error
	ListScopeRuleIDs(ctx context.Context, scopeID int64) ([]int64, error)

	CreateDataRule(ctx context.Context, rule *entity.DbDataRule) error
	UpdateDataRule(ctx context.Context, rule *entity.DbDataRule) error
	DeleteDataRule(ctx context.Context, id int64) error
	GetDataRule(ctx context.Context, id int64) (*entity.DbDataRule, error)
	ListDataRules(ctx context.Context, params *entity.BaseParams) ([]entity.DbDataRule, *entity.Meta, error)

	// 字典
	CreateDictType(ctx context.Context, dt *entity.DbDictType) error
	UpdateDictType(ctx context.Context, dt *entity.DbDictType) error
	DeleteDictType(ctx context.Context, id int64) error
	ListDictTypes(ctx context.Context, params *entity.BaseParams) ([]entity.DbDictType, *entity.Meta, error)
	GetDictTypeByCode(ctx context.Context, code string) (*entity.DbDictType, error)
	CreateDictData(ctx context.Context, dd *entity.DbDictData) error
	UpdateDictData(ctx context.Context, dd *entity.DbDictData) error
	DeleteDictData(ctx context.Context, id int64) error
	ListDictData(ctx context.Context, params *entity.DictDataQuery) ([]entity.DbDictData, *entity.Meta, error)

	// 参数配置
	CreateConfig(ctx context.Context, cfg *entity.DbConfig) error
	UpdateConfig(ctx context.Context, cfg *entity.DbConfig) error
	DeleteConfig(ctx context.Context, id int64) error
	GetConfig(ctx context.Context, id int64) (*entity.DbConfig, error)
	GetConfigByKey(ctx context.Context, key string) (*entity.DbConfig, error)
	ListConfigs(ctx context.Context, params *entity.BaseParams) ([]entity.DbConfig, *entity.Meta, error)

	// 通知公告
	CreateNotice(ctx context.Context, notice *entity.DbNotice) error
	UpdateNotice(ctx context.Context, notice *entity.DbNotice) error
	DeleteNotice(ctx context.Context, id int64) error
	GetNotice(ctx context.Context, id int64) (*entity.DbNotice, error)
	ListNotices(ctx context.Context, params *entity.BaseParams) ([]entity.DbNotice, *entity.Meta, error)

	// 文件元数据与登录日志
	CreateFileInfo(ctx context.Context, file *entity.DbFileInfo) error
	GetFileInfo(ctx context.Context, id int64) (*entity.DbFileInfo, error)
	DeleteFileInfo(ctx context.Context, id int64) error
	ListFiles(ctx context.Context, params *entity.FileQuery, filter rbac.ScopeFilter) ([]entity.DbFileInfo, *entity.Meta, error)
	CreateLoginLog(ctx context.Context, rec *entity.DbLoginLog) error
	ListLoginLogs(ctx context.Context, params *entity.LoginLogQuery) ([]entity.DbLoginLog, *entity.Meta, error)
	DeleteLoginLogs(ctx context.Context, ids []int64) error

	// 权限解析依赖
	ListRolesByUser(ctx context.Context, userID int64) ([]entity.DbRole, error)
	ListMenusByRoles(ctx context.Context, roleIDs []int64) ([]entity.DbMenu, error)
	ListScopesByRole(ctx context.Context, roleID int64) ([]entity.DbDataScope, error)
	ListScopeDeptIDs(ctx context.Context, scopeID int64) ([]int64, error)
	ListRulesByScopes(ctx context.Context, scopeIDs []int64) ([]entity.DbDataRule, error)
	ListDeptAndChildren(ctx context.Context, deptID int64) ([]int64, error)
}
