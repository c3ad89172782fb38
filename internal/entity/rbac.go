package entity

import "time"

// DbRole 对应 sys_role 表。
// FilterScopes 为 true 时,该角色授权的请求启用数据范围过滤。
type DbRole struct {
	ID           int64     `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Code         string    `gorm:"column:code;type:varchar(64);uniqueIndex;not null" json:"code"`
	Sort         int       `gorm:"column:sort;not null;default:0" json:"sort"`
	FilterScopes bool      `gorm:"column:is_filter_scopes;not null;default:true" json:"is_filter_scopes"`
	Status       int       `gorm:"column:status;not null;default:1" json:"status"`
	Remark       string    `gorm:"column:remark;type:varchar(255)" json:"remark"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (DbRole) TableName() string {
	return "sys_role"
}

// 菜单类型
const (
	MenuTypeDirectory = 0
	MenuTypeMenu      = 1
	MenuTypeButton    = 2
)

// DbMenu 对应 sys_menu 表。菜单构成森林,按钮是携带权限码的叶子。
// Perms 是逗号分隔的权限码列表,例如 "sys:user:list,sys:user:edit"。
type DbMenu struct {
	ID        int64     `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"column:title;type:varchar(64);not null" json:"title"`
	Name      string    `gorm:"column:name;type:varchar(64)" json:"name"`
	ParentID  *int64    `gorm:"column:parent_id;index" json:"parent_id"`
	Sort      int       `gorm:"column:sort;not null;default:0" json:"sort"`
	Path      string    `gorm:"column:path;type:varchar(255)" json:"path"`
	Component string    `gorm:"column:component;type:varchar(255)" json:"component"`
	MenuType  int       `gorm:"column:menu_type;not null;default:0" json:"menu_type"`
	Perms     string    `gorm:"column:perms;type:varchar(255)" json:"perms"`
	Icon      string    `gorm:"column:icon;type:varchar(64)" json:"icon"`
	Status    int       `gorm:"column:status;not null;default:1" json:"status"`
	Display   bool      `gorm:"column:display;not null;default:true" json:"display"`
	Cache     bool      `gorm:"column:cache;not null;default:true" json:"cache"`
	Link      string    `gorm:"column:link;type:varchar(255)" json:"link"`
	Remark    string    `gorm:"column:remark;type:varchar(255)" json:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DbMenu) TableName() string {
	return "sys_menu"
}

// DbDept 对应 sys_dept 表,部门构成有序树。
type DbDept struct {
	ID        int64     `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(64);not null" json:"name"`
	ParentID  *int64    `gorm:"column:parent_id;index" json:"parent_id"`
	Sort      int       `gorm:"column:sort;not null;default:0" json:"sort"`
	Leader    string    `gorm:"column:leader;type:varchar(64)" json:"leader"`
	Phone     string    `gorm:"column:phone;type:varchar(32)" json:"phone"`
	Email     string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Status    int       `gorm:"column:status;not null;default:1" json:"status"`
	DelFlag   int       `gorm:"column:del_flag;not null;default:0" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DbDept) TableName() string {
	return "sys_dept"
}

// 数据范围模式,沿用数据库中的编码
const (
	ScopeModeAll             = 1
	ScopeModeCustom          = 2
	ScopeModeDept            = 3
	ScopeModeDeptAndChildren = 4
	ScopeModeSelf            = 5
)

// DbDataScope 对应 sys_data_scope 表。
// Mode 决定行过滤方式,CustomDepts 仅在 Mode 为 custom 时使用。
type DbDataScope struct {
	ID        int64     `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Mode      int       `gorm:"column:mode;not null;default:5" json:"mode"`
	Status    int       `gorm:"column:status;not null;default:1" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DbDataScope) TableName() string {
	return "sys_data_scope"
}

// 规则组合符
const (
	RuleOperatorAnd = 0
	RuleOperatorOr  = 1
)

// 规则表达式
const (
	RuleExprEq = iota
	RuleExprNe
	RuleExprGt
	RuleExprGe
	RuleExprLt
	RuleExprLe
	RuleExprIn
	RuleExprNotIn
)

// DbDataRule 对应 sys_data_rule 表,单条行谓词 (column OP value)。
type DbDataRule struct {
	ID         int64     `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Model      string    `gorm:"column:model;type:varchar(64);not null" json:"model"`
	Column     string    `gorm:"column:column_name;type:varchar(64);not null" json:"column"`
	Operator   int       `gorm:"column:operator;not null;default:0" json:"operator"`
	Expression int       `gorm:"column:expression;not null;default:0" json:"expression"`
	Value      string    `gorm:"column:value;type:varchar(255);not null" json:"value"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (DbDataRule) TableName() string {
	return "sys_data_rule"
}

// DbUserRole 用户-角色绑定
type DbUserRole struct {
	UserID int64 `gorm:"column:user_id;primaryKey" json:"user_id"`
	RoleID int64 `gorm:"column:role_id;primaryKey" json:"role_id"`
}

func (DbUserRole) TableName() string {
	return "sys_user_role"
}

// DbRoleMenu 角色-菜单绑定
type DbRoleMenu struct {
	RoleID int64 `gorm:"column:role_id;primaryKey" json:"role_id"`
	MenuID int64 `gorm:"column:menu_id;primaryKey" json:"menu_id"`
}

func (DbRoleMenu) TableName() string {
	return "sys_role_menu"
}

// DbRoleDataScope 角色-数据范围绑定
type DbRoleDataScope struct {
	RoleID      int64 `gorm:"column:role_id;primaryKey" json:"role_id"`
	DataScopeID int64 `gorm:"column:data_scope_id;primaryKey" json:"data_scope_id"`
}

func (DbRoleDataScope) TableName() string {
	return "sys_role_data_scope"
}

// DbDataScopeDept 自定义数据范围的显式部门集合,仅 mode=custom 使用
type DbDataScopeDept struct {
	DataScopeID int64 `gorm:"column:data_scope_id;primaryKey" json:"data_scope_id"`
	DeptID      int64 `gorm:"column:dept_id;primaryKey" json:"dept_id"`
}

func (DbDataScopeDept) TableName() string {
	return "sys_data_scope_dept"
}

// DbDataScopeRule 数据范围-数据规则绑定
type DbDataScopeRule struct {
	DataScopeID int64 `gorm:"column:data_scope_id;primaryKey" json:"data_scope_id"`
	DataRuleID  int64 `gorm:"column:data_rule_id;primaryKey" json:"data_rule_id"`
}

func (DbDataScopeRule) TableName() string {
	return "sys_data_scope_rule"
}

// RoleQuery 角色列表查询条件
type RoleQuery struct {
	BaseParams
	Name   string `form:"name"`
	Status *int   `form:"status"`
}

// DeptQuery 部门列表查询条件
type DeptQuery struct {
	Name   string `form:"name"`
	Status *int   `form:"status"`
}
