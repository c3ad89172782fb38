package entity

// CreateUserRequest 创建用户请求体
type CreateUserRequest struct {
	Username     string  `json:"username" binding:"required"`
	Nickname     string  `json:"nickname"`
	Password     string  `json:"password" binding:"required"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Status       *int    `json:"status"`
	IsSuperuser  *bool   `json:"is_superuser"`
	IsStaff      *bool   `json:"is_staff"`
	IsMultiLogin *bool   `json:"is_multi_login"`
	DeptID       *int64  `json:"dept_id"`
	RoleIDs      []int64 `json:"role_ids"`
}

// UpdateUserRequest 更新用户请求体,nil 字段不修改
type UpdateUserRequest struct {
	Nickname     *string  `json:"nickname"`
	Email        *string  `json:"email"`
	Phone        *string  `json:"phone"`
	Avatar       *string  `json:"avatar"`
	Status       *int     `json:"status"`
	IsSuperuser  *bool    `json:"is_superuser"`
	IsStaff      *bool    `json:"is_staff"`
	IsMultiLogin *bool    `json:"is_multi_login"`
	DeptID       *int64   `json:"dept_id"`
	Password     *string  `json:"password"`
	RoleIDs      *[]int64 `json:"role_ids"`
}

// CreateRoleRequest 创建角色请求体
type CreateRoleRequest struct {
	Name         string `json:"name" binding:"required"`
	Code         string `json:"code" binding:"required"`
	Sort         int    `json:"sort"`
	FilterScopes *bool  `json:"is_filter_scopes"`
	Status       *int   `json:"status"`
	Remark       string `json:"remark"`
}

// UpdateRoleRequest 更新角色请求体
type UpdateRoleRequest struct {
	Name         *string `json:"name"`
	Sort         *int    `json:"sort"`
	FilterScopes *bool   `json:"is_filter_scopes"`
	Status       *int    `json:"status"`
	Remark       *string `json:"remark"`
}

// BindingRequest 绑定写入请求,整体替换目标集合
type BindingRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

// CreateMenuRequest 创建菜单请求体
type CreateMenuRequest struct {
	Title     string `json:"title" binding:"required"`
	Name      string `json:"name"`
	ParentID  *int64 `json:"parent_id"`
	Sort      int    `json:"sort"`
	Path      string `json:"path"`
	Component string `json:"component"`
	MenuType  int    `json:"menu_type"`
	Perms     string `json:"perms"`
	Icon      string `json:"icon"`
	Status    *int   `json:"status"`
	Display   *bool  `json:"display"`
	Cache     *bool  `json:"cache"`
	Link      string `json:"link"`
	Remark    string `json:"remark"`
}

// UpdateMenuRequest 更新菜单请求体
type UpdateMenuRequest struct {
	Title     *string `json:"title"`
	Name      *string `json:"name"`
	ParentID  *int64  `json:"parent_id"`
	Sort      *int    `json:"sort"`
	Path      *string `json:"path"`
	Component *string `json:"component"`
	MenuType  *int    `json:"menu_type"`
	Perms     *string `json:"perms"`
	Icon      *string `json:"icon"`
	Status    *int    `json:"status"`
	Display   *bool   `json:"display"`
	Cache     *bool   `json:"cache"`
	Link      *string `json:"link"`
	Remark    *string `json:"remark"`
}

// CreateDeptRequest 创建部门请求体
type CreateDeptRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID *int64 `json:"parent_id"`
	Sort     int    `json:"sort"`
	Leader   string `json:"leader"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Status   *int   `json:"status"`
}

// UpdateDeptRequest 更新部门请求体
type UpdateDeptRequest struct {
	Name     *string `json:"name"`
	ParentID *int64  `json:"parent_id"`
	Sort     *int    `json:"sort"`
	Leader   *string `json:"leader"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Status   *int    `json:"status"`
}

// DeptTreeNode 部门树节点
type DeptTreeNode struct {
	DbDept
	Children []*DeptTreeNode `json:"children"`
}

// MenuTreeNode 菜单树节点
type MenuTreeNode struct {
	DbMenu
	Children []*MenuTreeNode `json:"children"`
}

// CreateDataScopeRequest 创建数据范围请求体
type CreateDataScopeRequest struct {
	Name   string `json:"name" binding:"required"`
	Mode   int    `json:"mode" binding:"required"`
	Status *int   `json:"status"`
}

// UpdateDataScopeRequest 更新数据范围请求体
type UpdateDataScopeRequest struct {
	Name   *string `json:"name"`
	Mode   *int    `json:"mode"`
	Status *int    `json:"status"`
}

// CreateDataRuleRequest 创建数据规则请求体
type CreateDataRuleRequest struct {
	Name       string `json:"name" binding:"required"`
	Model      string `json:"model" binding:"required"`
	Column     string `json:"column" binding:"required"`
	Operator   int    `json:"operator"`
	Expression int    `json:"expression"`
	Value      string `json:"value" binding:"required"`
}

// UpdateDataRuleRequest 更新数据规则请求体
type UpdateDataRuleRequest struct {
	Name       *string `json:"name"`
	Model      *string `json:"model"`
	Column     *string `json:"column"`
	Operator   *int    `json:"operator"`
	Expression *int    `json:"expression"`
	Value      *string `json:"value"`
}

// CreateDictTypeRequest 创建字典类型请求体
type CreateDictTypeRequest struct {
	Name   string `json:"name" binding:"required"`
	Code   string `json:"code" binding:"required"`
	Status *int   `json:"status"`
	Remark string `json:"remark"`
}

// CreateDictDataRequest 创建字典条目请求体
type CreateDictDataRequest struct {
	TypeCode string `json:"type_code" binding:"required"`
	Label    string `json:"label" binding:"required"`
	Value    string `json:"value" binding:"required"`
	Sort     int    `json:"sort"`
	Status   *int   `json:"status"`
	Remark   string `json:"remark"`
}

// CreateConfigRequest 创建系统配置请求体
type CreateConfigRequest struct {
	Name   string `json:"name" binding:"required"`
	Key    string `json:"key" binding:"required"`
	Value  string `json:"value"`
	Remark string `json:"remark"`
}

// UpdateConfigRequest 更新系统配置请求体
type UpdateConfigRequest struct {
	Name   *string `json:"name"`
	Value  *string `json:"value"`
	Remark *string `json:"remark"`
}

// CreateNoticeRequest 创建通知公告请求体
type CreateNoticeRequest struct {
	Title   string `json:"title" binding:"required"`
	Type    int    `json:"type"`
	Content string `json:"content"`
	Status  *int   `json:"status"`
}
