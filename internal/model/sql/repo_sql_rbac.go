package sql

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"admind/internal/entity"
	"admind/internal/errs"
	"admind/internal/rbac"
)

// CreateRole persists a new role.
func (r *GormRepository) CreateRole(ctx context.Context, role *entity.DbRole) error {
	return translate(r.db.WithContext(ctx).Create(role).Error, "角色不存在")
}

// UpdateRole rewrites the mutable columns of a role.
func (r *GormRepository) UpdateRole(ctx context.Context, role *entity.DbRole) error {
	if role == nil || role.ID == 0 {
		return errs.New(errs.KindBadInput, "invalid role")
	}
	result := r.db.WithContext(ctx).Model(&entity.DbRole{ID: role.ID}).
		Select("name", "code", "sort", "is_filter_scopes", "status", "remark").
		Updates(role)
	if result.Error != nil {
		return translate(result.Error, "角色不存在")
	}
	if result.RowsAffected == 0 {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "角色不存在")
	}
	return nil
}

// DeleteRole removes a role along with its bindings. Roles still
// assigned to users cannot be removed.
func (r *GormRepository) DeleteRole(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bound int64
		if err := tx.Model(&entity.DbUserRole{}).Where("role_id = ?", id).Count(&bound).Error; err != nil {
			return translate(err, "角色不存在")
		}
		if bound > 0 {
			return errs.WithCode(errs.KindConflict, errs.CodeResourceReferenced, "角色已绑定用户,无法删除")
		}
		if err := tx.Where("role_id = ?", id).Delete(&entity.DbRoleMenu{}).Error; err != nil {
			return translate(err, "角色不存在")
		}
		if err := tx.Where("role_id = ?", id).Delete(&entity.DbRoleDataScope{}).Error; err != nil {
			return translate(err, "角色不存在")
		}
		result := tx.Delete(&entity.DbRole{}, id)
		if result.Error != nil {
			return translate(result.Error, "角色不存在")
		}
		if result.RowsAffected == 0 {
			return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "角色不存在")
		}
		return nil
	})
}

// GetRole loads one role.
func (r *GormRepository) GetRole(ctx context.Context, id int64) (*entity.DbRole, error) {
	var role entity.DbRole
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, translate(err, "角色不存在")
	}
	return &role, nil
}

// ListRoles returns paginated roles.
func (r *GormRepository) ListRoles(ctx context.Context, params *entity.RoleQuery) ([]entity.DbRole, *entity.Meta, error) {
	query := r.db.WithContext(ctx).Model(&entity.DbRole{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.Name); trimmed != "" {
			query = query.Where("name LIKE ?", "%"+trimmed+"%")
		}
		if params.Status != nil {
			query = query.Where("status = ?", *params.Status)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, translate(err, "角色不存在")
	}

	p := entity.BaseParams{}
	if params != nil {
		p = params.BaseParams
	}
	p.Normalize()

	var roles []entity.DbRole
	if err := query.Order("sort ASC, id ASC").Offset(int((p.Page - 1) * p.Size)).Limit(int(p.Size)).Find(&roles).Error; err != nil {
		return nil, nil, translate(err, "角色不存在")
	}
	return roles, r.calculatePagination(total, p.Page, p.Size), nil
}

// SetRoleMenus replaces a role's menu bindings in one transaction.
func (r *GormRepository) SetRoleMenus(ctx context.Context, roleID int64, menuIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entity.DbRole{}, roleID).Error; err != nil {
			return translate(err, "角色不存在")
		}
		if len(menuIDs) > 0 {
			var count int64
			if err := tx.Model(&entity.DbMenu{}).Where("id IN ?", menuIDs).Count(&count).Error; err != nil {
				return translate(err, "菜单不存在")
			}
			if count != int64(len(menuIDs)) {
				return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "菜单不存在")
			}
		}
		if err := tx.Where("role_id = ?", roleID).Delete(&entity.DbRoleMenu{}).Error; err != nil {
			return translate(err, "角色不存在")
		}
		for _, menuID := range menuIDs {
			if err := tx.Create(&entity.DbRoleMenu{RoleID: roleID, MenuID: menuID}).Error; err != nil {
				return translate(err, "菜单不存在")
			}
		}
		return nil
	})
}

// SetRoleScopes replaces a role's data-scope bindings in one transaction.
func (r *GormRepository) SetRoleScopes(ctx context.Context, roleID int64, scopeIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entity.DbRole{}, roleID).Error; err != nil {
			return translate(err, "角色不存在")
		}
		if len(scopeIDs) > 0 {
			var count int64
			if err := tx.Model(&entity.DbDataScope{}).Where("id IN ?", scopeIDs).Count(&count).Error; err != nil {
				return translate(err, "数据范围不存在")
			}
			if count != int64(len(scopeIDs)) {
				return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "数据范围不存在")
			}
		}
		if err := tx.Where("role_id = ?", roleID).Delete(&entity.DbRoleDataScope{}).Error; err != nil {
			return translate(err, "角色不存在")
		}
		for _, scopeID := range scopeIDs {
			if err := tx.Create(&entity.DbRoleDataScope{RoleID: roleID, DataScopeID: scopeID}).Error; err != nil {
				return translate(err, "数据范围不存在")
			}
		}
		return nil
	})
}

// ListRoleMenuIDs returns the menu IDs bound to a role.
func (r *GormRepository) ListRoleMenuIDs(ctx context.Context, roleID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&entity.DbRoleMenu{}).
		Where("role_id = ?", roleID).Pluck("menu_id", &ids).Error
	if err != nil {
		return nil, translate(err, "角色不存在")
	}
	return ids, nil
}

// ListRoleScopeIDs returns the data-scope IDs bound to a role.
func (r *GormRepository) ListRoleScopeIDs(ctx context.Context, roleID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&entity.DbRoleDataScope{}).
		Where("role_id = ?", roleID).Pluck("data_scope_id", &ids).Error
	if err != nil {
		return nil, translate(err, "角色不存在")
	}
	return ids, nil
}

// CreateMenu persists a new menu.
func (r *GormRepository) CreateMenu(ctx context.Context, menu *entity.DbMenu) error {
	return translate(r.db.WithContext(ctx).Create(menu).Error, "菜单不存在")
}

// UpdateMenu rewrites the mutable columns of a menu.
func (r *GormRepository) UpdateMenu(ctx context.Context, menu *entity.DbMenu) error {
	if menu == nil || menu.ID == 0 {
		return errs.New(errs.KindBadInput, "invalid menu")
	}
	result := r.db.WithContext(ctx).Model(&entity.DbMenu{ID: menu.ID}).
		Select("title", "name", "parent_id", "sort", "path", "component", "menu_type",
			"perms", "icon", "status", "display", "cache", "link", "remark").
		Updates(menu)
	if result.Error != nil {
		return translate(result.Error, "菜单不存在")
	}
	if result.RowsAffected == 0 {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "菜单不存在")
	}
	return nil
}

// DeleteMenu removes a menu. Menus with children stay.
func (r *GormRepository) DeleteMenu(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var children int64
		if err := tx.Model(&entity.DbMenu{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
			return translate(err, "菜单不存在")
		}
		if children > 0 {
			return errs.WithCode(errs.KindConflict, errs.CodeResourceReferenced, "存在子菜单,无法删除")
		}
		if err := tx.Where("menu_id = ?", id).Delete(&entity.DbRoleMenu{}).Error; err != nil {
			return translate(err, "菜单不存在")
		}
		result := tx.Delete(&entity.DbMenu{}, id)
		if result.Error != nil {
			return translate(result.Error, "菜单不存在")
		}
		if result.RowsAffected == 0 {
			return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "菜单不存在")
		}
		return nil
	})
}

// GetMenu loads one menu.
func (r *GormRepository) GetMenu(ctx context.Context, id int64) (*entity.DbMenu, error) {
	var menu entity.DbMenu
	if err := r.db.WithContext(ctx).First(&menu, id).Error; err != nil {
		return nil, translate(err, "菜单不存在")
	}
	return &menu, nil
}

// ListMenus returns every menu ordered for tree assembly.
func (r *GormRepository) ListMenus(ctx context.Context) ([]entity.DbMenu, error) {
	var menus []entity.DbMenu
	if err := r.db.WithContext(ctx).Order("sort ASC, id ASC").Find(&menus).Error; err != nil {
		return nil, translate(err, "菜单不存在")
	}
	return menus, nil
}

// CreateDept persists a new department.
func (r *GormRepository) CreateDept(ctx context.Context, dept *entity.DbDept) error {
	return translate(r.db.WithContext(ctx).Create(dept).Error, "部门不存在")
}

// UpdateDept rewrites the mutable columns of a department.
func (r *GormRepository) UpdateDept(ctx context.Context, dept *entity.DbDept) error {
	if dept == nil || dept.ID == 0 {
		return errs.New(errs.KindBadInput, "invalid dept")
	}
	result := r.db.WithContext(ctx).Model(&entity.DbDept{ID: dept.ID}).
		Where("del_flag = 0").
		Select("name", "parent_id", "sort", "leader", "phone", "email", "status").
		Updates(dept)
	if result.Error != nil {
		return translate(result.Error, "部门不存在")
	}
	if result.RowsAffected == 0 {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "部门不存在")
	}
	return nil
}

// DeleteDept soft-deletes a department. Departments with live children
// or assigned users cannot be removed.
func (r *GormRepository) DeleteDept(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var children int64
		if err := tx.Model(&entity.DbDept{}).Where("parent_id = ? AND del_flag = 0", id).Count(&children).Error; err != nil {
			return translate(err, "部门不存在")
		}
		if children > 0 {
			return errs.WithCode(errs.KindConflict, errs.CodeResourceReferenced, "存在子部门,无法删除")
		}
		var members int64
		if err := tx.Model(&entity.DbUser{}).Where("dept_id = ? AND del_flag = 0", id).Count(&members).Error; err != nil {
			return translate(err, "部门不存在")
		}
		if members > 0 {
			return errs.WithCode(errs.KindConflict, errs.CodeResourceReferenced, "部门下存在用户,无法删除")
		}
		result := tx.Model(&entity.DbDept{}).Where("id = ? AND del_flag = 0", id).Update("del_flag", 1)
		if result.Error != nil {
			return translate(result.Error, "部门不存在")
		}
		if result.RowsAffected == 0 {
			return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "部门不存在")
		}
		return nil
	})
}

// GetDept loads one live department.
func (r *GormRepository) GetDept(ctx context.Context, id int64) (*entity.DbDept, error) {
	var dept entity.DbDept
	if err := r.db.WithContext(ctx).Where("id = ? AND del_flag = 0", id).First(&dept).Error; err != nil {
		return nil, translate(err, "部门不存在")
	}
	return &dept, nil
}

// ListDepts returns live departments ordered for tree assembly.
func (r *GormRepository) ListDepts(ctx context.Context, params *entity.DeptQuery) ([]entity.DbDept, error) {
	query := r.db.WithContext(ctx).Where("del_flag = 0")
	if params != nil {
		if trimmed := strings.TrimSpace(params.Name); trimmed != "" {
			query = query.Where("name LIKE ?", "%"+trimmed+"%")
		}
		if params.Status != nil {
			query = query.Where("status = ?", *params.Status)
		}
	}
	var depts []entity.DbDept
	if err := query.Order("sort ASC, id ASC").Find(&depts).Error; err != nil {
		return nil, translate(err, "部门不存在")
	}
	return depts, nil
}

// CreateDataScope persists a new data scope.
func (r *GormRepository) CreateDataScope(ctx context.Context, scope *entity.DbDataScope) error {
	if scope != nil && (scope.Mode < entity.ScopeModeAll || scope.Mode > entity.ScopeModeSelf) {
		return errs.New(errs.KindBadInput, "非法的数据范围模式")
	}
	return translate(r.db.WithContext(ctx).Create(scope).Error, "数据范围不存在")
}

// UpdateDataScope rewrites the mutable columns of a data scope.
func (r *GormRepository) UpdateDataScope(ctx context.Context, scope *entity.DbDataScope) error {
	if scope == nil || scope.ID == 0 {
		return errs.New(errs.KindBadInput, "invalid data scope")
	}
	if scope.Mode < entity.ScopeModeAll || scope.Mode > entity.ScopeModeSelf {
		return errs.New(errs.KindBadInput, "非法的数据范围模式")
	}
	result := r.db.WithContext(ctx).Model(&entity.DbDataScope{ID: scope.ID}).
		Select("name", "mode", "status").
		Updates(scope)
	if result.Error != nil {
		return translate(result.Error, "数据范围不存在")
	}
	if result.RowsAffected == 0 {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "数据范围不存在")
	}
	return nil
}

// DeleteDataScope removes a data scope along with its bindings. Scopes
// still bound to roles cannot be removed.
func (r *GormRepository) DeleteDataScope(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bound int64
		if err := tx.Model(&entity.DbRoleDataScope{}).Where("data_scope_id = ?", id).Count(&bound).Error; err != nil {
			return translate(err, "数据范围不存在")
		}
		if bound > 0 {
			return errs.WithCode(errs.KindConflict, errs.CodeResourceReferenced, "数据范围已绑定角色,无法删除")
		}
		if err := tx.Where("data_scope_id = ?", id).Delete(&entity.DbDataScopeRule{}).Error; err != nil {
			return translate(err, "数据范围不存在")
		}
		if err := tx.Where("data_scope_id = ?", id).Delete(&entity.DbDataScopeDept{}).Error; err != nil {
			return translate(err, "数据范围不存在")
		}
		result := tx.Delete(&entity.DbDataScope{}, id)
		if result.Error != nil {
			return translate(result.Error, "数据范围不存在")
		}
		if result.RowsAffected == 0 {
			return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "数据范围不存在")
		}
		return nil
	})
}

// GetDataScope loads one data scope.
func (r *GormRepository) GetDataScope(ctx context.Context, id int64) (*entity.DbDataScope, error) {
	var scope entity.DbDataScope
	if err := r.db.WithContext(ctx).First(&scope, id).Error; err != nil {
		return nil, translate(err, "数据范围不存在")
	}
	return &scope, nil
}

// ListDataScopes returns paginated data scopes.
func (r *GormRepository) ListDataScopes(ctx context.Context, params *entity.BaseParams) ([]entity.DbDataScope, *entity.Meta, error) {
	query := r.db.WithContext(ctx).Model(&entity.DbDataScope{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, translate(err, "数据范围不存在")
	}

	p := entity.BaseParams{}
	if params != nil {
		p = *params
	}
	p.Normalize()

	var scopes []entity.DbDataScope
	if err := query.Order("id ASC").Offset(int((p.Page - 1) * p.Size)).Limit(int(p.Size)).Find(&scopes).Error; err != nil {
		return nil, nil, translate(err, "数据范围不存在")
	}
	return scopes, r.calculatePagination(total, p.Page, p.Size), nil
}

// SetScopeDepts replaces the explicit dept set of a custom scope.
func (r *GormRepository) SetScopeDepts(ctx context.Context, scopeID int64, deptIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entity.DbDataScope{}, scopeID).Error; err != nil {
			return translate(err, "数据范围不存在")
		}
		if len(deptIDs) > 0 {
			var count int64
			if err := tx.Model(&entity.DbDept{}).Where("id IN ? AND del_flag = 0", deptIDs).Count(&count).Error; err != nil {
				return translate(err, "部门不存在")
			}
			if count != int64(len(deptIDs)) {
				return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "部门不存在")
			}
		}
		if err := tx.Where("data_scope_id = ?", scopeID).Delete(&entity.DbDataScopeDept{}).Error; err != nil {
			return translate(err, "数据范围不存在")
		}
		for _, deptID := range deptIDs {
			if err := tx.Create(&entity.DbDataScopeDept{DataScopeID: scopeID, DeptID: deptID}).Error; err != nil {
				return translate(err, "部门不存在")
			}
		}
		return nil
	})
}

// SetScopeRules replaces the rule set of a data scope.
func (r *GormRepository) SetScopeRules(ctx context.Context, scopeID int64, ruleIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entity.DbDataScope{}, scopeID).Error; err != nil {
			return translate(err, "数据范围不存在")
		}
		if len(ruleIDs) > 0 {
			var count int64
			if err := tx.Model(&entity.DbDataRule{}).Where("id IN ?", ruleIDs).Count(&count).Error; err != nil {
				return translate(err, "数据规则不存在")
			}
			if count != int64(len(ruleIDs)) {
				return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "数据规则不存在")
			}
		}
		if err := tx.Where("data_scope_id = ?", scopeID).Delete(&entity.DbDataScopeRule{}).Error; err != nil {
			return translate(err, "数据范围不存在")
		}
		for _, ruleID := range ruleIDs {
			if err := tx.Create(&entity.DbDataScopeRule{DataScopeID: scopeID, DataRuleID: ruleID}).Error; err != nil {
				return translate(err, "数据规则不存在")
			}
		}
		return nil
	})
}

// ListScopeRuleIDs returns the rule IDs bound to a data scope.
func (r *GormRepository) ListScopeRuleIDs(ctx context.Context, scopeID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&entity.DbDataScopeRule{}).
		Where("data_scope_id = ?", scopeID).Pluck("data_rule_id", &ids).Error
	if err != nil {
		return nil, translate(err, "数据范围不存在")
	}
	return ids, nil
}

// CreateDataRule validates and persists a new data rule.
func (r *GormRepository) CreateDataRule(ctx context.Context, rule *entity.DbDataRule) error {
	if err := rbac.ValidateRule(rule); err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Create(rule).Error, "数据规则不存在")
}

// UpdateDataRule validates and rewrites a data rule.
func (r *GormRepository) UpdateDataRule(ctx context.Context, rule *entity.DbDataRule) error {
	if rule == nil || rule.ID == 0 {
		return errs.New(errs.KindBadInput, "invalid data rule")
	}
	if err := rbac.ValidateRule(rule); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&entity.DbDataRule{ID: rule.ID}).
		Select("name", "model", "column_name", "operator", "expression", "value").
		Updates(map[string]interface{}{
			"name":        rule.Name,
			"model":       rule.Model,
			"column_name": rule.Column,
			"operator":    rule.Operator,
			"expression":  rule.Expression,
			"value":       rule.Value,
		})
	if result.Error != nil {
		return translate(result.Error, "数据规则不存在")
	}
	if result.RowsAffected == 0 {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "数据规则不存在")
	}
	return nil
}

// DeleteDataRule removes a data rule. Rules still bound to scopes stay.
func (r *GormRepository) DeleteDataRule(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bound int64
		if err := tx.Model(&entity.DbDataScopeRule{}).Where("data_rule_id = ?", id).Count(&bound).Error; err != nil {
			return translate(err, "数据规则不存在")
		}
		if bound > 0 {
			return errs.WithCode(errs.KindConflict, errs.CodeResourceReferenced, "数据规则已绑定数据范围,无法删除")
		}
		result := tx.Delete(&entity.DbDataRule{}, id)
		if result.Error != nil {
			return translate(result.Error, "数据规则不存在")
		}
		if result.RowsAffected == 0 {
			return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "数据规则不存在")
		}
		return nil
	})
}

// GetDataRule loads one data rule.
func (r *GormRepository) GetDataRule(ctx context.Context, id int64) (*entity.DbDataRule, error) {
	var rule entity.DbDataRule
	if err := r.db.WithContext(ctx).First(&rule, id).Error; err != nil {
		return nil, translate(err, "数据规则不存在")
	}
	return &rule, nil
}

// ListDataRules returns paginated data rules.
func (r *GormRepository) ListDataRules(ctx context.Context, params *entity.BaseParams) ([]entity.DbDataRule, *entity.Meta, error) {
	query := r.db.WithContext(ctx).Model(&entity.DbDataRule{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, translate(err, "数据规则不存在")
	}

	p := entity.BaseParams{}
	if params != nil {
		p = *params
	}
	p.Normalize()

	var rules []entity.DbDataRule
	if err := query.Order("id ASC").Offset(int((p.Page - 1) * p.Size)).Limit(int(p.Size)).Find(&rules).Error; err != nil {
		return nil, nil, translate(err, "数据规则不存在")
	}
	return rules, r.calculatePagination(total, p.Page, p.Size), nil
}

// ListRolesByUser returns the roles bound to a user.
func (r *GormRepository) ListRolesByUser(ctx context.Context, userID int64) ([]entity.DbRole, error) {
	var roles []entity.DbRole
	err := r.db.WithContext(ctx).
		Joins("JOIN sys_user_role ON sys_user_role.role_id = sys_role.id").
		Where("sys_user_role.user_id = ?", userID).
		Order("sys_role.sort ASC").
		Find(&roles).Error
	if err != nil {
		return nil, translate(err, "角色不存在")
	}
	return roles, nil
}

// ListMenusByRoles returns the union of menus bound to the given roles.
func (r *GormRepository) ListMenusByRoles(ctx context.Context, roleIDs []int64) ([]entity.DbMenu, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}
	var menus []entity.DbMenu
	err := r.db.WithContext(ctx).
		Distinct("sys_menu.*").
		Joins("JOIN sys_role_menu ON sys_role_menu.menu_id = sys_menu.id").
		Where("sys_role_menu.role_id IN ? AND sys_menu.status = ?", roleIDs, entity.StatusActive).
		Find(&menus).Error
	if err != nil {
		return nil, translate(err, "菜单不存在")
	}
	return menus, nil
}

// ListScopesByRole returns the data scopes bound to a role.
func (r *GormRepository) ListScopesByRole(ctx context.Context, roleID int64) ([]entity.DbDataScope, error) {
	var scopes []entity.DbDataScope
	err := r.db.WithContext(ctx).
		Joins("JOIN sys_role_data_scope ON sys_role_data_scope.data_scope_id = sys_data_scope.id").
		Where("sys_role_data_scope.role_id = ?", roleID).
		Find(&scopes).Error
	if err != nil {
		return nil, translate(err, "数据范围不存在")
	}
	return scopes, nil
}

// ListScopeDeptIDs returns the explicit dept set of a custom scope.
func (r *GormRepository) ListScopeDeptIDs(ctx context.Context, scopeID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&entity.DbDataScopeDept{}).
		Where("data_scope_id = ?", scopeID).Pluck("dept_id", &ids).Error
	if err != nil {
		return nil, translate(err, "数据范围不存在")
	}
	return ids, nil
}

// ListRulesByScopes returns the union of rules bound to the given scopes.
func (r *GormRepository) ListRulesByScopes(ctx context.Context, scopeIDs []int64) ([]entity.DbDataRule, error) {
	if len(scopeIDs) == 0 {
		return nil, nil
	}
	var rules []entity.DbDataRule
	err := r.db.WithContext(ctx).
		Distinct("sys_data_rule.*").
		Joins("JOIN sys_data_scope_rule ON sys_data_scope_rule.data_rule_id = sys_data_rule.id").
		Where("sys_data_scope_rule.data_scope_id IN ?", scopeIDs).
		Find(&rules).Error
	if err != nil {
		return nil, translate(err, "数据规则不存在")
	}
	return rules, nil
}

// ListDeptAndChildren walks the dept tree from deptID downwards and
// returns every live dept visited, the root included.
func (r *GormRepository) ListDeptAndChildren(ctx context.Context, deptID int64) ([]int64, error) {
	var depts []entity.DbDept
	if err := r.db.WithContext(ctx).Where("del_flag = 0").Find(&depts).Error; err != nil {
		return nil, translate(err, "部门不存在")
	}

	children := make(map[int64][]int64, len(depts))
	for _, dept := range depts {
		if dept.ParentID != nil {
			children[*dept.ParentID] = append(children[*dept.ParentID], dept.ID)
		}
	}

	result := []int64{deptID}
	for i := 0; i < len(result); i++ {
		result = append(result, children[result[i]]...)
	}
	return result, nil
}
