package sql

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"admind/internal/entity"
	"admind/internal/errs"
	"admind/internal/rbac"
)

// CreateUser persists a new user record.
func (r *GormRepository) CreateUser(ctx context.Context, user *entity.DbUser) error {
	if user == nil {
		return errs.New(errs.KindBadInput, "user is nil")
	}
	return translate(r.db.WithContext(ctx).Create(user).Error, "用户不存在")
}

// UpdateUser applies the non-nil fields of updates to an existing user.
func (r *GormRepository) UpdateUser(ctx context.Context, id int64, updates entity.UserUpdates) error {
	if id == 0 {
		return errs.New(errs.KindBadInput, "invalid user id")
	}
	if updates.IsEmpty() {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.DbUser{}).
		Where("id = ? AND del_flag = 0", id).
		Updates(updates.ToMap())
	if result.Error != nil {
		return translate(result.Error, "用户不存在")
	}
	if result.RowsAffected == 0 {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "用户不存在")
	}
	return nil
}

// GetUserByID loads a user by ID, deleted rows excluded.
func (r *GormRepository) GetUserByID(ctx context.Context, id int64) (*entity.DbUser, error) {
	var user entity.DbUser
	err := r.db.WithContext(ctx).Where("id = ? AND del_flag = 0", id).First(&user).Error
	if err != nil {
		return nil, translate(err, "用户不存在")
	}
	return &user, nil
}

// GetUserByUsername loads a user by the exact login name.
func (r *GormRepository) GetUserByUsername(ctx context.Context, username string) (*entity.DbUser, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return nil, errs.New(errs.KindBadInput, "username is empty")
	}
	var user entity.DbUser
	err := r.db.WithContext(ctx).Where("username = ? AND del_flag = 0", trimmed).First(&user).Error
	if err != nil {
		return nil, translate(err, "用户不存在")
	}
	return &user, nil
}

// ListUsers returns paginated users honoring the caller's data scope.
func (r *GormRepository) ListUsers(ctx context.Context, params *entity.UserQuery, filter rbac.ScopeFilter, cond rbac.Condition) ([]entity.DbUser, *entity.Meta, error) {
	query := r.db.WithContext(ctx).Model(&entity.DbUser{}).Where("del_flag = 0")
	if params != nil {
		if trimmed := strings.TrimSpace(params.Username); trimmed != "" {
			query = query.Where("username LIKE ?", "%"+trimmed+"%")
		}
		if trimmed := strings.TrimSpace(params.Nickname); trimmed != "" {
			query = query.Where("nickname LIKE ?", "%"+trimmed+"%")
		}
		if params.Status != nil {
			query = query.Where("status = ?", *params.Status)
		}
		if params.DeptID != nil {
			query = query.Where("dept_id = ?", *params.DeptID)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + keyword + "%"
			query = query.Where("username LIKE ? OR nickname LIKE ? OR email LIKE ?", kw, kw, kw)
		}
	}
	// scope: a user row belongs to its own dept and to itself
	query = applyScopeFilter(query, filter, "dept_id", "id")
	query = applyRuleCondition(query, cond)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, translate(err, "用户不存在")
	}

	p := entity.BaseParams{}
	if params != nil {
		p = params.BaseParams
	}
	p.Normalize()

	var users []entity.DbUser
	offset := (p.Page - 1) * p.Size
	if err := query.Order("id DESC").Offset(int(offset)).Limit(int(p.Size)).Find(&users).Error; err != nil {
		return nil, nil, translate(err, "用户不存在")
	}

	return users, r.calculatePagination(total, p.Page, p.Size), nil
}

// DeleteUser marks a user deleted without dropping the row.
func (r *GormRepository) DeleteUser(ctx context.Context, id int64) error {
	if id == 0 {
		return errs.New(errs.KindBadInput, "invalid user id")
	}
	result := r.db.WithContext(ctx).Model(&entity.DbUser{}).
		Where("id = ? AND del_flag = 0", id).
		Update("del_flag", 1)
	if result.Error != nil {
		return translate(result.Error, "用户不存在")
	}
	if result.RowsAffected == 0 {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "用户不存在")
	}
	return nil
}

// TouchLastLogin stamps a successful login.
func (r *GormRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return translate(r.db.WithContext(ctx).Model(&entity.DbUser{}).
		Where("id = ?", id).
		Update("last_login_time", at).Error, "用户不存在")
}

// SetUserRoles replaces a user's role bindings in one transaction.
func (r *GormRepository) SetUserRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user entity.DbUser
		if err := tx.Where("id = ? AND del_flag = 0", userID).First(&user).Error; err != nil {
			return translate(err, "用户不存在")
		}
		if len(roleIDs) > 0 {
			var count int64
			if err := tx.Model(&entity.DbRole{}).Where("id IN ?", roleIDs).Count(&count).Error; err != nil {
				return translate(err, "角色不存在")
			}
			if count != int64(len(roleIDs)) {
				return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "角色不存在")
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&entity.DbUserRole{}).Error; err != nil {
			return translate(err, "用户不存在")
		}
		for _, roleID := range roleIDs {
			if err := tx.Create(&entity.DbUserRole{UserID: userID, RoleID: roleID}).Error; err != nil {
				return translate(err, "角色不存在")
			}
		}
		return nil
	})
}

// ListUserIDsByRole returns the IDs of users bound to a role.
func (r *GormRepository) ListUserIDsByRole(ctx context.Context, roleID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&entity.DbUserRole{}).
		Where("role_id = ?", roleID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, translate(err, "角色不存在")
	}
	return ids, nil
}
