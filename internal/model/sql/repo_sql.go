package sql

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"admind/internal/entity"
	"admind/internal/errs"
	"admind/internal/rbac"
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// calculatePagination calculates pagination metrics
func (r *GormRepository) calculatePagination(totalCount, page, size int64) *entity.Meta {
	if size <= 0 {
		size = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := totalCount / size
	if totalCount%size != 0 {
		totalPages++
	}
	return &entity.Meta{
		Total:      totalCount,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}

// translate maps GORM errors onto domain error kinds.
func translate(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, notFoundMsg)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint") || strings.Contains(err.Error(), "Duplicate entry") {
		return errs.WithCode(errs.KindConflict, errs.CodeResourceExists, "资源已存在")
	}
	return errs.Wrap(errs.KindInternal, "数据库操作失败", err)
}

// applyScopeFilter pushes a row-level scope filter into the query.
// An empty filter is the identity. When no dept or user set survived
// resolution the caller only sees rows it owns.
func applyScopeFilter(q *gorm.DB, filter rbac.ScopeFilter, deptCol, ownerCol string) *gorm.DB {
	if !filter.Enabled || filter.ViewAll {
		return q
	}
	switch {
	case len(filter.DeptIDs) > 0 && len(filter.UserIDs) > 0:
		return q.Where(deptCol+" IN ? OR "+ownerCol+" IN ?", filter.DeptIDs, filter.UserIDs)
	case len(filter.DeptIDs) > 0:
		return q.Where(deptCol+" IN ?", filter.DeptIDs)
	case len(filter.UserIDs) > 0:
		return q.Where(ownerCol+" IN ?", filter.UserIDs)
	default:
		return q.Where(ownerCol+" = ?", filter.CallerID)
	}
}

// applyRuleCondition appends an evaluated data-rule fragment.
func applyRuleCondition(q *gorm.DB, cond rbac.Condition) *gorm.DB {
	if cond.Empty() {
		return q
	}
	return q.Where(cond.Query, cond.Args...)
}
