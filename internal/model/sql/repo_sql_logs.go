package sql

import (
	"context"
	"strings"

	"admind/internal/entity"
	"admind/internal/errs"
	"admind/internal/rbac"
)

// CreateFileInfo persists upload metadata.
func (r *GormRepository) CreateFileInfo(ctx context.Context, file *entity.DbFileInfo) error {
	return translate(r.db.WithContext(ctx).Create(file).Error, "文件不存在")
}

// GetFileInfo loads one file record.
func (r *GormRepository) GetFileInfo(ctx context.Context, id int64) (*entity.DbFileInfo, error) {
	var file entity.DbFileInfo
	if err := r.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return nil, translate(err, "文件不存在")
	}
	return &file, nil
}

// DeleteFileInfo removes a file record.
func (r *GormRepository) DeleteFileInfo(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&entity.DbFileInfo{}, id)
	if result.Error != nil {
		return translate(result.Error, "文件不存在")
	}
	if result.RowsAffected == 0 {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "文件不存在")
	}
	return nil
}

// ListFiles returns paginated file records. File rows carry no dept,
// so the scope filter falls back to the uploader column only.
func (r *GormRepository) ListFiles(ctx context.Context, params *entity.FileQuery, filter rbac.ScopeFilter) ([]entity.DbFileInfo, *entity.Meta, error) {
	query := r.db.WithContext(ctx).Model(&entity.DbFileInfo{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.Name); trimmed != "" {
			query = query.Where("name LIKE ?", "%"+trimmed+"%")
		}
	}
	if filter.Enabled && !filter.ViewAll {
		if len(filter.UserIDs) > 0 {
			query = query.Where("uploader_id IN ? OR uploader_id = ?", filter.UserIDs, filter.CallerID)
		} else {
			query = query.Where("uploader_id = ?", filter.CallerID)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, translate(err, "文件不存在")
	}

	p := entity.BaseParams{}
	if params != nil {
		p = params.BaseParams
	}
	p.Normalize()

	var files []entity.DbFileInfo
	if err := query.Order("id DESC").Offset(int((p.Page - 1) * p.Size)).Limit(int(p.Size)).Find(&files).Error; err != nil {
		return nil, nil, translate(err, "文件不存在")
	}
	return files, r.calculatePagination(total, p.Page, p.Size), nil
}

// CreateLoginLog appends one login attempt record.
func (r *GormRepository) CreateLoginLog(ctx context.Context, rec *entity.DbLoginLog) error {
	return translate(r.db.WithContext(ctx).Create(rec).Error, "登录日志不存在")
}

// ListLoginLogs returns paginated login attempts, newest first.
func (r *GormRepository) ListLoginLogs(ctx context.Context, params *entity.LoginLogQuery) ([]entity.DbLoginLog, *entity.Meta, error) {
	query := r.db.WithContext(ctx).Model(&entity.DbLoginLog{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.Username); trimmed != "" {
			query = query.Where("username LIKE ?", "%"+trimmed+"%")
		}
		if params.Status != nil {
			query = query.Where("status = ?", *params.Status)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, translate(err, "登录日志不存在")
	}

	p := entity.BaseParams{}
	if params != nil {
		p = params.BaseParams
	}
	p.Normalize()

	var logs []entity.DbLoginLog
	if err := query.Order("id DESC").Offset(int((p.Page - 1) * p.Size)).Limit(int(p.Size)).Find(&logs).Error; err != nil {
		return nil, nil, translate(err, "登录日志不存在")
	}
	return logs, r.calculatePagination(total, p.Page, p.Size), nil
}

// DeleteLoginLogs removes the given log rows.
func (r *GormRepository) DeleteLoginLogs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&entity.DbLoginLog{}).Error, "登录日志不存在")
}
