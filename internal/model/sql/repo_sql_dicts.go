package sql

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"admind/internal/entity"
	"admind/internal/errs"
)

// CreateDictType persists a new dictionary type.
func (r *GormRepository) CreateDictType(ctx context.Context, dt *entity.DbDictType) error {
	return translate(r.db.WithContext(ctx).Create(dt).Error, "字典类型不存在")
}

// UpdateDictType rewrites the mutable columns of a dictionary type.
func (r *GormRepository) UpdateDictType(ctx context.Context, dt *entity.DbDictType) error {
	if dt == nil || dt.ID == 0 {
		return errs.New(errs.KindBadInput, "invalid dict type")
	}
	result := r.db.WithContext(ctx).Model(&entity.DbDictType{ID: dt.ID}).
		Select("name", "code", "status", "remark").
		Updates(dt)
	if result.Error != nil {
		return translate(result.Error, "字典类型不存在")
	}
	if result.RowsAffected == 0 {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "字典类型不存在")
	}
	return nil
}

// DeleteDictType removes a dictionary type and its entries in one
// transaction.
func (r *GormRepository) DeleteDictType(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dt entity.DbDictType
		if err := tx.First(&dt, id).Error; err != nil {
			return translate(err, "字典类型不存在")
		}
		if err := tx.Where("type_code = ?", dt.Code).Delete(&entity.DbDictData{}).Error; err != nil {
			return translate(err, "字典类型不存在")
		}
		return translate(tx.Delete(&entity.DbDictType{}, id).Error, "字典类型不存在")
	})
}

// ListDictTypes returns paginated dictionary types.
func (r *GormRepository) ListDictTypes(ctx context.Context, params *entity.BaseParams) ([]entity.DbDictType, *entity.Meta, error) {
	query := r.db.WithContext(ctx).Model(&entity.DbDictType{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, translate(err, "字典类型不存在")
	}

	p := entity.BaseParams{}
	if params != nil {
		p = *params
	}
	p.Normalize()

	var types []entity.DbDictType
	if err := query.Order("id ASC").Offset(int((p.Page - 1) * p.Size)).Limit(int(p.Size)).Find(&types).Error; err != nil {
		return nil, nil, translate(err, "字典类型不存在")
	}
	return types, r.calculatePagination(total, p.Page, p.Size), nil
}

// GetDictTypeByCode loads a dictionary type by its stable code.
func (r *GormRepository) GetDictTypeByCode(ctx context.Context, code string) (*entity.DbDictType, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, errs.New(errs.KindBadInput, "dict code is empty")
	}
	var dt entity.DbDictType
	if err := r.db.WithContext(ctx).Where("code = ?", trimmed).First(&dt).Error; err != nil {
		return nil, translate(err, "字典类型不存在")
	}
	return &dt, nil
}

// CreateDictData persists a new dictionary entry after checking its
// type exists.
func (r *GormRepository) CreateDictData(ctx context.Context, dd *entity.DbDictData) error {
	if dd == nil {
		return errs.New(errs.KindBadInput, "dict data is nil")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbDictType{}).Where("code = ?", dd.TypeCode).Count(&count).Error; err != nil {
		return translate(err, "字典类型不存在")
	}
	if count == 0 {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "字典类型不存在")
	}
	return translate(r.db.WithContext(ctx).Create(dd).Error, "字典条目不存在")
}

// UpdateDictData rewrites the mutable columns of a dictionary entry.
func (r *GormRepository) UpdateDictData(ctx context.Context, dd *entity.DbDictData) error {
	if dd == nil || dd.ID == 0 {
		return errs.New(errs.KindBadInput, "invalid dict data")
	}
	result := r.db.WithContext(ctx).Model(&entity.DbDictData{ID: dd.ID}).
		Select("label", "value", "sort", "status", "remark").
		Updates(dd)
	if result.Error != nil {
		return translate(result.Error, "字典条目不存在")
	}
	if result.RowsAffected == 0 {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "字典条目不存在")
	}
	return nil
}

// DeleteDictData removes a dictionary entry.
func (r *GormRepository) DeleteDictData(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&entity.DbDictData{}, id)
	if result.Error != nil {
		return translate(result.Error, "字典条目不存在")
	}
	if result.RowsAffected == 0 {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "字典条目不存在")
	}
	return nil
}

// ListDictData returns paginated dictionary entries.
func (r *GormRepository) ListDictData(ctx context.Context, params *entity.DictDataQuery) ([]entity.DbDictData, *entity.Meta, error) {
	query := r.db.WithContext(ctx).Model(&entity.DbDictData{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.TypeCode); trimmed != "" {
			query = query.Where("type_code = ?", trimmed)
		}
		if trimmed := strings.TrimSpace(params.Label); trimmed != "" {
			query = query.Where("label LIKE ?", "%"+trimmed+"%")
		}
		if params.Status != nil {
			query = query.Where("status = ?", *params.Status)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, translate(err, "字典条目不存在")
	}

	p := entity.BaseParams{}
	if params != nil {
		p = params.BaseParams
	}
	p.Normalize()

	var entries []entity.DbDictData
	if err := query.Order("sort ASC, id ASC").Offset(int((p.Page - 1) * p.Size)).Limit(int(p.Size)).Find(&entries).Error; err != nil {
		return nil, nil, translate(err, "字典条目不存在")
	}
	return entries, r.calculatePagination(total, p.Page, p.Size), nil
}

// CreateConfig persists a new system parameter.
func (r *GormRepository) CreateConfig(ctx context.Context, cfg *entity.DbConfig) error {
	return translate(r.db.WithContext(ctx).Create(cfg).Error, "参数不存在")
}

// UpdateConfig rewrites a system parameter. Built-in parameters keep
// their key.
func (r *GormRepository) UpdateConfig(ctx context.Context, cfg *entity.DbConfig) error {
	if cfg == nil || cfg.ID == 0 {
		return errs.New(errs.KindBadInput, "invalid config")
	}
	var current entity.DbConfig
	if err := r.db.WithContext(ctx).First(&current, cfg.ID).Error; err != nil {
		return translate(err, "参数不存在")
	}
	if current.Builtin && current.Key != cfg.Key {
		return errs.New(errs.KindBadInput, "内置参数不允许修改键名")
	}
	return translate(r.db.WithContext(ctx).Model(&entity.DbConfig{ID: cfg.ID}).
		Select("name", "cfg_key", "cfg_value", "remark").
		Updates(map[string]interface{}{
			"name":      cfg.Name,
			"cfg_key":   cfg.Key,
			"cfg_value": cfg.Value,
			"remark":    cfg.Remark,
		}).Error, "参数不存在")
}

// DeleteConfig removes a system parameter. Built-in parameters stay.
func (r *GormRepository) DeleteConfig(ctx context.Context, id int64) error {
	var current entity.DbConfig
	if err := r.db.WithContext(ctx).First(&current, id).Error; err != nil {
		return translate(err, "参数不存在")
	}
	if current.Builtin {
		return errs.New(errs.KindBadInput, "内置参数不允许删除")
	}
	return translate(r.db.WithContext(ctx).Delete(&entity.DbConfig{}, id).Error, "参数不存在")
}

// GetConfig loads a system parameter by ID.
func (r *GormRepository) GetConfig(ctx context.Context, id int64) (*entity.DbConfig, error) {
	var cfg entity.DbConfig
	if err := r.db.WithContext(ctx).First(&cfg, id).Error; err != nil {
		return nil, translate(err, "参数不存在")
	}
	return &cfg, nil
}

// GetConfigByKey loads a system parameter by key.
func (r *GormRepository) GetConfigByKey(ctx context.Context, key string) (*entity.DbConfig, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, errs.New(errs.KindBadInput, "config key is empty")
	}
	var cfg entity.DbConfig
	if err := r.db.WithContext(ctx).Where("cfg_key = ?", trimmed).First(&cfg).Error; err != nil {
		return nil, translate(err, "参数不存在")
	}
	return &cfg, nil
}

// ListConfigs returns paginated system parameters.
func (r *GormRepository) ListConfigs(ctx context.Context, params *entity.BaseParams) ([]entity.DbConfig, *entity.Meta, error) {
	query := r.db.WithContext(ctx).Model(&entity.DbConfig{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, translate(err, "参数不存在")
	}

	p := entity.BaseParams{}
	if params != nil {
		p = *params
	}
	p.Normalize()

	var configs []entity.DbConfig
	if err := query.Order("id ASC").Offset(int((p.Page - 1) * p.Size)).Limit(int(p.Size)).Find(&configs).Error; err != nil {
		return nil, nil, translate(err, "参数不存在")
	}
	return configs, r.calculatePagination(total, p.Page, p.Size), nil
}

// CreateNotice persists a new notice.
func (r *GormRepository) CreateNotice(ctx context.Context, notice *entity.DbNotice) error {
	return translate(r.db.WithContext(ctx).Create(notice).Error, "公告不存在")
}

// UpdateNotice rewrites the mutable columns of a notice.
func (r *GormRepository) UpdateNotice(ctx context.Context, notice *entity.DbNotice) error {
	if notice == nil || notice.ID == 0 {
		return errs.New(errs.KindBadInput, "invalid notice")
	}
	result := r.db.WithContext(ctx).Model(&entity.DbNotice{ID: notice.ID}).
		Select("title", "type", "content", "status").
		Updates(notice)
	if result.Error != nil {
		return translate(result.Error, "公告不存在")
	}
	if result.RowsAffected == 0 {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "公告不存在")
	}
	return nil
}

// DeleteNotice removes a notice.
func (r *GormRepository) DeleteNotice(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&entity.DbNotice{}, id)
	if result.Error != nil {
		return translate(result.Error, "公告不存在")
	}
	if result.RowsAffected == 0 {
		return errs.WithCode(errs.KindNotFound, errs.CodeResourceNotFound, "公告不存在")
	}
	return nil
}

// GetNotice loads one notice.
func (r *GormRepository) GetNotice(ctx context.Context, id int64) (*entity.DbNotice, error) {
	var notice entity.DbNotice
	if err := r.db.WithContext(ctx).First(&notice, id).Error; err != nil {
		return nil, translate(err, "公告不存在")
	}
	return &notice, nil
}

// ListNotices returns paginated notices, newest first.
func (r *GormRepository) ListNotices(ctx context.Context, params *entity.BaseParams) ([]entity.DbNotice, *entity.Meta, error) {
	query := r.db.WithContext(ctx).Model(&entity.DbNotice{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, translate(err, "公告不存在")
	}

	p := entity.BaseParams{}
	if params != nil {
		p = *params
	}
	p.Normalize()

	var notices []entity.DbNotice
	if err := query.Order("id DESC").Offset(int((p.Page - 1) * p.Size)).Limit(int(p.Size)).Find(&notices).Error; err != nil {
		return nil, nil, translate(err, "公告不存在")
	}
	return notices, r.calculatePagination(total, p.Page, p.Size), nil
}
