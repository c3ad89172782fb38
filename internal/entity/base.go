package entity

const (
	// StatusDisabled 停用
	StatusDisabled = 0
	// StatusActive 正常
	StatusActive = 1
)

// Meta 分页元信息
type Meta struct {
	Page       int64 `json:"page"`
	Size       int64 `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// BaseParams 列表查询通用参数
type BaseParams struct {
	Page int64 `json:"page" form:"page"`
	Size int64 `json:"size" form:"size"`
}

// Normalize 填充默认分页参数
func (p *BaseParams) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = 20
	}
	if p.Size > 100 {
		p.Size = 100
	}
}
