package api

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"admind/internal/entity"
	"admind/internal/errs"
)

func (h *HTTPHandler) dictCacheKey(typeCode string) string {
	return h.cfg.DictPrefix + ":" + typeCode
}

// cachedDictData 按类型码取启用的字典条目,KV 缓存一小时
func (h *HTTPHandler) cachedDictData(ctx context.Context, typeCode string) ([]entity.DbDictData, error) {
	payload, err := h.cache.GetOrCompute(ctx, h.dictCacheKey(typeCode), h.cfg.DictCacheTTL, func(ctx context.Context) (string, error) {
		status := entity.StatusActive
		entries, _, err := h.repo.ListDictData(ctx, &entity.DictDataQuery{
			BaseParams: entity.BaseParams{Page: 1, Size: 100},
			TypeCode:   typeCode,
			Status:     &status,
		})
		if err != nil {
			return "", err
		}
		raw, err := json.Marshal(entries)
		if err != nil {
			return "", errs.Wrap(errs.KindInternal, "marshal dict entries", err)
		}
		return string(raw), nil
	})
	if err != nil {
		return nil, err
	}
	var entries []entity.DbDictData
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "decode dict cache", err)
	}
	return entries, nil
}

func (h *HTTPHandler) ListDictTypes(c *gin.Context) {
	var params entity.BaseParams
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c)
		return
	}
	types, meta, err := h.repo.ListDictTypes(c.Request.Context(), &params)
	if err != nil {
		Fail(c, err)
		return
	}
	OKPage(c, types, meta)
}

func (h *HTTPHandler) CreateDictType(c *gin.Context) {
	var req entity.CreateDictTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	dt := &entity.DbDictType{
		Name:   req.Name,
		Code:   req.Code,
		Status: entity.StatusActive,
		Remark: req.Remark,
	}
	if req.Status != nil {
		dt.Status = *req.Status
	}

	if err := h.repo.CreateDictType(c.Request.Context(), dt); err != nil {
		Fail(c, err)
		return
	}
	OK(c, dt)
}

func (h *HTTPHandler) UpdateDictType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req entity.CreateDictTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()

	dt := &entity.DbDictType{
		ID:     id,
		Name:   req.Name,
		Code:   req.Code,
		Status: entity.StatusActive,
		Remark: req.Remark,
	}
	if req.Status != nil {
		dt.Status = *req.Status
	}

	if err := h.repo.UpdateDictType(ctx, dt); err != nil {
		Fail(c, err)
		return
	}
	if err := h.cache.InvalidatePrefix(ctx, h.cfg.DictPrefix+":"); err != nil {
		Fail(c, err)
		return
	}
	OK(c, dt)
}

func (h *HTTPHandler) DeleteDictType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.repo.DeleteDictType(ctx, id); err != nil {
		Fail(c, err)
		return
	}
	if err := h.cache.InvalidatePrefix(ctx, h.cfg.DictPrefix+":"); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *HTTPHandler) ListDictData(c *gin.Context) {
	var query entity.DictDataQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}
	entries, meta, err := h.repo.ListDictData(c.Request.Context(), &query)
	if err != nil {
		Fail(c, err)
		return
	}
	OKPage(c, entries, meta)
}

// GetDictByType 返回某个类型的启用条目,走 KV 缓存
func (h *HTTPHandler) GetDictByType(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		InvalidPayload(c)
		return
	}
	entries, err := h.cachedDictData(c.Request.Context(), code)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, entries)
}

func (h *HTTPHandler) CreateDictData(c *gin.Context) {
	var req entity.CreateDictDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()

	dd := &entity.DbDictData{
		TypeCode: req.TypeCode,
		Label:    req.Label,
		Value:    req.Value,
		Sort:     req.Sort,
		Status:   entity.StatusActive,
		Remark:   req.Remark,
	}
	if req.Status != nil {
		dd.Status = *req.Status
	}

	if err := h.repo.CreateDictData(ctx, dd); err != nil {
		Fail(c, err)
		return
	}
	if err := h.cache.Invalidate(ctx, h.dictCacheKey(dd.TypeCode)); err != nil {
		Fail(c, err)
		return
	}
	OK(c, dd)
}

func (h *HTTPHandler) UpdateDictData(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req entity.CreateDictDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()

	dd := &entity.DbDictData{
		ID:       id,
		TypeCode: req.TypeCode,
		Label:    req.Label,
		Value:    req.Value,
		Sort:     req.Sort,
		Status:   entity.StatusActive,
		Remark:   req.Remark,
	}
	if req.Status != nil {
		dd.Status = *req.Status
	}

	if err := h.repo.UpdateDictData(ctx, dd); err != nil {
		Fail(c, err)
		return
	}
	if err := h.cache.Invalidate(ctx, h.dictCacheKey(dd.TypeCode)); err != nil {
		Fail(c, err)
		return
	}
	OK(c, dd)
}

func (h *HTTPHandler) DeleteDictData(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.repo.DeleteDictData(ctx, id); err != nil {
		Fail(c, err)
		return
	}
	if err := h.cache.InvalidatePrefix(ctx, h.cfg.DictPrefix+":"); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
