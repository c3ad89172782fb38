package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"admind/internal/entity"
)

func (h *HTTPHandler) configCacheKey(key string) string {
	return h.cfg.ConfigPrefix + ":" + key
}

// cachedConfigValue 按键取系统参数值,KV 缓存一小时
func (h *HTTPHandler) cachedConfigValue(ctx context.Context, key string) (string, error) {
	return h.cache.GetOrCompute(ctx, h.configCacheKey(key), h.cfg.ConfigCacheTTL, func(ctx context.Context) (string, error) {
		cfg, err := h.repo.GetConfigByKey(ctx, key)
		if err != nil {
			return "", err
		}
		return cfg.Value, nil
	})
}

func (h *HTTPHandler) ListConfigs(c *gin.Context) {
	var params entity.BaseParams
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c)
		return
	}
	configs, meta, err := h.repo.ListConfigs(c.Request.Context(), &params)
	if err != nil {
		Fail(c, err)
		return
	}
	OKPage(c, configs, meta)
}

// GetConfigValue 按键返回参数值,走 KV 缓存
func (h *HTTPHandler) GetConfigValue(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		InvalidPayload(c)
		return
	}
	value, err := h.cachedConfigValue(c.Request.Context(), key)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"key": key, "value": value})
}

func (h *HTTPHandler) CreateConfig(c *gin.Context) {
	var req entity.CreateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	cfg := &entity.DbConfig{
		Name:   req.Name,
		Key:    req.Key,
		Value:  req.Value,
		Remark: req.Remark,
	}
	if err := h.repo.CreateConfig(c.Request.Context(), cfg); err != nil {
		Fail(c, err)
		return
	}
	OK(c, cfg)
}

func (h *HTTPHandler) UpdateConfig(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req entity.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()

	current, err := h.repo.GetConfig(ctx, id)
	if err != nil {
		Fail(c, err)
		return
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Value != nil {
		current.Value = *req.Value
	}
	if req.Remark != nil {
		current.Remark = *req.Remark
	}

	if err := h.repo.UpdateConfig(ctx, current); err != nil {
		Fail(c, err)
		return
	}
	if err := h.cache.Invalidate(ctx, h.configCacheKey(current.Key)); err != nil {
		Fail(c, err)
		return
	}
	OK(c, current)
}

func (h *HTTPHandler) DeleteConfig(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.repo.DeleteConfig(ctx, id); err != nil {
		Fail(c, err)
		return
	}
	if err := h.cache.InvalidatePrefix(ctx, h.cfg.ConfigPrefix+":"); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
