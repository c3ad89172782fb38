package api

import (
	"github.com/gin-gonic/gin"

	"admind/internal/entity"
)

func (h *HTTPHandler) ListDataScopes(c *gin.Context) {
	var params entity.BaseParams
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c)
		return
	}
	scopes, meta, err := h.repo.ListDataScopes(c.Request.Context(), &params)
	if err != nil {
		Fail(c, err)
		return
	}
	OKPage(c, scopes, meta)
}

func (h *HTTPHandler) CreateDataScope(c *gin.Context) {
	var req entity.CreateDataScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	scope := &entity.DbDataScope{
		Name:   req.Name,
		Mode:   req.Mode,
		Status: entity.StatusActive,
	}
	if req.Status != nil {
		scope.Status = *req.Status
	}

	if err := h.repo.CreateDataScope(c.Request.Context(), scope); err != nil {
		Fail(c, err)
		return
	}
	OK(c, scope)
}

func (h *HTTPHandler) UpdateDataScope(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req entity.UpdateDataScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()

	scope, err := h.repo.GetDataScope(ctx, id)
	if err != nil {
		Fail(c, err)
		return
	}
	if req.Name != nil {
		scope.Name = *req.Name
	}
	if req.Mode != nil {
		scope.Mode = *req.Mode
	}
	if req.Status != nil {
		scope.Status = *req.Status
	}

	if err := h.repo.UpdateDataScope(ctx, scope); err != nil {
		Fail(c, err)
		return
	}
	if err := h.resolver.InvalidateAll(ctx); err != nil {
		Fail(c, err)
		return
	}
	OK(c, scope)
}

func (h *HTTPHandler) DeleteDataScope(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.repo.DeleteDataScope(ctx, id); err != nil {
		Fail(c, err)
		return
	}
	if err := h.resolver.InvalidateAll(ctx); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *HTTPHandler) SetScopeDepts(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req entity.BindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()
	if err := h.repo.SetScopeDepts(ctx, id, req.IDs); err != nil {
		Fail(c, err)
		return
	}
	if err := h.resolver.InvalidateAll(ctx); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *HTTPHandler) ListScopeRules(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ids, err := h.repo.ListScopeRuleIDs(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, ids)
}

func (h *HTTPHandler) SetScopeRules(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req entity.BindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()
	if err := h.repo.SetScopeRules(ctx, id, req.IDs); err != nil {
		Fail(c, err)
		return
	}
	if err := h.resolver.InvalidateAll(ctx); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *HTTPHandler) ListDataRules(c *gin.Context) {
	var params entity.BaseParams
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c)
		return
	}
	rules, meta, err := h.repo.ListDataRules(c.Request.Context(), &params)
	if err != nil {
		Fail(c, err)
		return
	}
	OKPage(c, rules, meta)
}

func (h *HTTPHandler) CreateDataRule(c *gin.Context) {
	var req entity.CreateDataRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	rule := &entity.DbDataRule{
		Name:       req.Name,
		Model:      req.Model,
		Column:     req.Column,
		Operator:   req.Operator,
		Expression: req.Expression,
		Value:      req.Value,
	}
	if err := h.repo.CreateDataRule(c.Request.Context(), rule); err != nil {
		Fail(c, err)
		return
	}
	OK(c, rule)
}

func (h *HTTPHandler) UpdateDataRule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req entity.UpdateDataRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()

	rule, err := h.repo.GetDataRule(ctx, id)
	if err != nil {
		Fail(c, err)
		return
	}
	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Model != nil {
		rule.Model = *req.Model
	}
	if req.Column != nil {
		rule.Column = *req.Column
	}
	if req.Operator != nil {
		rule.Operator = *req.Operator
	}
	if req.Expression != nil {
		rule.Expression = *req.Expression
	}
	if req.Value != nil {
		rule.Value = *req.Value
	}

	if err := h.repo.UpdateDataRule(ctx, rule); err != nil {
		Fail(c, err)
		return
	}
	if err := h.resolver.InvalidateAll(ctx); err != nil {
		Fail(c, err)
		return
	}
	OK(c, rule)
}

func (h *HTTPHandler) DeleteDataRule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.repo.DeleteDataRule(ctx, id); err != nil {
		Fail(c, err)
		return
	}
	if err := h.resolver.InvalidateAll(ctx); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
