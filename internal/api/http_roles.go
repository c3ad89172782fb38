package api

import (
	"github.com/gin-gonic/gin"

	"admind/internal/entity"
)

// invalidateRoleMembers 角色相关变更后,失效该角色所有成员的权限缓存
func (h *HTTPHandler) invalidateRoleMembers(c *gin.Context, roleID int64) error {
	ctx := c.Request.Context()
	userIDs, err := h.repo.ListUserIDsByRole(ctx, roleID)
	if err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}
	return h.resolver.Invalidate(ctx, userIDs...)
}

func (h *HTTPHandler) ListRoles(c *gin.Context) {
	var query entity.RoleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}
	roles, meta, err := h.repo.ListRoles(c.Request.Context(), &query)
	if err != nil {
		Fail(c, err)
		return
	}
	OKPage(c, roles, meta)
}

func (h *HTTPHandler) GetRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	role, err := h.repo.GetRole(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, role)
}

func (h *HTTPHandler) CreateRole(c *gin.Context) {
	var req entity.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	role := &entity.DbRole{
		Name:         req.Name,
		Code:         req.Code,
		Sort:         req.Sort,
		FilterScopes: true,
		Status:       entity.StatusActive,
		Remark:       req.Remark,
	}
	if req.FilterScopes != nil {
		role.FilterScopes = *req.FilterScopes
	}
	if req.Status != nil {
		role.Status = *req.Status
	}

	if err := h.repo.CreateRole(c.Request.Context(), role); err != nil {
		Fail(c, err)
		return
	}
	OK(c, role)
}

func (h *HTTPHandler) UpdateRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req entity.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()

	role, err := h.repo.GetRole(ctx, id)
	if err != nil {
		Fail(c, err)
		return
	}
	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Sort != nil {
		role.Sort = *req.Sort
	}
	if req.FilterScopes != nil {
		role.FilterScopes = *req.FilterScopes
	}
	if req.Status != nil {
		role.Status = *req.Status
	}
	if req.Remark != nil {
		role.Remark = *req.Remark
	}

	if err := h.repo.UpdateRole(ctx, role); err != nil {
		Fail(c, err)
		return
	}
	if err := h.invalidateRoleMembers(c, id); err != nil {
		Fail(c, err)
		return
	}
	OK(c, role)
}

func (h *HTTPHandler) DeleteRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.repo.DeleteRole(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *HTTPHandler) ListRoleMenus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ids, err := h.repo.ListRoleMenuIDs(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, ids)
}

func (h *HTTPHandler) SetRoleMenus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req entity.BindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if err := h.repo.SetRoleMenus(c.Request.Context(), id, req.IDs); err != nil {
		Fail(c, err)
		return
	}
	if err := h.invalidateRoleMembers(c, id); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *HTTPHandler) ListRoleScopes(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ids, err := h.repo.ListRoleScopeIDs(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, ids)
}

func (h *HTTPHandler) SetRoleScopes(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req entity.BindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if err := h.repo.SetRoleScopes(c.Request.Context(), id, req.IDs); err != nil {
		Fail(c, err)
		return
	}
	if err := h.invalidateRoleMembers(c, id); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
