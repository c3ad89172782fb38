package api

import (
	"github.com/gin-gonic/gin"

	"admind/internal/entity"
)

// buildMenuTree 按 parent_id 把扁平菜单折成树
func buildMenuTree(menus []entity.DbMenu) []*entity.MenuTreeNode {
	nodes := make(map[int64]*entity.MenuTreeNode, len(menus))
	for i := range menus {
		nodes[menus[i].ID] = &entity.MenuTreeNode{DbMenu: menus[i], Children: []*entity.MenuTreeNode{}}
	}
	var roots []*entity.MenuTreeNode
	for i := range menus {
		node := nodes[menus[i].ID]
		if menus[i].ParentID != nil {
			if parent, ok := nodes[*menus[i].ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

func (h *HTTPHandler) ListMenus(c *gin.Context) {
	menus, err := h.repo.ListMenus(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, buildMenuTree(menus))
}

func (h *HTTPHandler) CreateMenu(c *gin.Context) {
	var req entity.CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	menu := &entity.DbMenu{
		Title:     req.Title,
		Name:      req.Name,
		ParentID:  req.ParentID,
		Sort:      req.Sort,
		Path:      req.Path,
		Component: req.Component,
		MenuType:  req.MenuType,
		Perms:     req.Perms,
		Icon:      req.Icon,
		Status:    entity.StatusActive,
		Display:   true,
		Cache:     true,
		Link:      req.Link,
		Remark:    req.Remark,
	}
	if req.Status != nil {
		menu.Status = *req.Status
	}
	if req.Display != nil {
		menu.Display = *req.Display
	}
	if req.Cache != nil {
		menu.Cache = *req.Cache
	}

	if err := h.repo.CreateMenu(c.Request.Context(), menu); err != nil {
		Fail(c, err)
		return
	}
	OK(c, menu)
}

func (h *HTTPHandler) UpdateMenu(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req entity.UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()

	menu, err := h.repo.GetMenu(ctx, id)
	if err != nil {
		Fail(c, err)
		return
	}
	if req.Title != nil {
		menu.Title = *req.Title
	}
	if req.Name != nil {
		menu.Name = *req.Name
	}
	if req.ParentID != nil {
		menu.ParentID = req.ParentID
	}
	if req.Sort != nil {
		menu.Sort = *req.Sort
	}
	if req.Path != nil {
		menu.Path = *req.Path
	}
	if req.Component != nil {
		menu.Component = *req.Component
	}
	if req.MenuType != nil {
		menu.MenuType = *req.MenuType
	}
	if req.Perms != nil {
		menu.Perms = *req.Perms
	}
	if req.Icon != nil {
		menu.Icon = *req.Icon
	}
	if req.Status != nil {
		menu.Status = *req.Status
	}
	if req.Display != nil {
		menu.Display = *req.Display
	}
	if req.Cache != nil {
		menu.Cache = *req.Cache
	}
	if req.Link != nil {
		menu.Link = *req.Link
	}
	if req.Remark != nil {
		menu.Remark = *req.Remark
	}

	if err := h.repo.UpdateMenu(ctx, menu); err != nil {
		Fail(c, err)
		return
	}
	// 权限码可能变了,清掉全部权限缓存
	if err := h.resolver.InvalidateAll(ctx); err != nil {
		Fail(c, err)
		return
	}
	OK(c, menu)
}

func (h *HTTPHandler) DeleteMenu(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.repo.DeleteMenu(ctx, id); err != nil {
		Fail(c, err)
		return
	}
	if err := h.resolver.InvalidateAll(ctx); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
