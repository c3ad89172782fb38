package api

import (
	"github.com/gin-gonic/gin"

	"admind/internal/entity"
)

// buildDeptTree 按 parent_id 把扁平部门折成树
func buildDeptTree(depts []entity.DbDept) []*entity.DeptTreeNode {
	nodes := make(map[int64]*entity.DeptTreeNode, len(depts))
	for i := range depts {
		nodes[depts[i].ID] = &entity.DeptTreeNode{DbDept: depts[i], Children: []*entity.DeptTreeNode{}}
	}
	var roots []*entity.DeptTreeNode
	for i := range depts {
		node := nodes[depts[i].ID]
		if depts[i].ParentID != nil {
			if parent, ok := nodes[*depts[i].ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

func (h *HTTPHandler) ListDepts(c *gin.Context) {
	var query entity.DeptQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}
	depts, err := h.repo.ListDepts(c.Request.Context(), &query)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, buildDeptTree(depts))
}

func (h *HTTPHandler) CreateDept(c *gin.Context) {
	var req entity.CreateDeptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	dept := &entity.DbDept{
		Name:     req.Name,
		ParentID: req.ParentID,
		Sort:     req.Sort,
		Leader:   req.Leader,
		Phone:    req.Phone,
		Email:    req.Email,
		Status:   entity.StatusActive,
	}
	if req.Status != nil {
		dept.Status = *req.Status
	}

	if err := h.repo.CreateDept(c.Request.Context(), dept); err != nil {
		Fail(c, err)
		return
	}
	OK(c, dept)
}

func (h *HTTPHandler) UpdateDept(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req entity.UpdateDeptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()

	dept, err := h.repo.GetDept(ctx, id)
	if err != nil {
		Fail(c, err)
		return
	}
	if req.Name != nil {
		dept.Name = *req.Name
	}
	if req.ParentID != nil {
		dept.ParentID = req.ParentID
	}
	if req.Sort != nil {
		dept.Sort = *req.Sort
	}
	if req.Leader != nil {
		dept.Leader = *req.Leader
	}
	if req.Phone != nil {
		dept.Phone = *req.Phone
	}
	if req.Email != nil {
		dept.Email = *req.Email
	}
	if req.Status != nil {
		dept.Status = *req.Status
	}

	if err := h.repo.UpdateDept(ctx, dept); err != nil {
		Fail(c, err)
		return
	}
	// 部门树变化影响 dept_and_children 范围,清掉全部权限缓存
	if err := h.resolver.InvalidateAll(ctx); err != nil {
		Fail(c, err)
		return
	}
	OK(c, dept)
}

func (h *HTTPHandler) DeleteDept(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.repo.DeleteDept(ctx, id); err != nil {
		Fail(c, err)
		return
	}
	if err := h.resolver.InvalidateAll(ctx); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
