package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"admind/internal/auth"
	"admind/internal/entity"
	"admind/internal/errs"
)

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		InvalidPayload(c)
		return 0, false
	}
	return id, true
}

func (h *HTTPHandler) ListUsers(c *gin.Context) {
	var query entity.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	filter, res, err := h.scopeFilter(c)
	if err != nil {
		Fail(c, err)
		return
	}
	cond, err := h.ruleCondition(c, res, "sys_user")
	if err != nil {
		Fail(c, err)
		return
	}

	users, meta, err := h.repo.ListUsers(c.Request.Context(), &query, filter, cond)
	if err != nil {
		Fail(c, err)
		return
	}
	OKPage(c, users, meta)
}

func (h *HTTPHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	filter, _, err := h.scopeFilter(c)
	if err != nil {
		Fail(c, err)
		return
	}
	user, err := h.repo.GetUserByID(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	if !filter.Allows(user.ID, user.DeptID) {
		Fail(c, errs.WithCode(errs.KindForbidden, errs.CodePermissionDenied, "没有访问该用户的权限"))
		return
	}
	OK(c, user)
}

func (h *HTTPHandler) CreateUser(c *gin.Context) {
	var req entity.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()

	digest, err := auth.HashPassword(req.Password)
	if err != nil {
		Fail(c, err)
		return
	}

	user := &entity.DbUser{
		UUID:     uuid.NewString(),
		Username: req.Username,
		Nickname: req.Nickname,
		Password: digest,
		Email:    req.Email,
		Phone:    req.Phone,
		Status:   entity.StatusActive,
		DeptID:   req.DeptID,
		JoinTime: time.Now(),
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.IsSuperuser != nil {
		user.IsSuperuser = *req.IsSuperuser
	}
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}
	if req.IsMultiLogin != nil {
		user.IsMultiLogin = *req.IsMultiLogin
	}

	if err := h.repo.CreateUser(ctx, user); err != nil {
		Fail(c, err)
		return
	}
	if len(req.RoleIDs) > 0 {
		if err := h.repo.SetUserRoles(ctx, user.ID, req.RoleIDs); err != nil {
			Fail(c, err)
			return
		}
	}
	OK(c, user)
}

func (h *HTTPHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req entity.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()

	updates := entity.UserUpdates{
		Nickname:     req.Nickname,
		Email:        req.Email,
		Phone:        req.Phone,
		Avatar:       req.Avatar,
		Status:       req.Status,
		IsSuperuser:  req.IsSuperuser,
		IsStaff:      req.IsStaff,
		IsMultiLogin: req.IsMultiLogin,
		DeptID:       req.DeptID,
	}
	if req.Password != nil {
		digest, err := auth.HashPassword(*req.Password)
		if err != nil {
			Fail(c, err)
			return
		}
		updates.Password = &digest
	}

	if !updates.IsEmpty() {
		if err := h.repo.UpdateUser(ctx, id, updates); err != nil {
			Fail(c, err)
			return
		}
	}
	if req.RoleIDs != nil {
		if err := h.repo.SetUserRoles(ctx, id, *req.RoleIDs); err != nil {
			Fail(c, err)
			return
		}
	}
	// 身份或绑定变更后失效权限缓存
	if err := h.resolver.Invalidate(ctx, id); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ac := CurrentAuth(c)
	if ac != nil && ac.UserID == id {
		Fail(c, errs.New(errs.KindBadInput, "不能删除当前登录用户"))
		return
	}
	ctx := c.Request.Context()

	filter, _, err := h.scopeFilter(c)
	if err != nil {
		Fail(c, err)
		return
	}
	user, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		Fail(c, err)
		return
	}
	if !filter.AllowsDelete(user.ID, user.DeptID) {
		Fail(c, errs.WithCode(errs.KindForbidden, errs.CodePermissionDenied, "没有删除该用户的权限"))
		return
	}

	if err := h.repo.DeleteUser(ctx, id); err != nil {
		Fail(c, err)
		return
	}
	if err := h.resolver.Invalidate(ctx, id); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}

func (h *HTTPHandler) SetUserRoles(c *gin.Context) {
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

	if err := h.repo.SetUserRoles(ctx, id, req.IDs); err != nil {
		Fail(c, err)
		return
	}
	if err := h.resolver.Invalidate(ctx, id); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
