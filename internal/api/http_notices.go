package api

import (
	"github.com/gin-gonic/gin"

	"admind/internal/entity"
)

func (h *HTTPHandler) ListNotices(c *gin.Context) {
	var params entity.BaseParams
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c)
		return
	}
	notices, meta, err := h.repo.ListNotices(c.Request.Context(), &params)
	if err != nil {
		Fail(c, err)
		return
	}
	OKPage(c, notices, meta)
}

func (h *HTTPHandler) GetNotice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	notice, err := h.repo.GetNotice(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, notice)
}

func (h *HTTPHandler) CreateNotice(c *gin.Context) {
	var req entity.CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	notice := &entity.DbNotice{
		Title:   req.Title,
		Type:    req.Type,
		Content: req.Content,
		Status:  entity.StatusActive,
	}
	if req.Status != nil {
		notice.Status = *req.Status
	}

	if err := h.repo.CreateNotice(c.Request.Context(), notice); err != nil {
		Fail(c, err)
		return
	}
	OK(c, notice)
}

func (h *HTTPHandler) UpdateNotice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req entity.CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	ctx := c.Request.Context()

	notice, err := h.repo.GetNotice(ctx, id)
	if err != nil {
		Fail(c, err)
		return
	}
	notice.Title = req.Title
	notice.Type = req.Type
	notice.Content = req.Content
	if req.Status != nil {
		notice.Status = *req.Status
	}

	if err := h.repo.UpdateNotice(ctx, notice); err != nil {
		Fail(c, err)
		return
	}
	OK(c, notice)
}

func (h *HTTPHandler) DeleteNotice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.repo.DeleteNotice(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
