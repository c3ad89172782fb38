package api

import (
	"github.com/gin-gonic/gin"

	"admind/internal/entity"
)

func (h *HTTPHandler) ListLoginLogs(c *gin.Context) {
	var query entity.LoginLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	logs, meta, err := h.repo.ListLoginLogs(c.Request.Context(), &query)
	if err != nil {
		Fail(c, err)
		return
	}
	OKPage(c, logs, meta)
}

// DeleteLoginLogs 批量删除登录日志
func (h *HTTPHandler) DeleteLoginLogs(c *gin.Context) {
	var req entity.BindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	if err := h.repo.DeleteLoginLogs(c.Request.Context(), req.IDs); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
