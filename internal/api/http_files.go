package api

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"admind/internal/entity"
	"admind/internal/errs"
	"admind/internal/storage"
)

// 单个上传文件的大小上限,超出直接拒绝。
const maxUploadBytes = 20 << 20

type fileView struct {
	entity.DbFileInfo
	URL string `json:"url"`
}

func (h *HTTPHandler) fileURL(objectKey string) string {
	base := strings.TrimRight(h.cfg.StoragePublicBaseURL, "/")
	return base + "/" + strings.TrimLeft(objectKey, "/")
}

// UploadFile 接收 multipart 表单中的 file 字段并写入存储后端。
func (h *HTTPHandler) UploadFile(c *gin.Context) {
	ac := CurrentAuth(c)
	if ac == nil {
		FailStatus(c, errs.KindAuthFailure, "登录状态无效")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		Fail(c, errs.New(errs.KindBadInput, "缺少上传文件"))
		return
	}
	if header.Size <= 0 || header.Size > maxUploadBytes {
		Fail(c, errs.New(errs.KindBadInput, "文件大小超出限制"))
		return
	}

	src, err := header.Open()
	if err != nil {
		Fail(c, errs.Wrap(errs.KindBadInput, "读取上传文件失败", err))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		Fail(c, errs.Wrap(errs.KindBadInput, "读取上传文件失败", err))
		return
	}
	if len(data) > maxUploadBytes {
		Fail(c, errs.New(errs.KindBadInput, "文件大小超出限制"))
		return
	}

	ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	key, err := h.storage.Save(c.Request.Context(), data, storage.SaveOptions{
		Category:  "uploads",
		Extension: ext,
	})
	if err != nil {
		Fail(c, errs.Wrap(errs.KindInternal, "保存文件失败", err))
		return
	}

	info := &entity.DbFileInfo{
		Name:        filepath.Base(header.Filename),
		ObjectKey:   key,
		ContentType: header.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		UploaderID:  ac.UserID,
	}
	if err := h.repo.CreateFileInfo(c.Request.Context(), info); err != nil {
		Fail(c, err)
		return
	}

	OK(c, fileView{DbFileInfo: *info, URL: h.fileURL(info.ObjectKey)})
}

func (h *HTTPHandler) ListFiles(c *gin.Context) {
	var query entity.FileQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	filter, _, err := h.scopeFilter(c)
	if err != nil {
		Fail(c, err)
		return
	}

	files, meta, err := h.repo.ListFiles(c.Request.Context(), &query, filter)
	if err != nil {
		Fail(c, err)
		return
	}

	views := make([]fileView, 0, len(files))
	for _, f := range files {
		views = append(views, fileView{DbFileInfo: f, URL: h.fileURL(f.ObjectKey)})
	}
	OKPage(c, views, meta)
}

func (h *HTTPHandler) DeleteFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	info, err := h.repo.GetFileInfo(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}

	filter, _, err := h.scopeFilter(c)
	if err != nil {
		Fail(c, err)
		return
	}
	if !filter.AllowsDelete(info.UploaderID, nil) {
		Fail(c, errs.WithCode(errs.KindForbidden, errs.CodePermissionDenied, "没有删除该文件的权限"))
		return
	}

	if err := h.storage.Delete(c.Request.Context(), info.ObjectKey); err != nil {
		Fail(c, errs.Wrap(errs.KindInternal, "删除存储对象失败", err))
		return
	}
	if err := h.repo.DeleteFileInfo(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil)
}
