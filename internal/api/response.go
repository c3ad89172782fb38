package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"admind/internal/entity"
)

// Envelope 统一响应结构
type Envelope struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// PageLinks 分页导航链接
type PageLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Self  string  `json:"self"`
	Next  *string `json:"next,omitempty"`
	Prev  *string `json:"prev,omitempty"`
}

// PageData 分页响应体
type PageData struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int64       `json:"page"`
	Size       int64       `json:"size"`
	TotalPages int64       `json:"total_pages"`
	Links      PageLinks   `json:"links"`
}

// OK 返回成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Code: 0, Msg: "ok", Data: data})
}

// OKPage 返回分页成功响应
func OKPage(c *gin.Context, items interface{}, meta *entity.Meta) {
	if meta == nil {
		meta = &entity.Meta{Page: 1, Size: 20}
	}
	OK(c, PageData{
		Items:      items,
		Total:      meta.Total,
		Page:       meta.Page,
		Size:       meta.Size,
		TotalPages: meta.TotalPages,
		Links:      buildPageLinks(c.Request.URL.Path, meta),
	})
}

func pageLink(path string, page, size int64) string {
	return fmt.Sprintf("%s?page=%d&size=%d", path, page, size)
}

func buildPageLinks(path string, meta *entity.Meta) PageLinks {
	last := meta.TotalPages
	if last < 1 {
		last = 1
	}
	links := PageLinks{
		First: pageLink(path, 1, meta.Size),
		Last:  pageLink(path, last, meta.Size),
		Self:  pageLink(path, meta.Page, meta.Size),
	}
	if meta.Page < last {
		next := pageLink(path, meta.Page+1, meta.Size)
		links.Next = &next
	}
	if meta.Page > 1 {
		prev := pageLink(path, meta.Page-1, meta.Size)
		links.Prev = &prev
	}
	return links
}
