package shared

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Form 表单读取器
// 必填字段缺失时记录第一个缺失的字段名，由调用方统一返回 400
type Form struct {
	c       *gin.Context
	missing string
}

// NewForm 创建表单读取器
func NewForm(c *gin.Context) *Form {
	return &Form{c: c}
}

// Required 读取必填字段；字段存在但为空视为已提交
func (f *Form) Required(name string) string {
	value, ok := f.c.GetPostForm(name)
	if !ok && f.missing == "" {
		f.missing = name
	}
	return value
}

// Optional 读取可选字段，未提交时返回默认值
func (f *Form) Optional(name, def string) string {
	if value, ok := f.c.GetPostForm(name); ok {
		return value
	}
	return def
}

// Pointer 读取可选字段，未提交时返回 nil
func (f *Form) Pointer(name string) *string {
	if value, ok := f.c.GetPostForm(name); ok {
		return &value
	}
	return nil
}

// Missing 第一个缺失的必填字段
func (f *Form) Missing() string {
	return f.missing
}

// Abort 存在缺失字段时返回 400 并终止，返回值表示是否已终止
func (f *Form) Abort() bool {
	if f.missing == "" {
		return false
	}
	RequestLog(f.c).Warnw("form_field_missing", "field", f.missing, "path", f.c.Request.URL.Path)
	f.c.String(http.StatusBadRequest, fmt.Sprintf("missing required field: %s", f.missing))
	return true
}

// FormImage 读取上传的图片；未上传或非 multipart 请求时返回 nil
func FormImage(c *gin.Context, field string) *multipart.FileHeader {
	file, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return file
}
