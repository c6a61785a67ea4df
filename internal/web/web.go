package web

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates 解析内置页面模板，模板名为文件名（如 track.html）
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// FuncMap 页面模板辅助函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"statusClass": StatusClass,
	}
}

// StatusClass 状态对应的样式类名，如 "Out for Delivery" -> "status-out-for-delivery"
func StatusClass(status string) string {
	fields := strings.Fields(strings.ToLower(status))
	if len(fields) == 0 {
		return "status-unknown"
	}
	return "status-" + strings.Join(fields, "-")
}
