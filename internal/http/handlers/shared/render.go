package shared

import (
	"github.com/gin-gonic/gin"
)

// Render 渲染页面模板，附带待展示的提示消息
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = PopFlashes(c)
	c.HTML(status, name, data)
}
