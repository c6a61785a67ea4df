package admin

import "github.com/trackswift/internal/provider"

// Handler 后台管理页面处理器入口
// 说明：路由层已完成会话校验，这里只处理业务。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
