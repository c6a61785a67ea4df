package public

import "github.com/trackswift/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：该处理器用于查询、下单、变更申请、登录与聊天等无需会话的页面。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
