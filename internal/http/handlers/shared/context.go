package shared

import (
	"github.com/gin-gonic/gin"
)

// AdminUsernameKey 会话中间件写入上下文的管理员用户名
const AdminUsernameKey = "admin_username"

// GetAdminUsername 读取已通过会话校验的管理员用户名。
func GetAdminUsername(c *gin.Context) (string, bool) {
	value, exists := c.Get(AdminUsernameKey)
	if !exists {
		return "", false
	}
	username, ok := value.(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}
