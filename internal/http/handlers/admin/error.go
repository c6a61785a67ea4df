package admin

import (
	handlershared "github.com/trackswift/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// requestLog 带 request_id 与操作管理员的日志实例
func requestLog(c *gin.Context) *zap.SugaredLogger {
	log := handlershared.RequestLog(c)
	if username := getAdminUsername(c); username != "" {
		return log.With("admin", username)
	}
	return log
}

func respondInternal(c *gin.Context, err error) {
	handlershared.RespondInternal(c, err)
}
