package shared

import (
	"net/http"

	"github.com/trackswift/internal/http/response"
	"github.com/trackswift/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回 JSON 错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.ErrorWithStatus(c, appErr.Code, appErr.Message)
}

// RespondText 返回纯文本错误页，并在有原始错误时记录日志。
func RespondText(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", status,
			"message", msg,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	c.String(status, msg)
}

// RespondInternal 存储或 IO 失败时的统一 500 响应
func RespondInternal(c *gin.Context, err error) {
	RespondText(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), err)
}

// RespondNotFound 包裹不存在时的 404 响应
func RespondNotFound(c *gin.Context) {
	c.String(http.StatusNotFound, "Parcel not found")
}
