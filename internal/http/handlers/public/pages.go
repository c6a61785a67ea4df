package public

import (
	"net/http"

	"github.com/trackswift/internal/constants"
	handlershared "github.com/trackswift/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// Home 首页
func (h *Handler) Home(c *gin.Context) {
	handlershared.Render(c, http.StatusOK, "home.html", nil)
}

// Security 安全说明页
func (h *Handler) Security(c *gin.Context) {
	handlershared.Render(c, http.StatusOK, "security.html", gin.H{"Title": "Security"})
}

// Support 客服页
func (h *Handler) Support(c *gin.Context) {
	handlershared.Render(c, http.StatusOK, "support.html", gin.H{"Title": "Support"})
}

// Feedback 提交反馈，仅记录日志
func (h *Handler) Feedback(c *gin.Context) {
	email := c.PostForm("email")
	message := c.PostForm("message")
	requestLog(c).Infow("feedback_received",
		"email", email,
		"message_length", len(message),
	)
	handlershared.AddFlash(c, constants.FlashFeedbackThanks)
	c.Redirect(http.StatusFound, "/")
}
