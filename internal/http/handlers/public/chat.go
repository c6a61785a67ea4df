package public

import (
	"net/http"

	"github.com/trackswift/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ChatRequest 聊天请求
type ChatRequest struct {
	Message string `json:"message"`
}

// Chat 聊天助手接口，返回 {"reply": "..."}
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid chat request", nil)
		return
	}
	reply, err := h.ChatService.Reply(c.Request.Context(), req.Message)
	if err != nil {
		respondError(c, response.CodeInternal, "chat unavailable", err)
		return
	}
	requestLog(c).Debugw("chat_reply", "rule", reply.Rule)
	c.JSON(http.StatusOK, gin.H{"reply": reply.Text})
}

// Healthz 存活探针
func (h *Handler) Healthz(c *gin.Context) {
	response.Success(c, gin.H{
		"status": "ok",
		"driver": h.Store.Driver,
	})
}
