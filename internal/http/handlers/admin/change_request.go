package admin

import (
	"net/http"

	handlershared "github.com/trackswift/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// ChangeRequestsPage 变更申请审核页
func (h *Handler) ChangeRequestsPage(c *gin.Context) {
	view, err := h.ChangeRequestService.List(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}
	handlershared.Render(c, http.StatusOK, "handle_requests.html", gin.H{
		"Title":    "Change Requests",
		"Requests": view.Requests,
		"Parcels":  view.Parcels,
	})
}

// HandleChangeRequest 处理变更申请（approve / reject）
func (h *Handler) HandleChangeRequest(c *gin.Context) {
	form := handlershared.NewForm(c)
	action := form.Required("action")
	id := form.Required("id")
	if form.Abort() {
		return
	}
	if err := h.ChangeRequestService.Handle(c.Request.Context(), action, id); err != nil {
		respondInternal(c, err)
		return
	}
	requestLog(c).Infow("change_request_handled", "action", action, "parcel_id", id)
	c.Redirect(http.StatusFound, "/handle_requests")
}
