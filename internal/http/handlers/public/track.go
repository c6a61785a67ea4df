package public

import (
	"errors"
	"net/http"
	"strings"

	"github.com/trackswift/internal/constants"
	handlershared "github.com/trackswift/internal/http/handlers/shared"
	"github.com/trackswift/internal/service"

	"github.com/gin-gonic/gin"
)

// TrackPage 查询页；带 tracking_id 参数时直接查询
func (h *Handler) TrackPage(c *gin.Context) {
	query, ok := c.GetQuery("tracking_id")
	if !ok {
		handlershared.Render(c, http.StatusOK, "track.html", gin.H{"Title": "Track"})
		return
	}
	h.renderLookup(c, query)
}

// Track 提交查询
func (h *Handler) Track(c *gin.Context) {
	form := handlershared.NewForm(c)
	query := form.Required("tracking_id")
	if form.Abort() {
		return
	}
	h.renderLookup(c, query)
}

func (h *Handler) renderLookup(c *gin.Context, query string) {
	data := gin.H{"Title": "Track", "Query": strings.TrimSpace(query)}
	parcel, err := h.TrackingService.Lookup(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			data["NotFound"] = true
			handlershared.Render(c, http.StatusOK, "track.html", data)
			return
		}
		respondInternal(c, err)
		return
	}
	data["Parcel"] = parcel
	handlershared.Render(c, http.StatusOK, "track.html", data)
}

// RequestChange 提交收件信息变更申请
func (h *Handler) RequestChange(c *gin.Context) {
	form := handlershared.NewForm(c)
	input := service.ChangeRequestInput{
		ParcelID:   form.Required("id"),
		NewAddress: form.Required("new_address"),
		NewPhone:   form.Required("new_phone"),
		NewRegion:  form.Required("new_region"),
	}
	if form.Abort() {
		return
	}
	if err := h.ChangeRequestService.Submit(c.Request.Context(), input); err != nil {
		respondInternal(c, err)
		return
	}
	handlershared.AddFlash(c, constants.FlashChangeRequestSent)
	c.Redirect(http.StatusFound, "/track")
}

// ViewMap 包裹路线地图
func (h *Handler) ViewMap(c *gin.Context) {
	parcel, err := h.TrackingService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			handlershared.RespondNotFound(c)
			return
		}
		respondInternal(c, err)
		return
	}
	handlershared.Render(c, http.StatusOK, "map_view.html", gin.H{"Title": "Map", "Parcel": parcel})
}
