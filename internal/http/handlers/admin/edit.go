package admin

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/trackswift/internal/constants"
	handlershared "github.com/trackswift/internal/http/handlers/shared"
	"github.com/trackswift/internal/service"

	"github.com/gin-gonic/gin"
)

// EditParcelPage 编辑页
func (h *Handler) EditParcelPage(c *gin.Context) {
	parcel, err := h.ParcelService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			handlershared.RespondNotFound(c)
			return
		}
		respondInternal(c, err)
		return
	}
	handlershared.Render(c, http.StatusOK, "edit_parcel.html", gin.H{"Title": "Edit " + parcel.ID, "Parcel": parcel})
}

// EditParcel 保存编辑，可选追加一条轨迹
func (h *Handler) EditParcel(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()
	if _, err := h.ParcelService.Get(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			handlershared.RespondNotFound(c)
			return
		}
		respondInternal(c, err)
		return
	}

	form := handlershared.NewForm(c)
	input := service.EditParcelInput{
		Status:          form.Required("status"),
		CurrentLocation: form.Required("current_location"),
		StartAddress:    form.Required("start_address"),
		EndAddress:      form.Required("end_address"),
		SenderName:      form.Pointer("sender_name"),
		ReceiverName:    form.Pointer("receiver_name"),
	}
	if form.Abort() {
		return
	}
	if header := form.Optional("new_status_header", ""); header != "" {
		input.Event = &service.HistoryEventInput{
			Header:      header,
			Subtext:     form.Optional("new_subtext", ""),
			Description: form.Optional("new_description", ""),
			Location:    form.Pointer("new_location"),
			Date:        form.Optional("new_date", ""),
			Time:        form.Optional("new_time", ""),
		}
	}

	if _, err := h.ParcelService.Edit(ctx, id, input); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			handlershared.RespondNotFound(c)
			return
		}
		respondInternal(c, err)
		return
	}
	handlershared.AddFlash(c, constants.FlashParcelUpdated)
	c.Redirect(http.StatusFound, "/edit_parcel/"+url.PathEscape(id))
}
