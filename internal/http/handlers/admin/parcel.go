package admin

import (
	"errors"
	"net/http"

	"github.com/trackswift/internal/constants"
	handlershared "github.com/trackswift/internal/http/handlers/shared"
	"github.com/trackswift/internal/service"

	"github.com/gin-gonic/gin"
)

// Dashboard 后台首页：全部包裹与待处理申请数
func (h *Handler) Dashboard(c *gin.Context) {
	view, err := h.ParcelService.Dashboard(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}
	handlershared.Render(c, http.StatusOK, "dashboard.html", gin.H{
		"Title":         "Dashboard",
		"Parcels":       view.Parcels,
		"RequestsCount": view.RequestsCount,
	})
}

// AddParcel 新增包裹
func (h *Handler) AddParcel(c *gin.Context) {
	form := handlershared.NewForm(c)
	input := service.AddParcelInput{
		ID:           form.Required("id"),
		SenderName:   form.Required("sender_name"),
		ReceiverName: form.Required("receiver_name"),
		Status:       form.Required("status"),
		Address:      form.Required("address"),
		StartAddress: form.Optional("start_address", ""),
		EndAddress:   form.Optional("end_address", ""),
		Price:        form.Required("price"),
		Phone:        form.Required("phone"),
		Email:        form.Required("email"),
		PaymentType:  form.Required("payment_type"),
		Region:       form.Required("region"),
	}
	if form.Abort() {
		return
	}

	image, err := h.UploadService.SaveImage(handlershared.FormImage(c, "image"))
	if err != nil {
		respondInternal(c, err)
		return
	}
	input.Image = image

	if _, err := h.ParcelService.AddParcel(c.Request.Context(), input); err != nil {
		h.UploadService.Discard(input.Image)
		if errors.Is(err, service.ErrDuplicateParcelID) {
			requestLog(c).Warnw("parcel_add_duplicate", "parcel_id", input.ID)
			handlershared.AddFlash(c, constants.FlashDuplicateParcelID)
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		respondInternal(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// ApproveParcel 审核通过公开下单的包裹
func (h *Handler) ApproveParcel(c *gin.Context) {
	if _, err := h.ParcelService.Approve(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			handlershared.AddFlash(c, constants.FlashParcelNotFound)
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		respondInternal(c, err)
		return
	}
	handlershared.AddFlash(c, constants.FlashParcelApproved)
	c.Redirect(http.StatusFound, "/dashboard")
}

// RejectParcel 驳回公开下单的包裹（直接删除）
func (h *Handler) RejectParcel(c *gin.Context) {
	if err := h.ParcelService.Reject(c.Request.Context(), c.Param("id")); err != nil {
		respondInternal(c, err)
		return
	}
	handlershared.AddFlash(c, constants.FlashParcelRejected)
	c.Redirect(http.StatusFound, "/dashboard")
}

// DeleteParcel 删除包裹
func (h *Handler) DeleteParcel(c *gin.Context) {
	form := handlershared.NewForm(c)
	id := form.Required("id")
	if form.Abort() {
		return
	}
	if err := h.ParcelService.Delete(c.Request.Context(), id); err != nil {
		respondInternal(c, err)
		return
	}
	requestLog(c).Infow("admin_parcel_deleted", "parcel_id", id)
	c.Redirect(http.StatusFound, "/dashboard")
}

// PrintLabel 打印面单
func (h *Handler) PrintLabel(c *gin.Context) {
	parcel, date, err := h.ParcelService.PrintLabel(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			handlershared.RespondNotFound(c)
			return
		}
		respondInternal(c, err)
		return
	}
	c.HTML(http.StatusOK, "print_label.html", gin.H{"Parcel": parcel, "Date": date})
}
