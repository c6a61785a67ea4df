package public

import (
	"errors"
	"net/http"

	"github.com/trackswift/internal/constants"
	handlershared "github.com/trackswift/internal/http/handlers/shared"
	"github.com/trackswift/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateParcelPage 下单页
func (h *Handler) CreateParcelPage(c *gin.Context) {
	handlershared.Render(c, http.StatusOK, "create_parcel.html", gin.H{"Title": "Book a Parcel"})
}

// CreateParcel 公开下单，包裹进入待审核状态
func (h *Handler) CreateParcel(c *gin.Context) {
	form := handlershared.NewForm(c)
	input := service.CreateParcelInput{
		SenderName:   form.Required("sender_name"),
		ReceiverName: form.Required("receiver_name"),
		StartAddress: form.Required("start_address"),
		EndAddress:   form.Required("end_address"),
		Phone:        form.Required("phone"),
		Email:        form.Required("email"),
		Price:        form.Optional("price", constants.DefaultPrice),
		PaymentType:  form.Optional("payment_type", constants.DefaultPaymentType),
		Region:       form.Optional("region", constants.DefaultRegion),
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

	parcel, err := h.ParcelService.CreatePublicParcel(c.Request.Context(), input)
	if err != nil {
		h.UploadService.Discard(input.Image)
		if errors.Is(err, service.ErrParcelIDExhausted) {
			handlershared.RespondText(c, http.StatusServiceUnavailable, "No tracking id available, please try again later", err)
			return
		}
		respondInternal(c, err)
		return
	}
	handlershared.Render(c, http.StatusOK, "create_parcel.html", gin.H{
		"Title":        "Book a Parcel",
		"Success":      true,
		"TrackingID":   parcel.ID,
		"ReceiverName": parcel.ReceiverName,
	})
}
