package webhook

import (
	"errors"
	"net/http"

	"sigloy-shop/internal/logger"
	"sigloy-shop/internal/payment"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// CallbackResponse is the body returned to the gateway (and the redirected
// buyer) for a callback.
type CallbackResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TrackID string `json:"track_id,omitempty"`
}

// Handler depends on the payment service only. The callback is not trusted:
// the outcome always comes from the service's own inquiry.
type Handler struct {
	PaymentSvc payment.Service
}

func NewWebhookHandler(paymentSvc payment.Service) *Handler {
	return &Handler{PaymentSvc: paymentSvc}
}

// CallbackHandler serves GET /payments/callback/?trackId=<id>.
func (h *Handler) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	trackID := r.URL.Query().Get("trackId")
	log := logger.FromCtx(r.Context()).With(
		zap.String("layer", "webhook"),
		zap.String("track_id", trackID),
	)

	res, err := h.PaymentSvc.HandleCallback(r.Context(), trackID)
	switch {
	case err == nil && res.Status == payment.CallbackSuccess:
		respond(w, r, http.StatusOK, "transaction success.", res.TrackID)
	case err == nil:
		respond(w, r, http.StatusBadRequest, "transaction failed.", res.TrackID)
	case errors.Is(err, payment.ErrCallbackIgnorable):
		log.Info("callback ignored")
		respond(w, r, http.StatusNoContent, "something is wrong.", "")
	case errors.Is(err, payment.ErrAlreadyPaid):
		respond(w, r, http.StatusMethodNotAllowed, "your order has already been paid.", "")
	case errors.Is(err, payment.ErrGateway):
		respond(w, r, http.StatusBadRequest, "transaction failed.", trackID)
	default:
		log.Error("callback processing failed", zap.Error(err))
		respond(w, r, http.StatusInternalServerError, "something is wrong. please call website support.", "")
	}
}

func respond(w http.ResponseWriter, r *http.Request, status int, msg, trackID string) {
	render.Status(r, status)
	render.JSON(w, r, CallbackResponse{Code: status, Message: msg, TrackID: trackID})
}
