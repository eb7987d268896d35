package rest

import (
	"errors"
	"math"
	"net/http"

	"sigloy-shop/internal/payment"
	"sigloy-shop/internal/utils"
)

type processPaymentRequest struct {
	OrderID   uint `json:"order_id"`
	GatewayID uint `json:"gateway_id"`
}

type processPaymentResponse struct {
	Code    int    `json:"code"`
	PayLink string `json:"paylink"`
}

func (h *Handler) ListGateways(w http.ResponseWriter, r *http.Request) {
	gateways, err := h.PaymentSvc.ListGateways(r.Context())
	if err != nil {
		writeInternal(w, r, "ListGateways", err)
		return
	}
	writeJSON(w, r, http.StatusOK, gateways)
}

func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req processPaymentRequest
	if err := decode(r, &req); err != nil || req.OrderID == 0 || req.GatewayID == 0 {
		writeMessage(w, r, http.StatusNotFound, "gateway or order not found.")
		return
	}

	res, err := h.PaymentSvc.Initiate(r.Context(), req.OrderID, req.GatewayID, userID)
	var throttled *payment.ThrottledError
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusCreated, processPaymentResponse{Code: http.StatusCreated, PayLink: res.PayLink})
	case errors.Is(err, payment.ErrNotFound):
		writeMessage(w, r, http.StatusNotFound, "gateway or order not found.")
	case errors.Is(err, payment.ErrGatewayInactive):
		writeMessage(w, r, http.StatusBadRequest, "gateway is not active.")
	case errors.Is(err, payment.ErrAlreadyPaid):
		writeMessage(w, r, http.StatusMethodNotAllowed, "your order has already been paid.")
	case errors.As(err, &throttled):
		writeJSON(w, r, http.StatusTooManyRequests, throttledResponse{
			Code:          http.StatusTooManyRequests,
			Message:       "you can only make a payment request for each order once every 60 minutes.",
			RemainingTime: int(math.Ceil(throttled.Remaining.Seconds())),
		})
	default:
		// gateway failures are logged by the service
		writeMessage(w, r, http.StatusInternalServerError, msgSupport)
	}
}
