package rest

import (
	"errors"
	"net/http"

	"sigloy-shop/internal/order"
	"sigloy-shop/internal/utils"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	o, err := h.OrderSvc.CreateFromCart(r.Context(), userID)
	if errors.Is(err, order.ErrCartEmpty) {
		writeMessage(w, r, http.StatusBadRequest, "your cart is empty.")
		return
	}
	if err != nil {
		writeInternal(w, r, "CreateOrder", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, o)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orders, err := h.OrderSvc.ListOrders(r.Context(), userID)
	if err != nil {
		writeInternal(w, r, "ListOrders", err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, r, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orderID, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, r, http.StatusNotFound, "order not found.")
		return
	}

	o, err := h.OrderSvc.GetOrder(r.Context(), orderID, userID)
	if errors.Is(err, order.ErrOrderNotFound) {
		writeMessage(w, r, http.StatusNotFound, "order not found.")
		return
	}
	if err != nil {
		writeInternal(w, r, "GetOrder", err)
		return
	}
	writeJSON(w, r, http.StatusOK, o)
}
