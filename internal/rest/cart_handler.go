package rest

import (
	"errors"
	"net/http"

	"sigloy-shop/internal/cart"
	"sigloy-shop/internal/product"
	"sigloy-shop/internal/utils"

	"github.com/go-chi/chi/v5"
)

type addCartItemRequest struct {
	ProductID uint `json:"product_id"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	c, err := h.CartSvc.GetCart(r.Context(), userID)
	if err != nil {
		writeInternal(w, r, "GetCart", err)
		return
	}
	writeJSON(w, r, http.StatusOK, c)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req addCartItemRequest
	if err := decode(r, &req); err != nil || req.ProductID == 0 {
		writeMessage(w, r, http.StatusNotFound, "product not found.")
		return
	}

	_, err := h.CartSvc.AddItem(r.Context(), userID, req.ProductID)
	switch {
	case err == nil:
		writeMessage(w, r, http.StatusCreated, "product added to your cart.")
	case errors.Is(err, product.ErrProductNotFound):
		writeMessage(w, r, http.StatusNotFound, "product not found.")
	case errors.Is(err, cart.ErrCartItemAlreadyExist):
		writeMessage(w, r, http.StatusMethodNotAllowed, "product is already in your cart.")
	case errors.Is(err, cart.ErrAlreadyPurchased):
		writeMessage(w, r, http.StatusBadRequest, "you have already purchased this product.")
	default:
		writeInternal(w, r, "AddCartItem", err)
	}
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	productID, err := utils.ToUint(chi.URLParam(r, "product_id"))
	if err != nil {
		writeMessage(w, r, http.StatusNotFound, "product not found in your cart.")
		return
	}

	err = h.CartSvc.RemoveItem(r.Context(), userID, productID)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, cart.ErrCartItemNotFound):
		writeMessage(w, r, http.StatusNotFound, "product not found in your cart.")
	default:
		writeInternal(w, r, "RemoveCartItem", err)
	}
}
