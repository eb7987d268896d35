package rest

import (
	"errors"
	"net/http"
	"strconv"

	"sigloy-shop/internal/product"
	"sigloy-shop/internal/utils"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := product.ListOptions{}
	opts.Page, _ = strconv.Atoi(q.Get("page"))
	opts.Limit, _ = strconv.Atoi(q.Get("limit"))

	res, err := h.ProductSvc.List(r.Context(), opts)
	if err != nil {
		writeInternal(w, r, "ListProducts", err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, r, http.StatusNotFound, "product not found.")
		return
	}

	p, err := h.ProductSvc.Get(r.Context(), id)
	if errors.Is(err, product.ErrProductNotFound) {
		writeMessage(w, r, http.StatusNotFound, "product not found.")
		return
	}
	if err != nil {
		writeInternal(w, r, "GetProduct", err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}
