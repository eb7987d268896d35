package rest

import (
	"sigloy-shop/internal/cart"
	"sigloy-shop/internal/order"
	"sigloy-shop/internal/payment"
	"sigloy-shop/internal/product"
	"sigloy-shop/internal/user"
)

// Handler carries the services behind the HTTP API.
type Handler struct {
	UserSvc    user.Service
	ProductSvc product.Service
	CartSvc    cart.Service
	OrderSvc   order.Service
	PaymentSvc payment.Service
}
