package order

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrCartEmpty        = errors.New("your cart is empty")
	ErrOrderAlreadyPaid = errors.New("order already paid")
)
