package cart

import "errors"

var (
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrCartItemAlreadyExist = errors.New("cart item already exists")
	ErrAlreadyPurchased     = errors.New("product already purchased")

	PgUniqueViolation = "23505"
)
