package cart

import (
	"time"

	"sigloy-shop/internal/product"
)

type CartItem struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"-"`
	CreatedAt time.Time       `json:"-"`
	Product   product.Product `json:"product"`
}

type Cart struct {
	Items      []CartItem `json:"items"`
	TotalPrice int64      `json:"total_price"`
}
