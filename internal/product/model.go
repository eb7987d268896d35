package product

import (
	"encoding/json"
	"time"
)

type Product struct {
	ID         uint            `json:"id"`
	Title      string          `json:"title"`
	Thumbnail  string          `json:"thumbnail"`
	Features   json.RawMessage `json:"features"`
	Price      int64           `json:"price"`
	OffPrice   int64           `json:"offprice"`
	Exclusive  bool            `json:"exclusive"`
	CreatedAt  time.Time       `json:"-"`
	ModifiedAt time.Time       `json:"-"`
}

type ListOptions struct {
	Limit int
	Page  int
}

type ListResult struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}
