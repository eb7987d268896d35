package order

import (
	"time"
)

type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Order moves unpaid -> pending -> paid|unpaid. IsPaid is true exactly when
// Status is paid, and paid is terminal.
type Order struct {
	ID              uint        `json:"id"`
	UserID          uint        `json:"-"`
	TotalPrice      int64       `json:"total_price"`
	Status          Status      `json:"status"`
	IsPaid          bool        `json:"is_paid"`
	Gateway         string      `json:"gateway"`
	GatewayTrackID  string      `json:"gateway_track_id"`
	GatewayResponse string      `json:"-"`
	CreatedAt       time.Time   `json:"datetime_created"`
	UpdatedAt       time.Time   `json:"-"`
	Items           []OrderItem `json:"items"`
}

// OrderItem is the price snapshot of one product at order time.
type OrderItem struct {
	ID      uint        `json:"id"`
	OrderID uint        `json:"-"`
	Product ItemProduct `json:"product"`
	Price   int64       `json:"price"`
}

type ItemProduct struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}
