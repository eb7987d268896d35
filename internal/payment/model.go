package payment

import (
	"time"
)

// Gateway is a payment provider registration. Only active gateways are
// offered to clients.
type Gateway struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	IsActive    bool   `json:"-"`
}

// PaymentRequest is the append-only record of one payment attempt.
type PaymentRequest struct {
	ID        uint
	UserID    uint
	OrderID   uint
	GatewayID uint
	TrackID   string
	CreatedAt time.Time
}

type InitiateResult struct {
	OrderID uint
	TrackID string
	PayLink string
}

type CallbackStatus string

const (
	CallbackSuccess CallbackStatus = "success"
	CallbackFailed  CallbackStatus = "failed"
)

type CallbackResult struct {
	Status  CallbackStatus
	TrackID string
	OrderID uint
}
