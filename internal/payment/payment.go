package payment

import (
	"context"
	"encoding/json"

	"sigloy-shop/internal/order"
)

// Adapter translates orders to one provider's wire format. Implementations are
// stateless and never retry.
type Adapter interface {
	// CreatePayment opens a payment at the provider. Any non-success answer
	// is returned as ErrGateway.
	CreatePayment(ctx context.Context, o *order.Order) (*CreatePaymentResult, error)
	// Inquire asks the provider whether trackID has been paid.
	Inquire(ctx context.Context, trackID string) (*Inquiry, error)
}

type CreatePaymentResult struct {
	TrackID string
	PayLink string
	Raw     json.RawMessage
}

type Inquiry struct {
	Paid bool
	Raw  json.RawMessage
}
