package notification

import (
	"context"
	"errors"

	"sigloy-shop/internal/logger"

	"go.uber.org/zap"
)

var ErrDeliveryFailed = errors.New("otp delivery failed")

// Sender delivers a one-time code to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// LogSender writes codes to the log instead of sending them. Used when no SMS
// provider key is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, phone, code string) error {
	logger.FromCtx(ctx).Info("otp generated",
		zap.String("layer", "notification"),
		zap.String("phone", phone),
		zap.String("code", code),
	)
	return nil
}
