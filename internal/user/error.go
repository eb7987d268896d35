package user

import (
	"errors"
	"time"
)

var (
	ErrInvalidPhone   = errors.New("invalid phone number")
	ErrOTPCooldown    = errors.New("otp cooldown active")
	ErrOTPNotFound    = errors.New("otp not found")
	ErrOTPExpired     = errors.New("token has expired")
	ErrInvalidOTP     = errors.New("invalid phone number or token")
	ErrDeliveryFailed = errors.New("otp delivery failed")
)

// CooldownError reports how long the caller must wait before asking for a
// new code.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return ErrOTPCooldown.Error()
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrOTPCooldown
}
