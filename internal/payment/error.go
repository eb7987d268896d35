package payment

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound          = errors.New("gateway or order not found")
	ErrGatewayInactive   = errors.New("gateway is not active")
	ErrAlreadyPaid       = errors.New("order has already been paid")
	ErrThrottled         = errors.New("payment request throttled")
	ErrGateway           = errors.New("payment gateway error")
	ErrCallbackIgnorable = errors.New("callback does not match any order")
)

// ThrottledError carries the time left until the next attempt is accepted.
type ThrottledError struct {
	Remaining time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("%s: retry in %s", ErrThrottled, e.Remaining.Round(time.Second))
}

func (e *ThrottledError) Is(target error) bool {
	return target == ErrThrottled
}
