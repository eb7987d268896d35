package payment

import (
	"context"
	"database/sql"
	"time"
)

const ThrottleWindow = 60 * time.Minute

// RequestHistory answers the only question the throttle needs.
type RequestHistory interface {
	LastRequestSince(ctx context.Context, tx *sql.Tx, userID, orderID, gatewayID uint, since time.Time) (*time.Time, error)
}

// Throttle allows one payment request per (user, order, gateway) per window.
// A request stamped exactly at now-window still counts.
type Throttle struct {
	history RequestHistory
	window  time.Duration
	now     func() time.Time
}

func NewThrottle(history RequestHistory) *Throttle {
	return &Throttle{history: history, window: ThrottleWindow, now: time.Now}
}

// Check returns a *ThrottledError when a request inside the window exists.
func (t *Throttle) Check(ctx context.Context, tx *sql.Tx, userID, orderID, gatewayID uint) error {
	now := t.now()
	last, err := t.history.LastRequestSince(ctx, tx, userID, orderID, gatewayID, now.Add(-t.window))
	if err != nil {
		return err
	}
	if last == nil {
		return nil
	}

	remaining := last.Add(t.window).Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return &ThrottledError{Remaining: remaining}
}
