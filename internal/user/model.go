package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uint
	PhoneNumber string
	CreatedAt   time.Time
}

// OTP is a one-time login code. Only the bcrypt hash of the code is stored.
type OTP struct {
	ID        uuid.UUID
	Receiver  string
	CodeHash  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (o *OTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// Session is the result of a successful OTP verification.
type Session struct {
	User        User
	AccessToken string
	ExpiresAt   time.Time
}
