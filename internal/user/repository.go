package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sigloy-shop/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	FindOrCreateByPhone(ctx context.Context, phone string) (User, error)
	LatestOTP(ctx context.Context, phone string) (*OTP, error)
	CreateOTP(ctx context.Context, otp *OTP) error
	DeleteOTPs(ctx context.Context, phone string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindOrCreateByPhone(ctx context.Context, phone string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (phone_number) VALUES ($1)
		ON CONFLICT (phone_number) DO UPDATE SET phone_number = EXCLUDED.phone_number
		RETURNING id, phone_number, created_at
	`, phone).Scan(&u.ID, &u.PhoneNumber, &u.CreatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to upsert user",
			zap.String("phone", phone),
			zap.Error(err),
		)
	}
	return u, err
}

// LatestOTP returns the most recently issued code for phone, expired or not.
func (r *repository) LatestOTP(ctx context.Context, phone string) (*OTP, error) {
	var o OTP
	err := r.db.QueryRowContext(ctx, `
		SELECT id, receiver, code_hash, expires_at, created_at
		FROM otps
		WHERE receiver = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, phone).Scan(&o.ID, &o.Receiver, &o.CodeHash, &o.ExpiresAt, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOTPNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) CreateOTP(ctx context.Context, o *OTP) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO otps (id, receiver, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, o.ID, o.Receiver, o.CodeHash, o.ExpiresAt, o.CreatedAt)
	return err
}

func (r *repository) DeleteOTPs(ctx context.Context, phone string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM otps WHERE receiver = $1`, phone)
	return err
}
