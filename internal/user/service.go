package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sigloy-shop/internal/logger"
	"sigloy-shop/internal/notification"
	"sigloy-shop/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenIssuer mints an access token for an authenticated user.
type TokenIssuer interface {
	Issue(userID uint, phone string) (string, time.Time, error)
}

type Service interface {
	RequestOTP(ctx context.Context, phone string) (time.Duration, error)
	VerifyOTP(ctx context.Context, phone, code string) (*Session, error)
}

type service struct {
	repo   Repository
	sender notification.Sender
	tokens TokenIssuer
	now    func() time.Time
}

func NewService(repo Repository, sender notification.Sender, tokens TokenIssuer) Service {
	return &service{repo: repo, sender: sender, tokens: tokens, now: time.Now}
}

// RequestOTP sends a fresh code unless a previous one is still valid. It
// returns the code lifetime, which is also the resend cooldown.
func (s *service) RequestOTP(ctx context.Context, phone string) (time.Duration, error) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "service"), zap.String("method", "RequestOTP"))

	phone = utils.NormalizePhone(phone)
	if !utils.IsValidPhone(phone) {
		return 0, ErrInvalidPhone
	}

	now := s.now()
	latest, err := s.repo.LatestOTP(ctx, phone)
	switch {
	case err == nil && !latest.Expired(now):
		return 0, &CooldownError{Remaining: latest.ExpiresAt.Sub(now)}
	case err != nil && !errors.Is(err, ErrOTPNotFound):
		log.Error("failed to load otp", zap.Error(err))
		return 0, err
	}

	code, err := generateCode()
	if err != nil {
		return 0, err
	}

	if err := s.sender.Send(ctx, phone, code); err != nil {
		log.Warn("otp delivery failed", zap.String("phone", phone), zap.Error(err))
		return 0, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	hash, err := HashCode(code)
	if err != nil {
		return 0, err
	}

	otp := &OTP{
		ID:        uuid.New(),
		Receiver:  phone,
		CodeHash:  hash,
		ExpiresAt: now.Add(otpLifetime),
		CreatedAt: now,
	}
	if err := s.repo.CreateOTP(ctx, otp); err != nil {
		log.Error("failed to store otp", zap.Error(err))
		return 0, err
	}

	log.Info("otp issued", zap.String("phone", phone))
	return otpLifetime, nil
}

func (s *service) VerifyOTP(ctx context.Context, phone, code string) (*Session, error) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "service"), zap.String("method", "VerifyOTP"))

	phone = utils.NormalizePhone(phone)
	latest, err := s.repo.LatestOTP(ctx, phone)
	if errors.Is(err, ErrOTPNotFound) {
		return nil, ErrInvalidOTP
	}
	if err != nil {
		log.Error("failed to load otp", zap.Error(err))
		return nil, err
	}

	if !CheckCodeHash(code, latest.CodeHash) {
		return nil, ErrInvalidOTP
	}

	if latest.Expired(s.now()) {
		if err := s.repo.DeleteOTPs(ctx, phone); err != nil {
			log.Error("failed to delete expired otp", zap.Error(err))
		}
		return nil, ErrOTPExpired
	}

	u, err := s.repo.FindOrCreateByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteOTPs(ctx, phone); err != nil {
		log.Error("failed to delete used otp", zap.Error(err))
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(u.ID, u.PhoneNumber)
	if err != nil {
		log.Error("failed to issue token", zap.Uint("user_id", u.ID), zap.Error(err))
		return nil, err
	}

	log.Info("otp verified", zap.Uint("user_id", u.ID))
	return &Session{User: u, AccessToken: token, ExpiresAt: expiresAt}, nil
}
