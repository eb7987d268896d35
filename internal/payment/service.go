package payment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sigloy-shop/internal/db"
	"sigloy-shop/internal/logger"
	"sigloy-shop/internal/order"

	"go.uber.org/zap"
)

// Service drives the order payment state machine against external gateways.
type Service interface {
	ListGateways(ctx context.Context) ([]Gateway, error)
	Initiate(ctx context.Context, orderID, gatewayID, userID uint) (*InitiateResult, error)
	HandleCallback(ctx context.Context, trackID string) (*CallbackResult, error)
}

type service struct {
	tx       db.TxRunner
	orders   order.Repository
	repo     Repository
	registry *Registry
	throttle *Throttle
	now      func() time.Time
}

func NewService(tx db.TxRunner, orders order.Repository, repo Repository, registry *Registry) Service {
	return &service{
		tx:       tx,
		orders:   orders,
		repo:     repo,
		registry: registry,
		throttle: NewThrottle(repo),
		now:      time.Now,
	}
}

func (s *service) setClock(now func() time.Time) {
	s.now = now
	s.throttle.now = now
}

func (s *service) ListGateways(ctx context.Context) ([]Gateway, error) {
	return s.repo.ListActiveGateways(ctx)
}

// Initiate opens a payment for the user's order. The order row stays locked
// from the paid check until the pending transition commits, so concurrent
// attempts for one order run one after another.
func (s *service) Initiate(ctx context.Context, orderID, gatewayID, userID uint) (*InitiateResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "InitiatePayment"),
		zap.Uint("order_id", orderID),
		zap.Uint("gateway_id", gatewayID),
	)

	var result *InitiateResult
	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		o, err := s.orders.LockForUser(ctx, tx, orderID, userID)
		if errors.Is(err, order.ErrOrderNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		gw, err := s.repo.GetGateway(ctx, tx, gatewayID)
		if err != nil {
			return err
		}

		// paid is terminal and reported before any gateway state.
		if o.IsPaid {
			return ErrAlreadyPaid
		}
		if !gw.IsActive {
			return ErrGatewayInactive
		}

		if err := s.throttle.Check(ctx, tx, userID, orderID, gatewayID); err != nil {
			return err
		}

		adapter, err := s.registry.Resolve(gw.Name)
		if err != nil {
			return err
		}

		created, err := adapter.CreatePayment(ctx, o)
		if err != nil {
			return err
		}

		if err := s.orders.MarkPending(ctx, tx, o.ID, gw.Name, created.TrackID, string(created.Raw)); err != nil {
			if errors.Is(err, order.ErrOrderAlreadyPaid) {
				return ErrAlreadyPaid
			}
			return err
		}

		if err := s.repo.CreatePaymentRequest(ctx, tx, &PaymentRequest{
			UserID:    userID,
			OrderID:   o.ID,
			GatewayID: gw.ID,
			TrackID:   created.TrackID,
			CreatedAt: s.now(),
		}); err != nil {
			return err
		}

		result = &InitiateResult{OrderID: o.ID, TrackID: created.TrackID, PayLink: created.PayLink}
		return nil
	})
	if err != nil {
		logPaymentError(log, err)
		return nil, err
	}

	log.Info("payment initiated", zap.String("track_id", result.TrackID))
	return result, nil
}

// HandleCallback settles the order behind trackID. The paid check is repeated
// under the row lock, so a duplicate callback never reaches the gateway again.
func (s *service) HandleCallback(ctx context.Context, trackID string) (*CallbackResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "HandleCallback"),
		zap.String("track_id", trackID),
	)

	if trackID == "" {
		return nil, ErrCallbackIgnorable
	}

	var result *CallbackResult
	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		o, err := s.orders.LockByTrackID(ctx, tx, trackID)
		if errors.Is(err, order.ErrOrderNotFound) {
			return ErrCallbackIgnorable
		}
		if err != nil {
			return err
		}

		if o.IsPaid {
			return ErrAlreadyPaid
		}

		adapter, err := s.registry.Resolve(o.Gateway)
		if err != nil {
			return err
		}

		inquiry, err := adapter.Inquire(ctx, trackID)
		if err != nil {
			log.Warn("inquiry failed, treating as unpaid", zap.Error(err))
			inquiry = &Inquiry{Paid: false}
		}

		raw := o.GatewayResponse
		if len(inquiry.Raw) > 0 {
			raw = string(inquiry.Raw)
		}

		result = &CallbackResult{TrackID: trackID, OrderID: o.ID}
		if inquiry.Paid {
			err = s.orders.MarkPaid(ctx, tx, o.ID, raw)
			result.Status = CallbackSuccess
		} else {
			err = s.orders.MarkUnpaid(ctx, tx, o.ID, raw)
			result.Status = CallbackFailed
		}
		if errors.Is(err, order.ErrOrderAlreadyPaid) {
			return ErrAlreadyPaid
		}
		return err
	})
	if err != nil {
		logPaymentError(log, err)
		return nil, err
	}

	log.Info("callback reconciled",
		zap.Uint("order_id", result.OrderID),
		zap.String("status", string(result.Status)),
	)
	return result, nil
}

// Rejections log at info, gateway trouble at warn, anything else at error.
func logPaymentError(log *zap.Logger, err error) {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrGatewayInactive),
		errors.Is(err, ErrAlreadyPaid),
		errors.Is(err, ErrThrottled),
		errors.Is(err, ErrCallbackIgnorable):
		log.Info("payment request rejected", zap.Error(err))
	case errors.Is(err, ErrGateway):
		log.Warn("payment gateway failure", zap.Error(err))
	default:
		log.Error("payment operation failed", zap.Error(err))
	}
}
