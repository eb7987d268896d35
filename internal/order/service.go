package order

import (
	"context"
	"database/sql"
	"errors"

	"sigloy-shop/internal/db"
	"sigloy-shop/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	CreateFromCart(ctx context.Context, userID uint) (*Order, error)
	ListOrders(ctx context.Context, userID uint) ([]Order, error)
	GetOrder(ctx context.Context, orderID, userID uint) (*Order, error)
}

type service struct {
	repo Repository
	tx   db.TxRunner
}

func NewService(repo Repository, tx db.TxRunner) Service {
	return &service{repo: repo, tx: tx}
}

func (s *service) CreateFromCart(ctx context.Context, userID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateFromCart"),
	)

	var created *Order
	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		o, err := s.repo.CreateFromCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrCartEmpty) {
			log.Error("failed to create order", zap.Error(err))
		}
		return nil, err
	}
	return created, nil
}

func (s *service) ListOrders(ctx context.Context, userID uint) ([]Order, error) {
	return s.repo.GetOrders(ctx, userID)
}

func (s *service) GetOrder(ctx context.Context, orderID, userID uint) (*Order, error) {
	return s.repo.GetOrderDetail(ctx, orderID, userID)
}
