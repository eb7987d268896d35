package cart

import (
	"context"

	"sigloy-shop/internal/logger"
	"sigloy-shop/internal/product"

	"go.uber.org/zap"
)

type Service interface {
	GetCart(ctx context.Context, userID uint) (*Cart, error)
	AddItem(ctx context.Context, userID, productID uint) (*CartItem, error)
	RemoveItem(ctx context.Context, userID, productID uint) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

func (s *service) GetCart(ctx context.Context, userID uint) (*Cart, error) {
	items, err := s.repo.GetItems(ctx, userID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load cart", zap.Error(err))
		return nil, err
	}

	c := &Cart{Items: items}
	for _, item := range items {
		c.TotalPrice += item.Product.Price
	}
	return c, nil
}

// AddItem puts a product in the cart. A product is accepted once per cart and
// never again after it has been ordered.
func (s *service) AddItem(ctx context.Context, userID, productID uint) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.Uint("product_id", productID),
	)

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	inCart, err := s.repo.Exists(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if inCart {
		return nil, ErrCartItemAlreadyExist
	}

	purchased, err := s.repo.HasPurchased(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if purchased {
		return nil, ErrAlreadyPurchased
	}

	item, err := s.repo.AddItem(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	item.Product = *p

	log.Info("product added to cart")
	return item, nil
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uint) error {
	return s.repo.RemoveItem(ctx, userID, productID)
}
