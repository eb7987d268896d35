package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sigloy-shop/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetItems(ctx context.Context, userID uint) ([]CartItem, error)
	Exists(ctx context.Context, userID, productID uint) (bool, error)
	HasPurchased(ctx context.Context, userID, productID uint) (bool, error)
	AddItem(ctx context.Context, userID, productID uint) (*CartItem, error)
	RemoveItem(ctx context.Context, userID, productID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetItems(ctx context.Context, userID uint) ([]CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT
		ci.id,
		ci.user_id,
		ci.created_at,
		p.id,
		p.title,
		p.thumbnail,
		p.features,
		p.price,
		p.offprice,
		p.exclusive
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id
	WHERE ci.user_id = $1
	ORDER BY ci.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	items := []CartItem{}
	for rows.Next() {
		var (
			item     CartItem
			features []byte
		)
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.CreatedAt,
			&item.Product.ID, &item.Product.Title, &item.Product.Thumbnail, &features,
			&item.Product.Price, &item.Product.OffPrice, &item.Product.Exclusive,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		if len(features) > 0 {
			item.Product.Features = features
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) Exists(ctx context.Context, userID, productID uint) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM cart_items WHERE user_id = $1 AND product_id = $2)`,
		userID, productID,
	).Scan(&exists)
	return exists, err
}

// HasPurchased reports whether productID already appears in one of the
// user's orders.
func (r *repository) HasPurchased(ctx context.Context, userID, productID uint) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
	SELECT EXISTS (
		SELECT 1
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.user_id = $1 AND oi.product_id = $2
	)`, userID, productID).Scan(&exists)
	return exists, err
}

func (r *repository) AddItem(ctx context.Context, userID, productID uint) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "AddItem"),
		zap.Uint("product_id", productID),
	)

	item := &CartItem{UserID: userID}
	item.Product.ID = productID

	err := r.db.QueryRowContext(ctx, `
	INSERT INTO cart_items (user_id, product_id)
	VALUES ($1, $2)
	RETURNING id, created_at
	`, userID, productID).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			return nil, ErrCartItemAlreadyExist
		}
		log.Error("failed to create cart item", zap.Error(err))
		return nil, err
	}
	return item, nil
}

func (r *repository) RemoveItem(ctx context.Context, userID, productID uint) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}
