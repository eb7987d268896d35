package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sigloy-shop/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	CreateFromCart(ctx context.Context, tx *sql.Tx, userID uint) (*Order, error)
	GetOrders(ctx context.Context, userID uint) ([]Order, error)
	GetOrderDetail(ctx context.Context, orderID, userID uint) (*Order, error)

	// Row-locking reads. Callers hold the lock until tx ends.
	LockForUser(ctx context.Context, tx *sql.Tx, orderID, userID uint) (*Order, error)
	LockByTrackID(ctx context.Context, tx *sql.Tx, trackID string) (*Order, error)

	MarkPending(ctx context.Context, tx *sql.Tx, orderID uint, gateway, trackID, raw string) error
	MarkPaid(ctx context.Context, tx *sql.Tx, orderID uint, raw string) error
	MarkUnpaid(ctx context.Context, tx *sql.Tx, orderID uint, raw string) error

	FindStalePending(ctx context.Context, updatedBefore time.Time, limit int) ([]Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, user_id, total_price, status, is_paid, gateway, gateway_track_id, gateway_response, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o        Order
		trackID  sql.NullString
		response sql.NullString
	)
	if err := row.Scan(
		&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.IsPaid,
		&o.Gateway, &trackID, &response, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.GatewayTrackID = trackID.String
	o.GatewayResponse = response.String
	return &o, nil
}

// CreateFromCart turns the user's cart into an unpaid order. Item prices are
// copied from the products at this moment and the cart is emptied.
func (r *repository) CreateFromCart(ctx context.Context, tx *sql.Tx, userID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateFromCart"),
	)

	rows, err := tx.QueryContext(ctx, `
		SELECT p.id, p.title, p.thumbnail, p.price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.id
		FOR UPDATE OF ci
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var items []OrderItem
	var total int64
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.Product.ID, &item.Product.Title, &item.Product.Thumbnail, &item.Price); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		total += item.Price
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	o := &Order{
		UserID:     userID,
		TotalPrice: total,
		Status:     StatusUnpaid,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, total_price, status, is_paid)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, gateway, created_at, updated_at
	`, userID, total, StatusUnpaid).Scan(&o.ID, &o.Gateway, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = o.ID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, price)
			VALUES ($1, $2, $3)
			RETURNING id
		`, o.ID, items[i].Product.ID, items[i].Price).Scan(&items[i].ID)
		if err != nil {
			log.Error("failed to insert order item", zap.Uint("product_id", items[i].Product.ID), zap.Error(err))
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("empty cart: %w", err)
	}

	o.Items = items
	log.Info("order created from cart",
		zap.Uint("order_id", o.ID),
		zap.Int("items", len(items)),
		zap.Int64("total_price", total),
	)
	return o, nil
}

func (r *repository) GetOrders(ctx context.Context, userID uint) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	index := map[uint]int{}
	ids := []int64{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		o.Items = []OrderItem{}
		index[o.ID] = len(orders)
		ids = append(ids, int64(o.ID))
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return orders, nil
}

func (r *repository) GetOrderDetail(ctx context.Context, orderID, userID uint) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`,
		orderID, userID,
	)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, []int64{int64(o.ID)})
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *repository) loadItems(ctx context.Context, orderIDs []int64) ([]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.price, p.id, p.title, p.thumbnail
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := []OrderItem{}
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.Price,
			&item.Product.ID, &item.Product.Title, &item.Product.Thumbnail,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) LockForUser(ctx context.Context, tx *sql.Tx, orderID, userID uint) (*Order, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		orderID, userID,
	)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

func (r *repository) LockByTrackID(ctx context.Context, tx *sql.Tx, trackID string) (*Order, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE gateway_track_id = $1 FOR UPDATE`,
		trackID,
	)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// The is_paid = FALSE guard keeps paid orders terminal even if a caller skips
// its own check.
func (r *repository) MarkPending(ctx context.Context, tx *sql.Tx, orderID uint, gateway, trackID, raw string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, gateway = $3, gateway_track_id = $4, gateway_response = $5, updated_at = NOW()
		WHERE id = $1 AND is_paid = FALSE
	`, orderID, StatusPending, gateway, trackID, raw)
	return checkTransition(res, err)
}

func (r *repository) MarkPaid(ctx context.Context, tx *sql.Tx, orderID uint, raw string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, is_paid = TRUE, gateway_response = $3, updated_at = NOW()
		WHERE id = $1 AND is_paid = FALSE
	`, orderID, StatusPaid, raw)
	return checkTransition(res, err)
}

func (r *repository) MarkUnpaid(ctx context.Context, tx *sql.Tx, orderID uint, raw string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, gateway_response = $3, updated_at = NOW()
		WHERE id = $1 AND is_paid = FALSE
	`, orderID, StatusUnpaid, raw)
	return checkTransition(res, err)
}

func checkTransition(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderAlreadyPaid
	}
	return nil
}

// FindStalePending returns pending orders whose last update is older than
// updatedBefore, oldest first.
func (r *repository) FindStalePending(ctx context.Context, updatedBefore time.Time, limit int) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status = $1 AND gateway_track_id IS NOT NULL AND updated_at < $2
		ORDER BY updated_at
		LIMIT $3
	`, StatusPending, updatedBefore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
