package payment

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type Repository interface {
	RequestHistory

	GetGateway(ctx context.Context, tx *sql.Tx, id uint) (*Gateway, error)
	ListActiveGateways(ctx context.Context) ([]Gateway, error)
	CreatePaymentRequest(ctx context.Context, tx *sql.Tx, pr *PaymentRequest) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetGateway(ctx context.Context, tx *sql.Tx, id uint) (*Gateway, error) {
	var g Gateway
	err := tx.QueryRowContext(ctx,
		`SELECT id, name, description, logo, is_active FROM gateways WHERE id = $1`,
		id,
	).Scan(&g.ID, &g.Name, &g.Description, &g.Logo, &g.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) ListActiveGateways(ctx context.Context) ([]Gateway, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, logo, is_active FROM gateways WHERE is_active = TRUE ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gateways := []Gateway{}
	for rows.Next() {
		var g Gateway
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.Logo, &g.IsActive); err != nil {
			return nil, err
		}
		gateways = append(gateways, g)
	}
	return gateways, rows.Err()
}

// LastRequestSince returns the newest request timestamp at or after since, or
// nil when there is none.
func (r *repository) LastRequestSince(
	ctx context.Context,
	tx *sql.Tx,
	userID, orderID, gatewayID uint,
	since time.Time,
) (*time.Time, error) {
	var last sql.NullTime
	err := tx.QueryRowContext(ctx, `
		SELECT MAX(created_at)
		FROM payment_requests
		WHERE user_id = $1 AND order_id = $2 AND gateway_id = $3 AND created_at >= $4
	`, userID, orderID, gatewayID, since).Scan(&last)
	if err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}

func (r *repository) CreatePaymentRequest(ctx context.Context, tx *sql.Tx, pr *PaymentRequest) error {
	if pr.CreatedAt.IsZero() {
		pr.CreatedAt = time.Now()
	}
	return tx.QueryRowContext(ctx, `
		INSERT INTO payment_requests (user_id, order_id, gateway_id, track_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, pr.UserID, pr.OrderID, pr.GatewayID, pr.TrackID, pr.CreatedAt).Scan(&pr.ID)
}
