package payment

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"sigloy-shop/internal/order"

	"github.com/stretchr/testify/mock"
)

// lockingTx serializes transactions the way a row lock on a single order does.
type lockingTx struct {
	mu sync.Mutex
}

func (l *lockingTx) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(nil)
}

// memStore keeps orders, gateways and payment requests in memory. Writes made
// by a failed transaction are not rolled back, so tests only fail before the
// first write.
type memStore struct {
	mu       sync.Mutex
	orders   map[uint]*order.Order
	gateways map[uint]*Gateway
	requests []PaymentRequest
}

func newMemStore() *memStore {
	return &memStore{
		orders:   map[uint]*order.Order{},
		gateways: map[uint]*Gateway{},
	}
}

func (m *memStore) orderByID(id uint) order.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.orders[id]
}

func (m *memStore) requestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// order.Repository

func (m *memStore) CreateFromCart(ctx context.Context, tx *sql.Tx, userID uint) (*order.Order, error) {
	return nil, order.ErrCartEmpty
}

func (m *memStore) GetOrders(ctx context.Context, userID uint) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []order.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memStore) GetOrderDetail(ctx context.Context, orderID, userID uint) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, order.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) LockForUser(ctx context.Context, tx *sql.Tx, orderID, userID uint) (*order.Order, error) {
	return m.GetOrderDetail(ctx, orderID, userID)
}

func (m *memStore) LockByTrackID(ctx context.Context, tx *sql.Tx, trackID string) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.GatewayTrackID == trackID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (m *memStore) transition(orderID uint, fn func(o *order.Order)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.IsPaid {
		return order.ErrOrderAlreadyPaid
	}
	fn(o)
	o.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) MarkPending(ctx context.Context, tx *sql.Tx, orderID uint, gateway, trackID, raw string) error {
	return m.transition(orderID, func(o *order.Order) {
		o.Status = order.StatusPending
		o.Gateway = gateway
		o.GatewayTrackID = trackID
		o.GatewayResponse = raw
	})
}

func (m *memStore) MarkPaid(ctx context.Context, tx *sql.Tx, orderID uint, raw string) error {
	return m.transition(orderID, func(o *order.Order) {
		o.Status = order.StatusPaid
		o.IsPaid = true
		o.GatewayResponse = raw
	})
}

func (m *memStore) MarkUnpaid(ctx context.Context, tx *sql.Tx, orderID uint, raw string) error {
	return m.transition(orderID, func(o *order.Order) {
		o.Status = order.StatusUnpaid
		o.GatewayResponse = raw
	})
}

func (m *memStore) FindStalePending(ctx context.Context, updatedBefore time.Time, limit int) ([]order.Order, error) {
	return nil, nil
}

// Repository

func (m *memStore) GetGateway(ctx context.Context, tx *sql.Tx, id uint) (*Gateway, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gateways[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memStore) ListActiveGateways(ctx context.Context) ([]Gateway, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Gateway{}
	for _, g := range m.gateways {
		if g.IsActive {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) LastRequestSince(ctx context.Context, tx *sql.Tx, userID, orderID, gatewayID uint, since time.Time) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var last *time.Time
	for _, pr := range m.requests {
		if pr.UserID != userID || pr.OrderID != orderID || pr.GatewayID != gatewayID {
			continue
		}
		if pr.CreatedAt.Before(since) {
			continue
		}
		if last == nil || pr.CreatedAt.After(*last) {
			t := pr.CreatedAt
			last = &t
		}
	}
	return last, nil
}

func (m *memStore) CreatePaymentRequest(ctx context.Context, tx *sql.Tx, pr *PaymentRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pr.ID = uint(len(m.requests) + 1)
	m.requests = append(m.requests, *pr)
	return nil
}

type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) CreatePayment(ctx context.Context, o *order.Order) (*CreatePaymentResult, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CreatePaymentResult), args.Error(1)
}

func (m *MockAdapter) Inquire(ctx context.Context, trackID string) (*Inquiry, error) {
	args := m.Called(ctx, trackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Inquiry), args.Error(1)
}
