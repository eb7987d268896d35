package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sigloy-shop/internal/auth"
	"sigloy-shop/internal/cart"
	"sigloy-shop/internal/order"
	"sigloy-shop/internal/payment"
	"sigloy-shop/internal/product"
	"sigloy-shop/internal/user"

	"github.com/stretchr/testify/mock"
)

const testToken = "valid-token"

type staticParser struct{}

func (staticParser) Parse(token string) (*auth.Claims, error) {
	if token != testToken {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: 1, Phone: "09120000000"}, nil
}

type mocks struct {
	user    *MockUserService
	product *MockProductService
	cart    *MockCartService
	order   *MockOrderService
	payment *MockPaymentService
}

func newTestRouter(t *testing.T) (http.Handler, *mocks) {
	t.Helper()
	m := &mocks{
		user:    new(MockUserService),
		product: new(MockProductService),
		cart:    new(MockCartService),
		order:   new(MockOrderService),
		payment: new(MockPaymentService),
	}
	h := &Handler{
		UserSvc:    m.user,
		ProductSvc: m.product,
		CartSvc:    m.cart,
		OrderSvc:   m.order,
		PaymentSvc: m.payment,
	}
	router := NewRouter(h, RouterConfig{
		Tokens: staticParser{},
		Callback: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("callback"))
		},
	})
	return router, m
}

func do(router http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var errDB = errors.New("db down")

type MockUserService struct{ mock.Mock }

func (m *MockUserService) RequestOTP(ctx context.Context, phone string) (time.Duration, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *MockUserService) VerifyOTP(ctx context.Context, phone, code string) (*user.Session, error) {
	args := m.Called(ctx, phone, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Session), args.Error(1)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) List(ctx context.Context, opts product.ListOptions) (*product.ListResult, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.ListResult), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

type MockCartService struct{ mock.Mock }

func (m *MockCartService) GetCart(ctx context.Context, userID uint) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID, productID uint) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, productID uint) error {
	return m.Called(ctx, userID, productID).Error(0)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) CreateFromCart(ctx context.Context, userID uint) (*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, userID uint) ([]order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID, userID uint) (*order.Order, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) ListGateways(ctx context.Context) ([]payment.Gateway, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Gateway), args.Error(1)
}

func (m *MockPaymentService) Initiate(ctx context.Context, orderID, gatewayID, userID uint) (*payment.InitiateResult, error) {
	args := m.Called(ctx, orderID, gatewayID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.InitiateResult), args.Error(1)
}

func (m *MockPaymentService) HandleCallback(ctx context.Context, trackID string) (*payment.CallbackResult, error) {
	args := m.Called(ctx, trackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CallbackResult), args.Error(1)
}
