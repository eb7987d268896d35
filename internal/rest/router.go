package rest

import (
	"net/http"
	"time"

	"sigloy-shop/internal/auth"
	"sigloy-shop/internal/logger"
	"sigloy-shop/internal/metrics"
	"sigloy-shop/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig holds the cross-cutting pieces of the router.
type RouterConfig struct {
	Tokens         auth.TokenParser
	Limiter        *middleware.Limiter
	AllowedOrigins []string
	Callback       http.HandlerFunc
	RequestTimeout time.Duration
	Stats          *metrics.Counters
}

// NewRouter mounts the API. Auth runs before the limiter so that
// authenticated callers are limited per user.
func NewRouter(h *Handler, cfg RouterConfig) chi.Router {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Limiter == nil {
		cfg.Limiter = middleware.NewLimiter()
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Auth(cfg.Tokens))
	r.Use(cfg.Limiter.Middleware)
	r.Use(chimw.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if cfg.Stats != nil {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, r, http.StatusOK, cfg.Stats.Snapshot())
		})
	}

	r.Post("/auth/otp/", h.RequestOTP)
	r.Post("/auth/verify/", h.VerifyOTP)

	r.Get("/products/", h.ListProducts)
	r.Get("/products/{id}/", h.GetProduct)

	if cfg.Callback != nil {
		r.Get("/payments/callback/", cfg.Callback)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Get("/cart/", h.GetCart)
		r.Post("/cart/items/", h.AddCartItem)
		r.Delete("/cart/items/{product_id}/", h.RemoveCartItem)

		r.Get("/orders/", h.ListOrders)
		r.Post("/orders/", h.CreateOrder)
		r.Get("/orders/{id}/", h.GetOrder)

		r.Get("/payments/gateways/all/", h.ListGateways)
		r.Post("/payments/process/", h.ProcessPayment)
	})

	return r
}
