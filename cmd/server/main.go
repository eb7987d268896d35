package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sigloy-shop/internal/auth"
	"sigloy-shop/internal/cart"
	"sigloy-shop/internal/config"
	"sigloy-shop/internal/db"
	"sigloy-shop/internal/logger"
	"sigloy-shop/internal/metrics"
	"sigloy-shop/internal/middleware"
	"sigloy-shop/internal/notification"
	"sigloy-shop/internal/order"
	"sigloy-shop/internal/payment"
	"sigloy-shop/internal/payment/webhook"
	"sigloy-shop/internal/product"
	"sigloy-shop/internal/rest"
	"sigloy-shop/internal/user"
	"sigloy-shop/internal/worker"

	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           newServer(ctx, cfg, database),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("HTTP server running", zap.String("addr", srv.Addr))
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer wires repositories, services and background jobs. Jobs stop
// when ctx is done.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) http.Handler {
	txRunner := db.NewTxRunner(database)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	var sender notification.Sender = notification.LogSender{}
	if cfg.KavenegarAPIKey != "" {
		sender = notification.NewKavenegarSender(cfg.KavenegarAPIKey, cfg.KavenegarTemplate, cfg.GatewayTimeout)
	}

	userSvc := user.NewService(user.NewRepository(database), sender, tokens)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	cartSvc := cart.NewService(cart.NewRepository(database), productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, txRunner)

	registry := payment.NewRegistry()
	registry.Register(payment.OxapayName, payment.NewOxapayGateway(payment.OxapayConfig{
		MerchantKey: cfg.OxapayMerchantKey,
		BaseURL:     cfg.OxapayBaseURL,
		CallbackURL: cfg.OxapayCallbackURL,
		Timeout:     cfg.GatewayTimeout,
	}))
	paymentSvc := payment.NewService(txRunner, orderRepo, payment.NewRepository(database), registry)

	limiter := middleware.NewLimiter()
	go limiter.RunCleanup(ctx, time.Minute)

	var stats *metrics.Counters
	if cfg.ReconcileInterval > 0 {
		rw := worker.NewReconciliationWorker(orderRepo, paymentSvc, cfg.ReconcileInterval, cfg.ReconcileStaleAfter)
		stats = rw.Stats()
		go rw.Run(ctx)
	}

	h := &rest.Handler{
		UserSvc:    userSvc,
		ProductSvc: productSvc,
		CartSvc:    cartSvc,
		OrderSvc:   orderSvc,
		PaymentSvc: paymentSvc,
	}

	return rest.NewRouter(h, rest.RouterConfig{
		Tokens:         tokens,
		Limiter:        limiter,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Callback:       webhook.NewWebhookHandler(paymentSvc).CallbackHandler,
		Stats:          stats,
	})
}
