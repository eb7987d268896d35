package main

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sigloy-shop/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Driver for Testing ---
type mockDriver struct{}
type mockConn struct{}
type mockStmt struct{}

func (m *mockDriver) Open(name string) (driver.Conn, error)         { return &mockConn{}, nil }
func (c *mockConn) Prepare(query string) (driver.Stmt, error)       { return &mockStmt{}, nil }
func (c *mockConn) Close() error                                    { return nil }
func (c *mockConn) Begin() (driver.Tx, error)                       { return nil, nil }
func (s *mockStmt) Close() error                                    { return nil }
func (s *mockStmt) NumInput() int                                   { return 0 }
func (s *mockStmt) Exec(args []driver.Value) (driver.Result, error) { return nil, nil }
func (s *mockStmt) Query(args []driver.Value) (driver.Rows, error)  { return nil, nil }

func init() {
	sql.Register("mock_driver_main", &mockDriver{})
}

func testConfig() *config.Config {
	return &config.Config{
		AppPort:             "8080",
		AppEnv:              "test",
		JWTSecret:           "secret",
		JWTTTL:              time.Hour,
		OxapayMerchantKey:   "merchant",
		OxapayBaseURL:       "https://oxapay.test",
		GatewayTimeout:      time.Second,
		CORSAllowedOrigins:  []string{"https://shop.test"},
		ReconcileInterval:   time.Hour,
		ReconcileStaleAfter: time.Hour,
	}
}

func TestNewServer(t *testing.T) {
	database, err := sql.Open("mock_driver_main", "")
	require.NoError(t, err)
	defer database.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := newServer(ctx, testConfig(), database)
	require.NotNil(t, router)

	t.Run("Health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "OK")
	})

	t.Run("ProtectedRoute", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/cart/", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("WorkerMetrics", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "reconcile_runs")
	})

	t.Run("CallbackWithoutTrackID", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/payments/callback/", nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func setRunEnv(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "user")
	t.Setenv("DB_PASSWORD", "pass")
	t.Setenv("DB_NAME", "db")
}

func TestRun(t *testing.T) {
	origInitDB := initDBFunc
	origStartServer := startServerFunc
	defer func() {
		initDBFunc = origInitDB
		startServerFunc = origStartServer
	}()

	initDBFunc = func(cfg *config.Config) *sql.DB {
		database, _ := sql.Open("mock_driver_main", "")
		return database
	}
	setRunEnv(t)

	t.Run("ServerClosed", func(t *testing.T) {
		var addr string
		startServerFunc = func(srv *http.Server) error {
			addr = srv.Addr
			return http.ErrServerClosed
		}

		assert.NoError(t, run())
		assert.Equal(t, ":8080", addr)
	})

	t.Run("ListenError", func(t *testing.T) {
		startServerFunc = func(srv *http.Server) error {
			return errors.New("address already in use")
		}

		assert.EqualError(t, run(), "address already in use")
	})
}
