package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"sigloy-shop/internal/order"
	"sigloy-shop/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFinder struct {
	mock.Mock
}

func (m *MockFinder) FindStalePending(ctx context.Context, updatedBefore time.Time, limit int) ([]order.Order, error) {
	args := m.Called(ctx, updatedBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) HandleCallback(ctx context.Context, trackID string) (*payment.CallbackResult, error) {
	args := m.Called(ctx, trackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CallbackResult), args.Error(1)
}

func TestReconciliationWorker_Process(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	newWorker := func(f *MockFinder, r *MockReconciler) *ReconciliationWorker {
		rw := NewReconciliationWorker(f, r, time.Minute, 70*time.Minute)
		rw.now = func() time.Time { return now }
		return rw
	}

	t.Run("SettlesEachStaleOrder", func(t *testing.T) {
		f, r := new(MockFinder), new(MockReconciler)
		f.On("FindStalePending", mock.Anything, now.Add(-70*time.Minute), defaultBatchSize).Return([]order.Order{
			{ID: 1, GatewayTrackID: "trk-1"},
			{ID: 2, GatewayTrackID: "trk-2"},
			{ID: 3, GatewayTrackID: "trk-3"},
			{ID: 4, GatewayTrackID: "trk-4"},
		}, nil)
		r.On("HandleCallback", mock.Anything, "trk-1").Return(&payment.CallbackResult{Status: payment.CallbackSuccess}, nil)
		r.On("HandleCallback", mock.Anything, "trk-2").Return(&payment.CallbackResult{Status: payment.CallbackFailed}, nil)
		r.On("HandleCallback", mock.Anything, "trk-3").Return(nil, payment.ErrAlreadyPaid)
		r.On("HandleCallback", mock.Anything, "trk-4").Return(nil, errors.New("db down"))

		rw := newWorker(f, r)
		settled, err := rw.process(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, settled)
		assert.Equal(t, map[string]uint64{
			StatRuns: 1, StatSettled: 2, StatSkipped: 1, StatFailed: 1,
		}, rw.Stats().Snapshot())
		f.AssertExpectations(t)
		r.AssertExpectations(t)
	})

	t.Run("NothingStale", func(t *testing.T) {
		f, r := new(MockFinder), new(MockReconciler)
		f.On("FindStalePending", mock.Anything, mock.Anything, mock.Anything).Return([]order.Order{}, nil)

		settled, err := newWorker(f, r).process(context.Background())

		require.NoError(t, err)
		assert.Zero(t, settled)
		r.AssertNotCalled(t, "HandleCallback", mock.Anything, mock.Anything)
	})

	t.Run("FinderError", func(t *testing.T) {
		f, r := new(MockFinder), new(MockReconciler)
		f.On("FindStalePending", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		_, err := newWorker(f, r).process(context.Background())

		assert.Error(t, err)
	})

	t.Run("StopsOnCancel", func(t *testing.T) {
		f, r := new(MockFinder), new(MockReconciler)
		f.On("FindStalePending", mock.Anything, mock.Anything, mock.Anything).
			Return([]order.Order{{ID: 1, GatewayTrackID: "trk-1"}}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newWorker(f, r).process(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		r.AssertNotCalled(t, "HandleCallback", mock.Anything, mock.Anything)
	})
}

func TestReconciliationWorker_Run(t *testing.T) {
	f, r := new(MockFinder), new(MockReconciler)
	called := make(chan struct{}, 1)
	f.On("FindStalePending", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case called <- struct{}{}:
			default:
			}
		}).
		Return([]order.Order{}, nil)

	rw := NewReconciliationWorker(f, r, 5*time.Millisecond, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rw.Run(ctx)
		close(done)
	}()

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("worker did not tick")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
