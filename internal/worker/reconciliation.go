package worker

import (
	"context"
	"errors"
	"time"

	"sigloy-shop/internal/logger"
	"sigloy-shop/internal/metrics"
	"sigloy-shop/internal/order"
	"sigloy-shop/internal/payment"

	"go.uber.org/zap"
)

const defaultBatchSize = 50

const (
	StatRuns    = "reconcile_runs"
	StatSettled = "reconcile_settled"
	StatSkipped = "reconcile_skipped"
	StatFailed  = "reconcile_failed"
)

// PendingFinder lists pending orders that have not moved since updatedBefore.
type PendingFinder interface {
	FindStalePending(ctx context.Context, updatedBefore time.Time, limit int) ([]order.Order, error)
}

// Reconciler settles one track id. payment.Service satisfies it.
type Reconciler interface {
	HandleCallback(ctx context.Context, trackID string) (*payment.CallbackResult, error)
}

// ReconciliationWorker replays the callback flow for pending orders whose
// callback never arrived.
type ReconciliationWorker struct {
	orders     PendingFinder
	reconciler Reconciler
	interval   time.Duration
	staleAfter time.Duration
	batchSize  int
	stats      *metrics.Counters
	now        func() time.Time
}

func NewReconciliationWorker(
	orders PendingFinder,
	reconciler Reconciler,
	interval time.Duration,
	staleAfter time.Duration,
) *ReconciliationWorker {
	return &ReconciliationWorker{
		orders:     orders,
		reconciler: reconciler,
		interval:   interval,
		staleAfter: staleAfter,
		batchSize:  defaultBatchSize,
		stats:      metrics.NewCounters(StatRuns, StatSettled, StatSkipped, StatFailed),
		now:        time.Now,
	}
}

// Stats exposes the worker counters.
func (rw *ReconciliationWorker) Stats() *metrics.Counters {
	return rw.stats
}

func (rw *ReconciliationWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(rw.interval)
	defer ticker.Stop()

	log := logger.L().With(zap.String("layer", "worker"))
	log.Info("Reconciliation worker started",
		zap.Duration("interval", rw.interval),
		zap.Duration("stale_after", rw.staleAfter),
	)

	for {
		select {
		case <-ctx.Done():
			log.Info("Reconciliation worker stopped")
			return
		case <-ticker.C:
			if _, err := rw.process(ctx); err != nil {
				log.Error("Reconciliation failed", zap.Error(err))
			}
		}
	}
}

// process reconciles one batch and returns how many orders were settled
// either way.
func (rw *ReconciliationWorker) process(ctx context.Context) (int, error) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "worker"))
	timer := metrics.StartTimer()
	rw.stats.Inc(StatRuns)

	stale, err := rw.orders.FindStalePending(ctx, rw.now().Add(-rw.staleAfter), rw.batchSize)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	log.Info("Found stale pending orders", zap.Int("count", len(stale)))

	settled := 0
	for _, o := range stale {
		if ctx.Err() != nil {
			return settled, ctx.Err()
		}

		res, err := rw.reconciler.HandleCallback(ctx, o.GatewayTrackID)
		switch {
		case err == nil:
			settled++
			rw.stats.Inc(StatSettled)
			log.Info("Reconciled order",
				zap.Uint("order_id", o.ID),
				zap.String("status", string(res.Status)),
			)
		case errors.Is(err, payment.ErrAlreadyPaid), errors.Is(err, payment.ErrCallbackIgnorable):
			// settled by a callback since the scan
			rw.stats.Inc(StatSkipped)
		default:
			rw.stats.Inc(StatFailed)
			log.Warn("Failed to reconcile order", zap.Uint("order_id", o.ID), zap.Error(err))
		}
	}
	log.Info("Reconciliation batch done",
		zap.Int("settled", settled),
		zap.Duration("took", timer.Duration()),
	)
	return settled, nil
}
