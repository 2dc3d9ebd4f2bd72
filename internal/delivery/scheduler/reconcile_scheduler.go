// Package scheduler runs periodic ledger maintenance inside the API process.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"carbonledger/config"
	"carbonledger/internal/delivery"
	deliverycontext "carbonledger/internal/delivery/context"
	"carbonledger/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// reconcileScheduler runs a reconciliation pass on a fixed interval.
type reconcileScheduler struct {
	investmentUC usecase.InvestmentUsecase
	interval     time.Duration
	logger       *slog.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// ReconcileSchedulerParams holds dependencies for the scheduler, injected by Fx.
type ReconcileSchedulerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	InvestmentUC usecase.InvestmentUsecase
}

// NewReconcileScheduler builds the scheduler. A zero interval disables it.
func NewReconcileScheduler(params ReconcileSchedulerParams) delivery.Delivery {
	var interval time.Duration
	if params.Cfg.Reconcile != nil {
		interval = params.Cfg.Reconcile.Interval
	}

	s := &reconcileScheduler{
		investmentUC: params.InvestmentUC,
		interval:     interval,
		logger:       params.Logger,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: s.shutdown,
	})

	return s
}

// Serve blocks, running a pass every interval until the application stops.
func (s *reconcileScheduler) Serve(ctx context.Context) error {
	defer close(s.done)

	if s.interval <= 0 {
		s.logger.Info("Reconcile scheduler disabled")

		return nil
	}

	s.logger.Info("Starting reconcile scheduler", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-s.stop:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *reconcileScheduler) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	runID := uuid.NewString()
	logger := s.logger.With(slog.String("request_id", runID))
	runCtx = deliverycontext.WithRequestID(runCtx, runID)
	runCtx = deliverycontext.WithLogger(runCtx, logger)

	report, err := s.investmentUC.Reconcile(runCtx, nil)
	if err != nil {
		logger.Error("Scheduled reconciliation failed", slog.Any("error", err))

		return
	}
	if report.Routed > 0 || report.Failed > 0 {
		logger.Info("Scheduled reconciliation routed payments",
			slog.Int("routed", report.Routed),
			slog.Int("failed", report.Failed),
			slog.Int("no_routable_project", report.NoRoutableProject),
		)
	}
}

func (s *reconcileScheduler) shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })

	select {
	case <-s.done:
	case <-ctx.Done():
	}

	return nil
}
