package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "carbonledger/internal/delivery/context"
	"carbonledger/internal/domain/entity"
	domainerrors "carbonledger/internal/domain/errors"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// leaderboardService implements the LeaderboardUsecase interface.
type leaderboardService struct {
	txManager       repository.TransactionManager
	statsRepo       repository.StatsRepository
	leaderboardRepo repository.LeaderboardRepository
	now             func() time.Time
	logger          *slog.Logger
}

// LeaderboardServiceParams holds dependencies for LeaderboardService, injected by Fx.
type LeaderboardServiceParams struct {
	fx.In

	TxManager       repository.TransactionManager
	StatsRepo       repository.StatsRepository
	LeaderboardRepo repository.LeaderboardRepository
	Logger          *slog.Logger
}

// NewLeaderboardService is the constructor for leaderboardService.
func NewLeaderboardService(params LeaderboardServiceParams) usecase.LeaderboardUsecase {
	return &leaderboardService{
		txManager:       params.TxManager,
		statsRepo:       params.StatsRepo,
		leaderboardRepo: params.LeaderboardRepo,
		now:             time.Now,
		logger:          params.Logger,
	}
}

// RecalculateLeaderboard ranks every company for the current window of period
// and replaces the stored snapshot of that window.
func (srv *leaderboardService) RecalculateLeaderboard(ctx context.Context, period entity.LeaderboardPeriod) ([]*entity.LeaderboardEntry, error) {
	if !period.IsValid() {
		return nil, domainerrors.ErrInvalidPeriod
	}

	now := srv.now().UTC()
	from, to := period.Window(now)

	totals, err := srv.statsRepo.CompanyPeriodTotals(ctx, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute company totals")
	}

	entries := entity.RankLeaderboard(period, from, now, totals)

	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		return repos.LeaderboardRepo().ReplaceSnapshot(ctx, period, from, entries)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to replace leaderboard snapshot")
	}

	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Info("Leaderboard recalculated",
		slog.String("period", period.String()),
		slog.Time("period_start", from),
		slog.Int("companies", len(entries)),
	)

	return entries, nil
}

// GetLeaderboard returns the latest snapshot of period.
func (srv *leaderboardService) GetLeaderboard(ctx context.Context, period entity.LeaderboardPeriod) ([]*entity.LeaderboardEntry, error) {
	if !period.IsValid() {
		return nil, domainerrors.ErrInvalidPeriod
	}

	entries, err := srv.leaderboardRepo.Latest(ctx, period)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load leaderboard")
	}

	return entries, nil
}
