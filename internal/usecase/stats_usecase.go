package usecase

import (
	"context"

	"carbonledger/internal/domain/entity"
)

// StatsUsecase computes dashboard aggregates.
type StatsUsecase interface {
	GetAdminDashboardStats(ctx context.Context) (*entity.DashboardStats, error)
	GetOwnerStats(ctx context.Context, owner entity.Owner) (*entity.OwnerStats, error)
}

// LeaderboardUsecase maintains the carbon leaderboard snapshots.
type LeaderboardUsecase interface {
	RecalculateLeaderboard(ctx context.Context, period entity.LeaderboardPeriod) ([]*entity.LeaderboardEntry, error)
	GetLeaderboard(ctx context.Context, period entity.LeaderboardPeriod) ([]*entity.LeaderboardEntry, error)
}
