package repository

import (
	"context"
	"time"

	"carbonledger/internal/domain/entity"
)

// LeaderboardRepository stores leaderboard snapshots.
type LeaderboardRepository interface {
	// ReplaceSnapshot swaps every row of (period, periodStart) for entries.
	ReplaceSnapshot(ctx context.Context, period entity.LeaderboardPeriod, periodStart time.Time, entries []*entity.LeaderboardEntry) error

	// Latest returns the most recent snapshot of a period ordered by rank.
	Latest(ctx context.Context, period entity.LeaderboardPeriod) ([]*entity.LeaderboardEntry, error)
}
