package service

import (
	"context"

	"carbonledger/internal/domain/entity"
)

// StatsCache holds the admin dashboard for a short time.
type StatsCache interface {
	// GetDashboard returns the cached dashboard or false on a miss.
	GetDashboard(ctx context.Context) (*entity.DashboardStats, bool)
	SetDashboard(ctx context.Context, stats *entity.DashboardStats)

	// Invalidate drops cached aggregates after ledger writes.
	Invalidate(ctx context.Context)
}
