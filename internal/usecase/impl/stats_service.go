package impl

import (
	"context"
	"log/slog"

	deliverycontext "carbonledger/internal/delivery/context"
	"carbonledger/internal/domain/entity"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/domain/service"
	"carbonledger/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// statsService implements the StatsUsecase interface.
type statsService struct {
	statsRepo  repository.StatsRepository
	statsCache service.StatsCache
	logger     *slog.Logger
}

// StatsServiceParams holds dependencies for StatsService, injected by Fx.
type StatsServiceParams struct {
	fx.In

	StatsRepo  repository.StatsRepository
	StatsCache service.StatsCache
	Logger     *slog.Logger
}

// NewStatsService is the constructor for statsService.
func NewStatsService(params StatsServiceParams) usecase.StatsUsecase {
	return &statsService{
		statsRepo:  params.StatsRepo,
		statsCache: params.StatsCache,
		logger:     params.Logger,
	}
}

// GetAdminDashboardStats aggregates every owner. Results may come from the short lived cache.
func (srv *statsService) GetAdminDashboardStats(ctx context.Context) (*entity.DashboardStats, error) {
	if stats, ok := srv.statsCache.GetDashboard(ctx); ok {
		return stats, nil
	}

	stats := &entity.DashboardStats{}

	bySDG, err := srv.statsRepo.InvestmentsBySDG(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute investments by sdg")
	}
	stats.InvestmentsBySDG = bySDG

	emissions, err := srv.statsRepo.EmissionTotals(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute emission totals")
	}
	stats.Emissions = *emissions

	counts, err := srv.statsRepo.ProofStatusCounts(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count payment proofs")
	}
	stats.Proofs = *counts

	if stats.ApprovedAmountKz, err = srv.statsRepo.ApprovedAmount(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "failed to sum approved payments")
	}
	if stats.InvestedKz, err = srv.statsRepo.InvestedAmount(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "failed to sum investments")
	}
	if stats.SectorEmissions, err = srv.statsRepo.SectorEmissions(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to compute sector emissions")
	}
	if stats.ProjectCount, err = srv.statsRepo.CountProjects(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to count projects")
	}
	if stats.CompanyCount, stats.IndividualCount, err = srv.statsRepo.CountProfiles(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to count profiles")
	}

	srv.statsCache.SetDashboard(ctx, stats)
	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Debug("Dashboard stats computed",
		slog.Int64("projects", stats.ProjectCount),
		slog.Int64("pending_proofs", stats.Proofs.Pending),
	)

	return stats, nil
}

// GetOwnerStats aggregates one owner's ledger. It is always computed from the base tables.
func (srv *statsService) GetOwnerStats(ctx context.Context, owner entity.Owner) (*entity.OwnerStats, error) {
	stats := &entity.OwnerStats{}

	bySDG, err := srv.statsRepo.InvestmentsBySDG(ctx, &owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute investments by sdg")
	}
	stats.InvestmentsBySDG = bySDG

	emissions, err := srv.statsRepo.EmissionTotals(ctx, &owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute emission totals")
	}
	stats.Emissions = *emissions

	counts, err := srv.statsRepo.ProofStatusCounts(ctx, &owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count payment proofs")
	}
	stats.Proofs = *counts

	if stats.ApprovedAmountKz, err = srv.statsRepo.ApprovedAmount(ctx, &owner); err != nil {
		return nil, errors.Wrap(err, "failed to sum approved payments")
	}
	if stats.InvestedKz, err = srv.statsRepo.InvestedAmount(ctx, &owner); err != nil {
		return nil, errors.Wrap(err, "failed to sum investments")
	}

	return stats, nil
}
