package impl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	deliverycontext "carbonledger/internal/delivery/context"
	"carbonledger/internal/domain/entity"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/domain/service"
	"carbonledger/internal/usecase"
	"carbonledger/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// investmentService implements the InvestmentUsecase interface.
type investmentService struct {
	txManager      repository.TransactionManager
	proofRepo      repository.PaymentProofRepository
	investmentRepo repository.InvestmentRepository
	exporter       service.InvestmentExporter
	statsCache     service.StatsCache
	router         *investmentRouter
	logger         *slog.Logger
}

// InvestmentServiceParams holds dependencies for InvestmentService, injected by Fx.
type InvestmentServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	ProofRepo      repository.PaymentProofRepository
	InvestmentRepo repository.InvestmentRepository
	Exporter       service.InvestmentExporter
	StatsCache     service.StatsCache
	Publisher      service.EventPublisher
	Policy         service.RoutingPolicy
	Logger         *slog.Logger
}

// NewInvestmentService is the constructor for investmentService.
func NewInvestmentService(params InvestmentServiceParams) usecase.InvestmentUsecase {
	return &investmentService{
		txManager:      params.TxManager,
		proofRepo:      params.ProofRepo,
		investmentRepo: params.InvestmentRepo,
		exporter:       params.Exporter,
		statsCache:     params.StatsCache,
		router:         newInvestmentRouter(params.Policy, params.Publisher, params.Logger),
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *investmentService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Reconcile routes unrouted approved proofs one transaction at a time, so a
// failing proof does not hold back the others.
func (srv *investmentService) Reconcile(ctx context.Context, owner *entity.Owner) (*usecase.ReconcileReport, error) {
	started := time.Now()

	proofs, err := srv.proofRepo.FindUnrouted(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find unrouted proofs")
	}

	report := &usecase.ReconcileReport{Scanned: len(proofs)}
	for _, candidate := range proofs {
		if err := ctx.Err(); err != nil {
			return report, errors.WithStack(err)
		}

		var proof *entity.PaymentProof
		var routing *usecase.RoutingResult
		err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
			var err error
			proof, err = repos.PaymentProofRepo().LockByID(ctx, candidate.ID)
			if err != nil {
				return errors.Wrap(err, "failed to lock proof")
			}

			routing, err = srv.router.route(ctx, repos, proof)

			return err
		})
		if err != nil {
			report.Failed++
			srv.log(ctx).Error("Failed to reconcile payment proof",
				slog.String("proof_id", candidate.ID.String()),
				slog.Any("error", err),
			)

			continue
		}

		switch routing.Outcome {
		case usecase.RoutingOutcomeRouted:
			report.Routed++
		case usecase.RoutingOutcomeNoRoutableProject:
			report.NoRoutableProject++
		}
		srv.router.report(ctx, proof, routing)
	}

	if report.Routed > 0 {
		srv.statsCache.Invalidate(ctx)
	}

	level := slog.LevelDebug
	if report.Routed > 0 || report.Failed > 0 {
		level = slog.LevelInfo
	}
	srv.log(ctx).Log(ctx, level, "Investment reconciliation finished",
		slog.Bool("owner_scoped", owner != nil),
		slog.Int("scanned", report.Scanned),
		slog.Int("routed", report.Routed),
		slog.Int("no_routable_project", report.NoRoutableProject),
		slog.Int("failed", report.Failed),
		slog.String("took", util.FormatDuration(time.Since(started))),
	)

	return report, nil
}

// ListOwnerInvestments lists an owner's investments. It never writes.
func (srv *investmentService) ListOwnerInvestments(ctx context.Context, owner entity.Owner) ([]*entity.InvestmentDetail, error) {
	investments, err := srv.investmentRepo.List(ctx, repository.InvestmentFilter{Owner: &owner})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list owner investments")
	}

	return investments, nil
}

// ListInvestments lists investments for admins.
func (srv *investmentService) ListInvestments(ctx context.Context, filter repository.InvestmentFilter) ([]*entity.InvestmentDetail, error) {
	investments, err := srv.investmentRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list investments")
	}

	return investments, nil
}

// ExportInvestments renders every investment as a spreadsheet.
func (srv *investmentService) ExportInvestments(ctx context.Context) (*usecase.ExportFile, error) {
	investments, err := srv.investmentRepo.List(ctx, repository.InvestmentFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list investments for export")
	}

	var buf bytes.Buffer
	if err := srv.exporter.Export(&buf, investments); err != nil {
		return nil, errors.Wrap(err, "failed to export investments")
	}

	return &usecase.ExportFile{
		FileName:    fmt.Sprintf("investments_%s.%s", time.Now().UTC().Format("20060102_150405"), srv.exporter.FileExtension()),
		ContentType: srv.exporter.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// RebuildProjectTotals recomputes running totals from the investments table.
func (srv *investmentService) RebuildProjectTotals(ctx context.Context) (int64, error) {
	var changed int64
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		var err error
		changed, err = repos.ProjectRepo().RebuildTotals(ctx)

		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to rebuild project totals")
	}

	if changed > 0 {
		srv.log(ctx).Warn("Project totals drifted and were rebuilt", slog.Int64("projects", changed))
		srv.statsCache.Invalidate(ctx)
	}

	return changed, nil
}
