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
)

// investmentRouter turns approved proofs with an SDG into investments.
// route must run inside a transaction that holds the proof's row lock;
// report runs after that transaction committed.
type investmentRouter struct {
	policy    service.RoutingPolicy
	publisher service.EventPublisher
	logger    *slog.Logger
}

func newInvestmentRouter(policy service.RoutingPolicy, publisher service.EventPublisher, logger *slog.Logger) *investmentRouter {
	return &investmentRouter{
		policy:    policy,
		publisher: publisher,
		logger:    logger,
	}
}

func (r *investmentRouter) route(ctx context.Context, repos repository.RepositoryFactory, proof *entity.PaymentProof) (*usecase.RoutingResult, error) {
	if proof.Status != entity.ProofStatusApproved {
		return &usecase.RoutingResult{Outcome: usecase.RoutingOutcomeNotApproved}, nil
	}
	if proof.SDGID == nil {
		return &usecase.RoutingResult{Outcome: usecase.RoutingOutcomeNoSDG}, nil
	}

	investmentRepo := repos.InvestmentRepo()
	projectRepo := repos.ProjectRepo()

	existing, err := investmentRepo.FindByProofID(ctx, proof.ID)
	if err == nil {
		return &usecase.RoutingResult{Outcome: usecase.RoutingOutcomeAlreadyRouted, Investment: existing}, nil
	}
	if !errors.Is(err, repository.ErrInvestmentNotFound) {
		return nil, errors.Wrap(err, "failed to check existing investment")
	}

	candidates, err := projectRepo.FindBySDG(ctx, *proof.SDGID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load routing candidates")
	}

	project := r.policy.Select(proof, candidates)
	if project == nil {
		return &usecase.RoutingResult{Outcome: usecase.RoutingOutcomeNoRoutableProject}, nil
	}

	investment := &entity.Investment{
		OwnerType:      proof.OwnerType,
		OwnerID:        proof.OwnerID,
		ProjectID:      project.ID,
		PaymentProofID: proof.ID,
		Amount:         proof.Amount,
	}

	created, err := investmentRepo.CreateIfAbsent(ctx, investment)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create investment")
	}
	if !created {
		// Lost the race on the unique index; the winner's row is the investment.
		existing, err := investmentRepo.FindByProofID(ctx, proof.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load concurrent investment")
		}

		return &usecase.RoutingResult{Outcome: usecase.RoutingOutcomeAlreadyRouted, Investment: existing}, nil
	}

	if err := projectRepo.IncrementTotalInvested(ctx, project.ID, investment.Amount); err != nil {
		return nil, errors.Wrap(err, "failed to increment project total")
	}
	project.TotalInvested = project.TotalInvested.Add(investment.Amount)

	return &usecase.RoutingResult{
		Outcome:    usecase.RoutingOutcomeRouted,
		Investment: investment,
		Project:    project,
	}, nil
}

// report logs the outcome and fans out the side effects of a committed routing.
func (r *investmentRouter) report(ctx context.Context, proof *entity.PaymentProof, result *usecase.RoutingResult) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, r.logger)

	switch result.Outcome {
	case usecase.RoutingOutcomeNoRoutableProject:
		logger.Warn("No routable project for approved payment proof",
			slog.String("proof_id", proof.ID.String()),
			slog.Int("sdg_id", *proof.SDGID),
			slog.String("amount", proof.Amount.StringFixed(2)),
		)
	case usecase.RoutingOutcomeRouted:
		logger.Info("Payment proof routed to project",
			slog.String("proof_id", proof.ID.String()),
			slog.String("project_id", result.Project.ID.String()),
			slog.String("investment_id", result.Investment.ID.String()),
			slog.String("policy", r.policy.Name()),
		)
		publishEvent(ctx, r.publisher, logger, investmentEvent(result.Project, result.Investment))
	}
}
