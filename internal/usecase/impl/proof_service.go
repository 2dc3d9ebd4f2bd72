package impl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	deliverycontext "carbonledger/internal/delivery/context"
	"carbonledger/internal/domain/entity"
	domainerrors "carbonledger/internal/domain/errors"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/domain/service"
	"carbonledger/internal/usecase"
	"carbonledger/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// proofService implements the ProofUsecase interface.
type proofService struct {
	txManager       repository.TransactionManager
	proofRepo       repository.PaymentProofRepository
	consumptionRepo repository.ConsumptionRepository
	sdgRepo         repository.SDGRepository
	storage         service.FileStorage
	statsCache      service.StatsCache
	router          *investmentRouter
	logger          *slog.Logger
}

// ProofServiceParams holds dependencies for ProofService, injected by Fx.
type ProofServiceParams struct {
	fx.In

	TxManager       repository.TransactionManager
	ProofRepo       repository.PaymentProofRepository
	ConsumptionRepo repository.ConsumptionRepository
	SDGRepo         repository.SDGRepository
	Storage         service.FileStorage
	StatsCache      service.StatsCache
	Publisher       service.EventPublisher
	Policy          service.RoutingPolicy
	Logger          *slog.Logger
}

// NewProofService is the constructor for proofService.
func NewProofService(params ProofServiceParams) usecase.ProofUsecase {
	return &proofService{
		txManager:       params.TxManager,
		proofRepo:       params.ProofRepo,
		consumptionRepo: params.ConsumptionRepo,
		sdgRepo:         params.SDGRepo,
		storage:         params.Storage,
		statsCache:      params.StatsCache,
		router:          newInvestmentRouter(params.Policy, params.Publisher, params.Logger),
		logger:          params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *proofService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// UploadProof stores the proof file and records a pending proof.
func (srv *proofService) UploadProof(ctx context.Context, input *usecase.UploadProofInput) (*entity.PaymentProof, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerrors.ErrInvalidAmount
	}
	if input.File == nil || input.File.Content == nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("proof file is required")
	}

	if input.ConsumptionRecordID != nil {
		record, err := srv.consumptionRepo.FindByID(ctx, *input.ConsumptionRecordID)
		if err != nil {
			return nil, errors.Wrap(translateNotFound(err), "failed to load consumption record")
		}
		if record.OwnerType != input.Owner.Type || record.OwnerID != input.Owner.ID {
			return nil, domainerrors.ErrConsumptionRecordNotFound
		}
	}

	if input.SDGID != nil {
		if _, err := srv.sdgRepo.FindByID(ctx, *input.SDGID); err != nil {
			return nil, errors.Wrap(translateNotFound(err), "failed to load sdg")
		}
	}

	fileURL, err := srv.storeFile(ctx, input.Owner, input.File)
	if err != nil {
		return nil, err
	}

	proof := &entity.PaymentProof{
		OwnerType:           input.Owner.Type,
		OwnerID:             input.Owner.ID,
		ConsumptionRecordID: input.ConsumptionRecordID,
		SDGID:               input.SDGID,
		Amount:              input.Amount.Round(2),
		FileURL:             fileURL,
		Status:              entity.ProofStatusPending,
	}

	if err := srv.proofRepo.Create(ctx, proof); err != nil {
		return nil, errors.Wrap(err, "failed to create payment proof")
	}

	srv.statsCache.Invalidate(ctx)
	srv.log(ctx).Info("Payment proof uploaded",
		slog.String("proof_id", proof.ID.String()),
		slog.String("owner_type", proof.OwnerType.String()),
		slog.String("amount", proof.Amount.StringFixed(2)),
	)

	return proof, nil
}

// storeFile keys uploads by owner and content hash so a re-upload of the same file reuses the object.
func (srv *proofService) storeFile(ctx context.Context, owner entity.Owner, file *usecase.FileUpload) (string, error) {
	data, err := io.ReadAll(file.Content)
	if err != nil {
		return "", domainerrors.ErrValidationFailed.WrapMessage("failed to read proof file")
	}

	checksum, size, err := util.ReaderChecksum(bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "failed to hash proof file")
	}

	key := fmt.Sprintf("proofs/%s/%s-%s", owner.ID, checksum[:16], util.SanitizeFileName(file.Name))
	url, err := srv.storage.Upload(ctx, key, file.ContentType, bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "failed to store proof file")
	}

	srv.log(ctx).Debug("Stored proof file", slog.String("key", key), slog.String("size", util.FormatBytes(size)))

	return url, nil
}

// ListOwnerProofs lists an owner's proofs, newest first.
func (srv *proofService) ListOwnerProofs(ctx context.Context, owner entity.Owner) ([]*entity.PaymentProof, error) {
	proofs, err := srv.proofRepo.List(ctx, repository.ProofFilter{Owner: &owner})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list owner proofs")
	}

	return proofs, nil
}

// ListProofs lists proofs for review.
func (srv *proofService) ListProofs(ctx context.Context, filter repository.ProofFilter) ([]*entity.PaymentProof, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown proof status filter")
	}

	proofs, err := srv.proofRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list proofs")
	}

	return proofs, nil
}

// GetProof retrieves a single proof.
func (srv *proofService) GetProof(ctx context.Context, proofID uuid.UUID) (*entity.PaymentProof, error) {
	proof, err := srv.proofRepo.FindByID(ctx, proofID)
	if err != nil {
		return nil, errors.Wrap(translateNotFound(err), "failed to find proof")
	}

	return proof, nil
}

// UpdateProofStatus sets the review outcome. Status update, investment insert and
// project total increment commit together or not at all.
func (srv *proofService) UpdateProofStatus(ctx context.Context, proofID uuid.UUID, status entity.ProofStatus) (*usecase.ProofReviewResult, error) {
	if !status.IsReviewOutcome() {
		return nil, domainerrors.ErrInvalidProofStatus
	}

	var result *usecase.ProofReviewResult
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		proofRepo := repos.PaymentProofRepo()

		proof, err := proofRepo.LockByID(ctx, proofID)
		if err != nil {
			return translateNotFound(err)
		}

		now := time.Now().UTC()
		if err := proofRepo.UpdateStatus(ctx, proof.ID, status, now); err != nil {
			return errors.Wrap(err, "failed to update proof status")
		}
		proof.Status = status
		proof.UpdatedAt = now

		routing, err := srv.router.route(ctx, repos, proof)
		if err != nil {
			return err
		}

		result = &usecase.ProofReviewResult{Proof: proof, Routing: routing}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update proof status",
			slog.String("proof_id", proofID.String()),
			slog.String("status", status.String()),
			slog.Any("error", err),
		)

		return nil, errors.Wrap(err, "failed to execute proof status transaction")
	}

	srv.statsCache.Invalidate(ctx)
	srv.router.report(ctx, result.Proof, result.Routing)
	srv.log(ctx).Info("Payment proof reviewed",
		slog.String("proof_id", proofID.String()),
		slog.String("status", status.String()),
		slog.String("routing", string(result.Routing.Outcome)),
	)

	return result, nil
}

// AssignSDG sets the proof's SDG. Re-assigning the same SDG writes nothing; changing
// the SDG of a proof whose money is already invested is a conflict.
func (srv *proofService) AssignSDG(ctx context.Context, proofID uuid.UUID, sdgID int) (*usecase.ProofReviewResult, error) {
	var result *usecase.ProofReviewResult
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if _, err := repos.SDGRepo().FindByID(ctx, sdgID); err != nil {
			return translateNotFound(err)
		}

		proofRepo := repos.PaymentProofRepo()
		proof, err := proofRepo.LockByID(ctx, proofID)
		if err != nil {
			return translateNotFound(err)
		}

		if proof.SDGID == nil || *proof.SDGID != sdgID {
			if proof.SDGID != nil {
				_, err := repos.InvestmentRepo().FindByProofID(ctx, proof.ID)
				if err == nil {
					return domainerrors.ErrProofAlreadyRouted
				}
				if !errors.Is(err, repository.ErrInvestmentNotFound) {
					return errors.Wrap(err, "failed to check existing investment")
				}
			}

			now := time.Now().UTC()
			if err := proofRepo.UpdateSDG(ctx, proof.ID, sdgID, now); err != nil {
				return errors.Wrap(err, "failed to update proof sdg")
			}
			proof.SDGID = &sdgID
			proof.UpdatedAt = now
		}

		routing, err := srv.router.route(ctx, repos, proof)
		if err != nil {
			return err
		}

		result = &usecase.ProofReviewResult{Proof: proof, Routing: routing}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to assign sdg",
			slog.String("proof_id", proofID.String()),
			slog.Int("sdg_id", sdgID),
			slog.Any("error", err),
		)

		return nil, errors.Wrap(err, "failed to execute assign sdg transaction")
	}

	srv.statsCache.Invalidate(ctx)
	srv.router.report(ctx, result.Proof, result.Routing)

	return result, nil
}
