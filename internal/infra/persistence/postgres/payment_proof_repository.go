package postgres

import (
	"context"
	"time"

	"carbonledger/internal/domain/entity"
	domainerrors "carbonledger/internal/domain/errors"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// paymentProofRepository implements the repository.PaymentProofRepository interface.
type paymentProofRepository struct {
	db *gorm.DB
}

// NewPaymentProofRepository is the constructor for paymentProofRepository.
func NewPaymentProofRepository(db *gorm.DB) repository.PaymentProofRepository {
	return &paymentProofRepository{
		db: db,
	}
}

// Create persists a new proof. New proofs are always pending.
func (repo *paymentProofRepository) Create(ctx context.Context, proof *entity.PaymentProof) error {
	proofM := fromPaymentProofDomain(proof)
	proofM.Status = entity.ProofStatusPending.String()

	if err := repo.db.WithContext(ctx).Create(proofM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required payment proof information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create payment proof")
	}

	*proof = *toPaymentProofDomain(proofM)

	return nil
}

// FindByID retrieves a payment proof by its unique ID.
func (repo *paymentProofRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PaymentProof, error) {
	return repo.find(repo.db.WithContext(ctx), id)
}

// LockByID retrieves a payment proof with SELECT ... FOR UPDATE. SQLite has no row locks
// and serializes writers instead, so the clause is dropped there.
func (repo *paymentProofRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.PaymentProof, error) {
	return repo.find(repo.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), id)
}

func (repo *paymentProofRepository) find(db *gorm.DB, id uuid.UUID) (*entity.PaymentProof, error) {
	var proofM model.PaymentProofModel

	if err := db.Where("id = ?", id).First(&proofM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPaymentProofNotFound
		}

		return nil, errors.Wrap(err, "failed to find payment proof by ID")
	}

	return toPaymentProofDomain(&proofM), nil
}

// List returns proofs matching the filter, newest first.
func (repo *paymentProofRepository) List(ctx context.Context, filter repository.ProofFilter) ([]*entity.PaymentProof, error) {
	var proofModels []*model.PaymentProofModel

	query := repo.db.WithContext(ctx).Scopes(ownerScope(filter.Owner, "owner_type", "owner_id"))
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	if err := query.Order("created_at DESC").Order("id DESC").Find(&proofModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list payment proofs")
	}

	return toPaymentProofDomains(proofModels), nil
}

// UpdateStatus sets the review status of a proof.
func (repo *paymentProofRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ProofStatus, at time.Time) error {
	return repo.update(ctx, id, map[string]any{"status": status.String(), "updated_at": at.UTC()})
}

// UpdateSDG sets the SDG of a proof.
func (repo *paymentProofRepository) UpdateSDG(ctx context.Context, id uuid.UUID, sdgID int, at time.Time) error {
	return repo.update(ctx, id, map[string]any{"sdg_id": sdgID, "updated_at": at.UTC()})
}

func (repo *paymentProofRepository) update(ctx context.Context, id uuid.UUID, columns map[string]any) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PaymentProofModel{}).
		Where("id = ?", id).
		Updates(columns)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update payment proof")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPaymentProofNotFound
	}

	return nil
}

// FindUnrouted lists approved proofs with an SDG that have no investment, oldest first.
func (repo *paymentProofRepository) FindUnrouted(ctx context.Context, owner *entity.Owner) ([]*entity.PaymentProof, error) {
	var proofModels []*model.PaymentProofModel

	if err := repo.db.WithContext(ctx).
		Scopes(ownerScope(owner, "owner_type", "owner_id")).
		Where("status = ?", entity.ProofStatusApproved.String()).
		Where("sdg_id IS NOT NULL").
		Where("NOT EXISTS (SELECT 1 FROM investments i WHERE i.payment_proof_id = payment_proofs.id)").
		Order("created_at ASC").
		Order("id ASC").
		Find(&proofModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find unrouted payment proofs")
	}

	return toPaymentProofDomains(proofModels), nil
}

// ownerScope restricts a query to one owner. A nil owner leaves the query unscoped.
func ownerScope(owner *entity.Owner, typeColumn, idColumn string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if owner == nil {
			return db
		}

		return db.Where(typeColumn+" = ? AND "+idColumn+" = ?", owner.Type.String(), owner.ID)
	}
}

// --- Mapper Functions ---

func toPaymentProofDomain(data *model.PaymentProofModel) *entity.PaymentProof {
	return &entity.PaymentProof{
		ID:                  data.ID,
		OwnerType:           entity.OwnerType(data.OwnerType),
		OwnerID:             data.OwnerID,
		ConsumptionRecordID: data.ConsumptionRecordID,
		SDGID:               data.SDGID,
		Amount:              data.Amount,
		FileURL:             data.FileURL,
		Status:              entity.ProofStatus(data.Status),
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}

func toPaymentProofDomains(proofModels []*model.PaymentProofModel) []*entity.PaymentProof {
	proofs := make([]*entity.PaymentProof, 0, len(proofModels))
	for _, proofM := range proofModels {
		proofs = append(proofs, toPaymentProofDomain(proofM))
	}

	return proofs
}

func fromPaymentProofDomain(data *entity.PaymentProof) *model.PaymentProofModel {
	return &model.PaymentProofModel{
		ID:                  data.ID,
		OwnerType:           data.OwnerType.String(),
		OwnerID:             data.OwnerID,
		ConsumptionRecordID: data.ConsumptionRecordID,
		SDGID:               data.SDGID,
		Amount:              data.Amount,
		FileURL:             data.FileURL,
		Status:              data.Status.String(),
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}
