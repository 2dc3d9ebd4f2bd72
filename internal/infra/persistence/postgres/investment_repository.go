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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// investmentRepository implements the repository.InvestmentRepository interface.
type investmentRepository struct {
	db *gorm.DB
}

// NewInvestmentRepository is the constructor for investmentRepository.
func NewInvestmentRepository(db *gorm.DB) repository.InvestmentRepository {
	return &investmentRepository{
		db: db,
	}
}

// CreateIfAbsent runs INSERT ... ON CONFLICT (payment_proof_id) DO NOTHING.
// A concurrent insert for the same proof waits on the unique index and then inserts nothing.
func (repo *investmentRepository) CreateIfAbsent(ctx context.Context, investment *entity.Investment) (bool, error) {
	investmentM := fromInvestmentDomain(investment)

	result := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_proof_id"}},
			DoNothing: true,
		}).
		Create(investmentM)
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return false, domainerrors.ErrProjectNotFound
		}

		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to create investment")
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	investment.ID = investmentM.ID
	investment.CreatedAt = investmentM.CreatedAt

	return true, nil
}

// FindByProofID retrieves the investment created from a payment proof.
func (repo *investmentRepository) FindByProofID(ctx context.Context, proofID uuid.UUID) (*entity.Investment, error) {
	var investmentM model.InvestmentModel

	if err := repo.db.WithContext(ctx).
		Where("payment_proof_id = ?", proofID).
		First(&investmentM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrInvestmentNotFound
		}

		return nil, errors.Wrap(err, "failed to find investment by payment proof")
	}

	return toInvestmentDomain(&investmentM), nil
}

// CountByProject counts the investments routed to a project.
func (repo *investmentRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.InvestmentModel{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count project investments")
	}

	return count, nil
}

// investmentDetailRow is the scan target of the investment listing join.
type investmentDetailRow struct {
	ID             uuid.UUID
	OwnerType      string
	OwnerID        uuid.UUID
	ProjectID      uuid.UUID
	PaymentProofID uuid.UUID
	Amount         decimal.Decimal
	CreatedAt      time.Time
	ProjectName    string
	SDGID          int `gorm:"column:sdg_id"`
	OwnerName      string
}

// List returns investments with their project and owner names, newest first.
func (repo *investmentRepository) List(ctx context.Context, filter repository.InvestmentFilter) ([]*entity.InvestmentDetail, error) {
	var rows []*investmentDetailRow

	query := repo.db.WithContext(ctx).
		Table("investments AS i").
		Select(`i.id, i.owner_type, i.owner_id, i.project_id, i.payment_proof_id, i.amount, i.created_at,
			p.name AS project_name, p.sdg_id AS sdg_id,
			COALESCE(c.name, ind.full_name, '') AS owner_name`).
		Joins("JOIN projects p ON p.id = i.project_id").
		Joins("LEFT JOIN companies c ON i.owner_type = ? AND c.id = i.owner_id", entity.OwnerTypeCompany.String()).
		Joins("LEFT JOIN individuals ind ON i.owner_type = ? AND ind.id = i.owner_id", entity.OwnerTypeIndividual.String()).
		Scopes(ownerScope(filter.Owner, "i.owner_type", "i.owner_id"))
	if filter.ProjectID != nil {
		query = query.Where("i.project_id = ?", *filter.ProjectID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	if err := query.Order("i.created_at DESC").Order("i.id DESC").Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list investments")
	}

	details := make([]*entity.InvestmentDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, &entity.InvestmentDetail{
			Investment: entity.Investment{
				ID:             row.ID,
				OwnerType:      entity.OwnerType(row.OwnerType),
				OwnerID:        row.OwnerID,
				ProjectID:      row.ProjectID,
				PaymentProofID: row.PaymentProofID,
				Amount:         row.Amount,
				CreatedAt:      row.CreatedAt,
			},
			ProjectName: row.ProjectName,
			SDGID:       row.SDGID,
			OwnerName:   row.OwnerName,
		})
	}

	return details, nil
}

// --- Mapper Functions ---

func toInvestmentDomain(data *model.InvestmentModel) *entity.Investment {
	return &entity.Investment{
		ID:             data.ID,
		OwnerType:      entity.OwnerType(data.OwnerType),
		OwnerID:        data.OwnerID,
		ProjectID:      data.ProjectID,
		PaymentProofID: data.PaymentProofID,
		Amount:         data.Amount,
		CreatedAt:      data.CreatedAt,
	}
}

func fromInvestmentDomain(data *entity.Investment) *model.InvestmentModel {
	return &model.InvestmentModel{
		ID:             data.ID,
		OwnerType:      data.OwnerType.String(),
		OwnerID:        data.OwnerID,
		ProjectID:      data.ProjectID,
		PaymentProofID: data.PaymentProofID,
		Amount:         data.Amount,
		CreatedAt:      data.CreatedAt,
	}
}
