package postgres

import (
	"context"

	"carbonledger/internal/domain/entity"
	domainerrors "carbonledger/internal/domain/errors"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type consumptionRepository struct {
	db *gorm.DB
}

// NewConsumptionRepository is the constructor for consumptionRepository.
func NewConsumptionRepository(db *gorm.DB) repository.ConsumptionRepository {
	return &consumptionRepository{db: db}
}

func (repo *consumptionRepository) Create(ctx context.Context, record *entity.ConsumptionRecord) error {
	recordM := fromConsumptionDomain(record)

	if err := repo.db.WithContext(ctx).Create(recordM).Error; err != nil {
		if isNotNullConstraintViolation(err) || isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required consumption information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create consumption record")
	}

	record.ID = recordM.ID
	record.CreatedAt = recordM.CreatedAt

	return nil
}

func (repo *consumptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ConsumptionRecord, error) {
	var recordM model.ConsumptionRecordModel

	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&recordM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrConsumptionRecordNotFound
		}

		return nil, errors.Wrap(err, "failed to find consumption record")
	}

	return toConsumptionDomain(&recordM), nil
}

// ListByOwner returns the owner's records, latest period first.
func (repo *consumptionRepository) ListByOwner(ctx context.Context, owner entity.Owner) ([]*entity.ConsumptionRecord, error) {
	var recordModels []*model.ConsumptionRecordModel

	if err := repo.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", owner.Type.String(), owner.ID).
		Order("period_start DESC").
		Order("created_at DESC").
		Find(&recordModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list consumption records")
	}

	records := make([]*entity.ConsumptionRecord, 0, len(recordModels))
	for _, recordM := range recordModels {
		records = append(records, toConsumptionDomain(recordM))
	}

	return records, nil
}

// --- Mapper Functions ---

func toConsumptionDomain(data *model.ConsumptionRecordModel) *entity.ConsumptionRecord {
	return &entity.ConsumptionRecord{
		ID:                  data.ID,
		OwnerType:           entity.OwnerType(data.OwnerType),
		OwnerID:             data.OwnerID,
		PeriodStart:         data.PeriodStart,
		PeriodEnd:           data.PeriodEnd,
		EnergyKwh:           data.EnergyKwh,
		FuelLiters:          data.FuelLiters,
		TransportKm:         data.TransportKm,
		WaterM3:             data.WaterM3,
		WasteKg:             data.WasteKg,
		EmissionKgCO2:       data.EmissionKgCO2,
		CompensationValueKz: data.CompensationValueKz,
		CreatedAt:           data.CreatedAt,
	}
}

func fromConsumptionDomain(data *entity.ConsumptionRecord) *model.ConsumptionRecordModel {
	return &model.ConsumptionRecordModel{
		ID:                  data.ID,
		OwnerType:           data.OwnerType.String(),
		OwnerID:             data.OwnerID,
		PeriodStart:         data.PeriodStart.UTC(),
		PeriodEnd:           data.PeriodEnd.UTC(),
		EnergyKwh:           data.EnergyKwh,
		FuelLiters:          data.FuelLiters,
		TransportKm:         data.TransportKm,
		WaterM3:             data.WaterM3,
		WasteKg:             data.WasteKg,
		EmissionKgCO2:       data.EmissionKgCO2,
		CompensationValueKz: data.CompensationValueKz,
		CreatedAt:           data.CreatedAt,
	}
}
