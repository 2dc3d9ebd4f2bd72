package usecase

import (
	"context"
	"time"

	"carbonledger/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConsumptionInput defines a consumption record. Client figures are optional and
// only compared with the server calculation.
type ConsumptionInput struct {
	Owner       entity.Owner
	PeriodStart time.Time
	PeriodEnd   time.Time
	EnergyKwh   decimal.Decimal
	FuelLiters  decimal.Decimal
	TransportKm decimal.Decimal
	WaterM3     decimal.Decimal
	WasteKg     decimal.Decimal

	ClientEmissionKgCO2       *decimal.Decimal
	ClientCompensationValueKz *decimal.Decimal
}

// ConsumptionUsecase records resource usage and derives its emissions.
type ConsumptionUsecase interface {
	CreateRecord(ctx context.Context, input *ConsumptionInput) (*entity.ConsumptionRecord, error)
	ListRecords(ctx context.Context, owner entity.Owner) ([]*entity.ConsumptionRecord, error)
	GetRecord(ctx context.Context, owner entity.Owner, recordID uuid.UUID) (*entity.ConsumptionRecord, error)
}
