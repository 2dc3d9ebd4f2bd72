package repository

import (
	"context"
	"errors"

	"carbonledger/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrConsumptionRecordNotFound is returned when a consumption record does not exist.
var ErrConsumptionRecordNotFound = errors.New("consumption record not found")

// ConsumptionRepository persists consumption records.
type ConsumptionRepository interface {
	Create(ctx context.Context, record *entity.ConsumptionRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ConsumptionRecord, error)
	ListByOwner(ctx context.Context, owner entity.Owner) ([]*entity.ConsumptionRecord, error)
}
