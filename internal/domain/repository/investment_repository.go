package repository

import (
	"context"
	"errors"

	"carbonledger/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrInvestmentNotFound is returned when no investment matches.
var ErrInvestmentNotFound = errors.New("investment not found")

// InvestmentFilter narrows investment listings. Nil fields match everything.
type InvestmentFilter struct {
	Owner     *entity.Owner
	ProjectID *uuid.UUID
	Limit     int
	Offset    int
}

// InvestmentRepository persists investments. Investments are never updated.
type InvestmentRepository interface {
	// CreateIfAbsent inserts the investment unless one already exists for its payment proof.
	// It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, investment *entity.Investment) (bool, error)

	FindByProofID(ctx context.Context, proofID uuid.UUID) (*entity.Investment, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	List(ctx context.Context, filter InvestmentFilter) ([]*entity.InvestmentDetail, error)
}
