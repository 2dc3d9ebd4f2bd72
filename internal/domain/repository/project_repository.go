package repository

import (
	"context"
	"errors"

	"carbonledger/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrProjectNotFound is returned when a project does not exist.
var ErrProjectNotFound = errors.New("project not found")

// ProjectRepository persists projects, their updates and display overrides.
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	Update(ctx context.Context, project *entity.Project) error

	// Delete removes the project with its updates, display override and investments.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID retrieves a project with its updates, newest first.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	List(ctx context.Context) ([]*entity.Project, error)

	// FindBySDG lists routing candidates for an SDG, oldest first.
	FindBySDG(ctx context.Context, sdgID int) ([]*entity.Project, error)

	// IncrementTotalInvested adds amount to the running total of a project.
	IncrementTotalInvested(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	// RebuildTotals recomputes every running total from investments and returns how many projects changed.
	RebuildTotals(ctx context.Context) (int64, error)

	CreateUpdate(ctx context.Context, update *entity.ProjectUpdate) error

	SetDisplayInvestment(ctx context.Context, display *entity.DisplayInvestment) error
	DeleteDisplayInvestment(ctx context.Context, projectID uuid.UUID) error
	FindDisplayInvestments(ctx context.Context) (map[uuid.UUID]*entity.DisplayInvestment, error)
}
