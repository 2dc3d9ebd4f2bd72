package usecase

import (
	"context"

	"carbonledger/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/shopspring/decimal"
)

// ProjectInput defines the editable fields of a project.
type ProjectInput struct {
	SDGID        int
	Name         string
	Description  string
	Location     string
	Latitude     *float64
	Longitude    *float64
	ImageURL     string
	TargetAmount decimal.Decimal
}

// ProjectUpdateInput defines a progress post. Files are stored and appended to MediaURLs.
type ProjectUpdateInput struct {
	Title     string
	Content   string
	MediaURLs []string
	Files     []*FileUpload
}

// ProjectView is a project as shown to the public.
type ProjectView struct {
	*entity.Project
	DisplayAmount *decimal.Decimal `json:"display_amount,omitempty"`
	PublicAmount  decimal.Decimal  `json:"public_amount"`
}

// ProjectUsecase defines project management and the public project pages.
type ProjectUsecase interface {
	ListSDGs(ctx context.Context) ([]*entity.SDG, error)

	CreateProject(ctx context.Context, input *ProjectInput) (*entity.Project, error)
	UpdateProject(ctx context.Context, projectID uuid.UUID, input *ProjectInput) (*entity.Project, error)
	DeleteProject(ctx context.Context, projectID uuid.UUID) error

	GetProject(ctx context.Context, projectID uuid.UUID) (*ProjectView, error)
	ListProjects(ctx context.Context) ([]*ProjectView, error)
	ProjectMap(ctx context.Context, bound *orb.Bound) (*geojson.FeatureCollection, error)
	ProjectQRCode(ctx context.Context, projectID uuid.UUID) ([]byte, error)

	PostUpdate(ctx context.Context, projectID uuid.UUID, input *ProjectUpdateInput) (*entity.ProjectUpdate, error)

	SetDisplayInvestment(ctx context.Context, projectID uuid.UUID, amount decimal.Decimal, adminID uuid.UUID) (*entity.DisplayInvestment, error)
	ClearDisplayInvestment(ctx context.Context, projectID uuid.UUID) error

	// NotifyFollowers publishes an admin message for the project's followers.
	NotifyFollowers(ctx context.Context, projectID uuid.UUID, message string) error
}
