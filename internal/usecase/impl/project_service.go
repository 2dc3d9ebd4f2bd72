package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	deliverycontext "carbonledger/internal/delivery/context"
	"carbonledger/internal/domain/entity"
	domainerrors "carbonledger/internal/domain/errors"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/domain/service"
	"carbonledger/internal/infra/geo"
	"carbonledger/internal/usecase"
	"carbonledger/internal/util"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const maxNotificationLength = 1000

// projectService implements the ProjectUsecase interface.
type projectService struct {
	txManager   repository.TransactionManager
	projectRepo repository.ProjectRepository
	sdgRepo     repository.SDGRepository
	storage     service.FileStorage
	qrService   service.QRCodeService
	publisher   service.EventPublisher
	statsCache  service.StatsCache
	logger      *slog.Logger
}

// ProjectServiceParams holds dependencies for ProjectService, injected by Fx.
type ProjectServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProjectRepo repository.ProjectRepository
	SDGRepo     repository.SDGRepository
	Storage     service.FileStorage
	QRService   service.QRCodeService
	Publisher   service.EventPublisher
	StatsCache  service.StatsCache
	Logger      *slog.Logger
}

// NewProjectService is the constructor for projectService.
func NewProjectService(params ProjectServiceParams) usecase.ProjectUsecase {
	return &projectService{
		txManager:   params.TxManager,
		projectRepo: params.ProjectRepo,
		sdgRepo:     params.SDGRepo,
		storage:     params.Storage,
		qrService:   params.QRService,
		publisher:   params.Publisher,
		statsCache:  params.StatsCache,
		logger:      params.Logger,
	}
}

func (srv *projectService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListSDGs returns the 17 goals.
func (srv *projectService) ListSDGs(ctx context.Context) ([]*entity.SDG, error) {
	sdgs, err := srv.sdgRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sdgs")
	}

	return sdgs, nil
}

func (srv *projectService) validateInput(ctx context.Context, input *usecase.ProjectInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("project name is required")
	}
	if input.TargetAmount.IsNegative() {
		return domainerrors.ErrInvalidAmount
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return domainerrors.ErrValidationFailed.WrapMessage("latitude and longitude must be set together")
	}
	if _, err := srv.sdgRepo.FindByID(ctx, input.SDGID); err != nil {
		return translateNotFound(err)
	}

	return nil
}

// CreateProject adds a project. Existing approved proofs of its SDG are not routed
// to it until a reconciliation pass runs.
func (srv *projectService) CreateProject(ctx context.Context, input *usecase.ProjectInput) (*entity.Project, error) {
	if err := srv.validateInput(ctx, input); err != nil {
		return nil, err
	}

	project := &entity.Project{}
	applyProjectInput(project, input)

	if err := srv.projectRepo.Create(ctx, project); err != nil {
		return nil, errors.Wrap(err, "failed to create project")
	}

	srv.statsCache.Invalidate(ctx)
	srv.log(ctx).Info("Project created", slog.String("project_id", project.ID.String()), slog.Int("sdg_id", project.SDGID))

	return project, nil
}

// UpdateProject edits a project. The SDG is locked once the project holds an
// investment, since every investment must target a project of its proof's SDG.
func (srv *projectService) UpdateProject(ctx context.Context, projectID uuid.UUID, input *usecase.ProjectInput) (*entity.Project, error) {
	if err := srv.validateInput(ctx, input); err != nil {
		return nil, err
	}

	var project *entity.Project
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		projectRepo := repos.ProjectRepo()

		var err error
		project, err = projectRepo.FindByID(ctx, projectID)
		if err != nil {
			return translateNotFound(err)
		}

		if input.SDGID != project.SDGID {
			invested, err := repos.InvestmentRepo().CountByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if invested > 0 {
				return errors.WithStack(domainerrors.ErrProjectSDGLocked)
			}
		}

		applyProjectInput(project, input)

		return projectRepo.Update(ctx, project)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update project")
	}

	srv.statsCache.Invalidate(ctx)

	return project, nil
}

// DeleteProject removes a project and its investments. The proofs behind those
// investments become unrouted and are picked up by the next reconciliation.
func (srv *projectService) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		return translateNotFound(repos.ProjectRepo().Delete(ctx, projectID))
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete project")
	}

	srv.statsCache.Invalidate(ctx)
	srv.log(ctx).Warn("Project deleted with its investments", slog.String("project_id", projectID.String()))

	return nil
}

// GetProject returns the public view of a project with its updates.
func (srv *projectService) GetProject(ctx context.Context, projectID uuid.UUID) (*usecase.ProjectView, error) {
	project, err := srv.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, errors.Wrap(translateNotFound(err), "failed to find project")
	}

	display, err := srv.projectRepo.FindDisplayInvestments(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load display investments")
	}

	return newProjectView(project, display), nil
}

// ListProjects returns the public view of every project.
func (srv *projectService) ListProjects(ctx context.Context) ([]*usecase.ProjectView, error) {
	projects, display, err := srv.loadProjects(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*usecase.ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, newProjectView(p, display))
	}

	return views, nil
}

// ProjectMap returns located projects as GeoJSON points.
func (srv *projectService) ProjectMap(ctx context.Context, bound *orb.Bound) (*geojson.FeatureCollection, error) {
	projects, display, err := srv.loadProjects(ctx)
	if err != nil {
		return nil, err
	}

	return geo.ProjectFeatures(projects, display, bound), nil
}

func (srv *projectService) loadProjects(ctx context.Context) ([]*entity.Project, map[uuid.UUID]*entity.DisplayInvestment, error) {
	projects, err := srv.projectRepo.List(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list projects")
	}

	display, err := srv.projectRepo.FindDisplayInvestments(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load display investments")
	}

	return projects, display, nil
}

// ProjectQRCode renders a QR code linking to the public project page.
func (srv *projectService) ProjectQRCode(ctx context.Context, projectID uuid.UUID) ([]byte, error) {
	if _, err := srv.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, errors.Wrap(translateNotFound(err), "failed to find project")
	}

	png, err := srv.qrService.GenerateProjectQR(projectID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate project qr code")
	}

	return png, nil
}

// PostUpdate stores the attached media and appends a progress post to the project.
func (srv *projectService) PostUpdate(ctx context.Context, projectID uuid.UUID, input *usecase.ProjectUpdateInput) (*entity.ProjectUpdate, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("update title is required")
	}

	project, err := srv.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, errors.Wrap(translateNotFound(err), "failed to find project")
	}

	mediaURLs := append([]string{}, input.MediaURLs...)
	for _, file := range input.Files {
		key := fmt.Sprintf("projects/%s/%d-%s", projectID, time.Now().UnixNano(), util.SanitizeFileName(file.Name))
		url, err := srv.storage.Upload(ctx, key, file.ContentType, file.Content)
		if err != nil {
			return nil, errors.Wrap(err, "failed to store update media")
		}
		mediaURLs = append(mediaURLs, url)
	}

	update := &entity.ProjectUpdate{
		ProjectID: projectID,
		Title:     input.Title,
		Content:   input.Content,
		MediaURLs: mediaURLs,
	}
	if err := srv.projectRepo.CreateUpdate(ctx, update); err != nil {
		return nil, errors.Wrap(translateNotFound(err), "failed to create project update")
	}

	publishEvent(ctx, srv.publisher, srv.log(ctx), &service.NotificationEvent{
		Kind:        service.EventKindProjectUpdate,
		ProjectID:   projectID.String(),
		ProjectName: project.Name,
		Title:       update.Title,
		Message:     update.Content,
		Data:        map[string]string{"update_id": update.ID.String()},
	})

	return update, nil
}

// SetDisplayInvestment overrides the publicly shown total of a project.
func (srv *projectService) SetDisplayInvestment(ctx context.Context, projectID uuid.UUID, amount decimal.Decimal, adminID uuid.UUID) (*entity.DisplayInvestment, error) {
	if amount.IsNegative() {
		return nil, domainerrors.ErrInvalidAmount
	}

	display := &entity.DisplayInvestment{
		ProjectID: projectID,
		Amount:    amount.Round(2),
		UpdatedBy: adminID,
	}

	err := srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		projectRepo := repos.ProjectRepo()
		if _, err := projectRepo.FindByID(ctx, projectID); err != nil {
			return translateNotFound(err)
		}

		return projectRepo.SetDisplayInvestment(ctx, display)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to set display investment")
	}

	srv.log(ctx).Info("Display investment set",
		slog.String("project_id", projectID.String()),
		slog.String("amount", display.Amount.StringFixed(2)),
	)

	return display, nil
}

// ClearDisplayInvestment removes the override so the real total is shown again.
func (srv *projectService) ClearDisplayInvestment(ctx context.Context, projectID uuid.UUID) error {
	if _, err := srv.projectRepo.FindByID(ctx, projectID); err != nil {
		return errors.Wrap(translateNotFound(err), "failed to find project")
	}

	if err := srv.projectRepo.DeleteDisplayInvestment(ctx, projectID); err != nil {
		return errors.Wrap(err, "failed to clear display investment")
	}

	return nil
}

// NotifyFollowers publishes an admin message. Publishing is best effort.
func (srv *projectService) NotifyFollowers(ctx context.Context, projectID uuid.UUID, message string) error {
	message = strings.TrimSpace(message)
	if message == "" || len(message) > maxNotificationLength {
		return domainerrors.ErrValidationFailed.WrapMessage(fmt.Sprintf("message must be 1 to %d characters", maxNotificationLength))
	}

	project, err := srv.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return errors.Wrap(translateNotFound(err), "failed to find project")
	}

	publishEvent(ctx, srv.publisher, srv.log(ctx), &service.NotificationEvent{
		Kind:        service.EventKindAdminMessage,
		ProjectID:   projectID.String(),
		ProjectName: project.Name,
		Title:       project.Name,
		Message:     message,
	})

	return nil
}

func applyProjectInput(project *entity.Project, input *usecase.ProjectInput) {
	project.SDGID = input.SDGID
	project.Name = strings.TrimSpace(input.Name)
	project.Description = input.Description
	project.Location = input.Location
	project.Latitude = input.Latitude
	project.Longitude = input.Longitude
	project.ImageURL = input.ImageURL
	project.TargetAmount = input.TargetAmount.Round(2)
}

func newProjectView(project *entity.Project, display map[uuid.UUID]*entity.DisplayInvestment) *usecase.ProjectView {
	view := &usecase.ProjectView{Project: project, PublicAmount: project.TotalInvested}
	if d, ok := display[project.ID]; ok {
		amount := d.Amount
		view.DisplayAmount = &amount
		view.PublicAmount = amount
	}

	return view
}
