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

// projectRepository implements the repository.ProjectRepository interface.
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository is the constructor for projectRepository.
func NewProjectRepository(db *gorm.DB) repository.ProjectRepository {
	return &projectRepository{
		db: db,
	}
}

// Create persists a new project. Its running total always starts at zero.
func (repo *projectRepository) Create(ctx context.Context, project *entity.Project) error {
	projectM := fromProjectDomain(project)
	projectM.TotalInvested = decimal.Zero

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(projectM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrSDGNotFound
		}
		if isNotNullConstraintViolation(err) || isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required project information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create project")
	}

	project.ID = projectM.ID
	project.TotalInvested = projectM.TotalInvested
	project.CreatedAt = projectM.CreatedAt
	project.UpdatedAt = projectM.UpdatedAt

	return nil
}

// Update overwrites the editable fields of a project. The running total is not editable.
func (repo *projectRepository) Update(ctx context.Context, project *entity.Project) error {
	now := time.Now().UTC()

	result := repo.db.WithContext(ctx).
		Model(&model.ProjectModel{}).
		Where("id = ?", project.ID).
		Updates(map[string]any{
			"sdg_id":        project.SDGID,
			"name":          project.Name,
			"description":   project.Description,
			"location":      project.Location,
			"latitude":      project.Latitude,
			"longitude":     project.Longitude,
			"image_url":     project.ImageURL,
			"target_amount": project.TargetAmount,
			"updated_at":    now,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update project")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProjectNotFound
	}

	project.UpdatedAt = now

	return nil
}

// Delete removes a project together with its updates, display override and investments.
func (repo *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.ProjectModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to check project")
	}
	if count == 0 {
		return repository.ErrProjectNotFound
	}

	children := []any{
		&model.InvestmentModel{},
		&model.ProjectUpdateModel{},
		&model.DisplayInvestmentModel{},
	}
	for _, child := range children {
		if err := db.Where("project_id = ?", id).Delete(child).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to delete project children")
		}
	}

	if err := db.Where("id = ?", id).Delete(&model.ProjectModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete project")
	}

	return nil
}

// FindByID retrieves a project with its updates, newest first.
func (repo *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	var projectM model.ProjectModel

	if err := repo.db.WithContext(ctx).
		Preload("Updates", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).
		First(&projectM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProjectNotFound
		}

		return nil, errors.Wrap(err, "failed to find project by ID")
	}

	return toProjectDomain(&projectM), nil
}

// List returns every project, newest first.
func (repo *projectRepository) List(ctx context.Context) ([]*entity.Project, error) {
	var projectModels []*model.ProjectModel

	if err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&projectModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list projects")
	}

	return toProjectDomains(projectModels), nil
}

// FindBySDG lists the projects of an SDG, oldest first with ID as the final tie-break.
func (repo *projectRepository) FindBySDG(ctx context.Context, sdgID int) ([]*entity.Project, error) {
	var projectModels []*model.ProjectModel

	if err := repo.db.WithContext(ctx).
		Where("sdg_id = ?", sdgID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&projectModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find projects by sdg")
	}

	return toProjectDomains(projectModels), nil
}

// IncrementTotalInvested adds amount to the running total in a single statement.
func (repo *projectRepository) IncrementTotalInvested(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProjectModel{}).
		Where("id = ?", id).
		UpdateColumn("total_invested", gorm.Expr("total_invested + ?", amount))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to increment project total")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProjectNotFound
	}

	return nil
}

const rebuildTotalsSQL = `
UPDATE projects
SET total_invested = COALESCE((SELECT SUM(i.amount) FROM investments i WHERE i.project_id = projects.id), 0)
WHERE total_invested <> COALESCE((SELECT SUM(i.amount) FROM investments i WHERE i.project_id = projects.id), 0)`

// RebuildTotals recomputes every running total from the investments table.
func (repo *projectRepository) RebuildTotals(ctx context.Context) (int64, error) {
	result := repo.db.WithContext(ctx).Exec(rebuildTotalsSQL)
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to rebuild project totals")
	}

	return result.RowsAffected, nil
}

// CreateUpdate appends a progress post to a project.
func (repo *projectRepository) CreateUpdate(ctx context.Context, update *entity.ProjectUpdate) error {
	updateM := &model.ProjectUpdateModel{
		ID:        update.ID,
		ProjectID: update.ProjectID,
		Title:     update.Title,
		Content:   update.Content,
		MediaURLs: update.MediaURLs,
	}

	if err := repo.db.WithContext(ctx).Create(updateM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrProjectNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create project update")
	}

	update.ID = updateM.ID
	update.CreatedAt = updateM.CreatedAt

	return nil
}

// SetDisplayInvestment inserts or replaces the displayed amount of a project.
func (repo *projectRepository) SetDisplayInvestment(ctx context.Context, display *entity.DisplayInvestment) error {
	displayM := &model.DisplayInvestmentModel{
		ProjectID: display.ProjectID,
		Amount:    display.Amount,
		UpdatedBy: display.UpdatedBy,
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_by", "updated_at"}),
		}).
		Create(displayM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to set display investment")
	}

	display.UpdatedAt = displayM.UpdatedAt

	return nil
}

// DeleteDisplayInvestment clears the displayed amount. Clearing a missing override is not an error.
func (repo *projectRepository) DeleteDisplayInvestment(ctx context.Context, projectID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&model.DisplayInvestmentModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete display investment")
	}

	return nil
}

// FindDisplayInvestments returns every override keyed by project.
func (repo *projectRepository) FindDisplayInvestments(ctx context.Context) (map[uuid.UUID]*entity.DisplayInvestment, error) {
	var displayModels []*model.DisplayInvestmentModel

	if err := repo.db.WithContext(ctx).Find(&displayModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list display investments")
	}

	displays := make(map[uuid.UUID]*entity.DisplayInvestment, len(displayModels))
	for _, displayM := range displayModels {
		displays[displayM.ProjectID] = &entity.DisplayInvestment{
			ProjectID: displayM.ProjectID,
			Amount:    displayM.Amount,
			UpdatedBy: displayM.UpdatedBy,
			UpdatedAt: displayM.UpdatedAt,
		}
	}

	return displays, nil
}

// --- Mapper Functions ---

func toProjectDomain(data *model.ProjectModel) *entity.Project {
	if data == nil {
		return nil
	}

	project := &entity.Project{
		ID:            data.ID,
		SDGID:         data.SDGID,
		Name:          data.Name,
		Description:   data.Description,
		Location:      data.Location,
		Latitude:      data.Latitude,
		Longitude:     data.Longitude,
		ImageURL:      data.ImageURL,
		TargetAmount:  data.TargetAmount,
		TotalInvested: data.TotalInvested,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}

	for i := range data.Updates {
		updateM := &data.Updates[i]
		project.Updates = append(project.Updates, &entity.ProjectUpdate{
			ID:        updateM.ID,
			ProjectID: updateM.ProjectID,
			Title:     updateM.Title,
			Content:   updateM.Content,
			MediaURLs: []string(updateM.MediaURLs),
			CreatedAt: updateM.CreatedAt,
		})
	}

	return project
}

func toProjectDomains(projectModels []*model.ProjectModel) []*entity.Project {
	projects := make([]*entity.Project, 0, len(projectModels))
	for _, projectM := range projectModels {
		projects = append(projects, toProjectDomain(projectM))
	}

	return projects
}

func fromProjectDomain(data *entity.Project) *model.ProjectModel {
	if data == nil {
		return nil
	}

	return &model.ProjectModel{
		ID:            data.ID,
		SDGID:         data.SDGID,
		Name:          data.Name,
		Description:   data.Description,
		Location:      data.Location,
		Latitude:      data.Latitude,
		Longitude:     data.Longitude,
		ImageURL:      data.ImageURL,
		TargetAmount:  data.TargetAmount,
		TotalInvested: data.TotalInvested,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}
