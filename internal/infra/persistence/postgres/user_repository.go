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
	"gorm.io/gorm/clause"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db: db,
	}
}

// FindByID retrieves a single user by their unique ID, preloading their profile.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Preload("Company").
		Preload("Individual").
		Where("id = ?", id).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address, preloading their profile.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Preload("Company").
		Preload("Individual").
		Where("email = ?", email).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user and its profile. Callers run it inside a transaction
// so the user row never exists without its profile.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(userM).Error; err != nil {
		return mapUserWriteError(err, "failed to create user")
	}
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	if user.Company != nil {
		companyM := fromCompanyDomain(user.Company)
		companyM.UserID = userM.ID
		if err := repo.db.WithContext(ctx).Create(companyM).Error; err != nil {
			return mapUserWriteError(err, "failed to create company profile")
		}
		user.Company = toCompanyDomain(companyM)
	}

	if user.Individual != nil {
		individualM := fromIndividualDomain(user.Individual)
		individualM.UserID = userM.ID
		if err := repo.db.WithContext(ctx).Create(individualM).Error; err != nil {
			return mapUserWriteError(err, "failed to create individual profile")
		}
		user.Individual = toIndividualDomain(individualM)
	}

	return nil
}

// FindCompanies lists every company profile ordered by name.
func (repo *userRepository) FindCompanies(ctx context.Context) ([]*entity.Company, error) {
	var companyModels []*model.CompanyModel

	if err := repo.db.WithContext(ctx).
		Order("name ASC").
		Find(&companyModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list companies")
	}

	companies := make([]*entity.Company, 0, len(companyModels))
	for _, companyM := range companyModels {
		companies = append(companies, toCompanyDomain(companyM))
	}

	return companies, nil
}

func mapUserWriteError(err error, details string) error {
	// Email and tax ID are the unique columns on this path.
	if isUniqueConstraintViolation(err) {
		return domainerrors.ErrUserAlreadyExists
	}
	if isNotNullConstraintViolation(err) {
		return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}

// --- Mapper Functions ---

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Email:        data.Email,
		Name:         data.Name,
		Role:         entity.Role(data.Role),
		PasswordHash: data.PasswordHash,
		Company:      toCompanyDomain(data.Company),
		Individual:   toIndividualDomain(data.Individual),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:           data.ID,
		Email:        data.Email,
		Name:         data.Name,
		Role:         data.Role.String(),
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func toCompanyDomain(data *model.CompanyModel) *entity.Company {
	if data == nil {
		return nil
	}

	return &entity.Company{
		ID:        data.ID,
		UserID:    data.UserID,
		Name:      data.Name,
		TaxID:     data.TaxID,
		Sector:    data.Sector,
		Phone:     data.Phone,
		Address:   data.Address,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromCompanyDomain(data *entity.Company) *model.CompanyModel {
	if data == nil {
		return nil
	}

	return &model.CompanyModel{
		ID:        data.ID,
		UserID:    data.UserID,
		Name:      data.Name,
		TaxID:     data.TaxID,
		Sector:    data.Sector,
		Phone:     data.Phone,
		Address:   data.Address,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func toIndividualDomain(data *model.IndividualModel) *entity.Individual {
	if data == nil {
		return nil
	}

	return &entity.Individual{
		ID:        data.ID,
		UserID:    data.UserID,
		FullName:  data.FullName,
		Phone:     data.Phone,
		Province:  data.Province,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromIndividualDomain(data *entity.Individual) *model.IndividualModel {
	if data == nil {
		return nil
	}

	return &model.IndividualModel{
		ID:        data.ID,
		UserID:    data.UserID,
		FullName:  data.FullName,
		Phone:     data.Phone,
		Province:  data.Province,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
