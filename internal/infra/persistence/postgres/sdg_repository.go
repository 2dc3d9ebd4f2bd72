package postgres

import (
	"context"

	"carbonledger/internal/domain/entity"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type sdgRepository struct {
	db *gorm.DB
}

// NewSDGRepository is the constructor for sdgRepository.
func NewSDGRepository(db *gorm.DB) repository.SDGRepository {
	return &sdgRepository{db: db}
}

func (repo *sdgRepository) List(ctx context.Context) ([]*entity.SDG, error) {
	var sdgModels []*model.SDGModel

	if err := repo.db.WithContext(ctx).Order("id ASC").Find(&sdgModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list sdgs")
	}

	sdgs := make([]*entity.SDG, 0, len(sdgModels))
	for _, sdgM := range sdgModels {
		sdgs = append(sdgs, &entity.SDG{ID: sdgM.ID, Name: sdgM.Name, Color: sdgM.Color})
	}

	return sdgs, nil
}

func (repo *sdgRepository) FindByID(ctx context.Context, id int) (*entity.SDG, error) {
	var sdgM model.SDGModel

	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&sdgM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSDGNotFound
		}

		return nil, errors.Wrap(err, "failed to find sdg")
	}

	return &entity.SDG{ID: sdgM.ID, Name: sdgM.Name, Color: sdgM.Color}, nil
}
