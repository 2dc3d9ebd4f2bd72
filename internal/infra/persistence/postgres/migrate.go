package postgres

import (
	"context"

	"carbonledger/internal/domain/entity"
	"carbonledger/internal/errors"
	"carbonledger/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates or updates the schema and seeds the SDG reference list.
// Running it again leaves existing rows untouched.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(model.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	goals := entity.SustainableDevelopmentGoals()
	sdgs := make([]*model.SDGModel, 0, len(goals))
	for _, goal := range goals {
		sdgs = append(sdgs, &model.SDGModel{ID: goal.ID, Name: goal.Name, Color: goal.Color})
	}

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sdgs).Error; err != nil {
		return errors.Wrap(err, "failed to seed sdgs")
	}

	return nil
}
