package postgres

import (
	"context"
	"time"

	"carbonledger/internal/domain/entity"
	domainerrors "carbonledger/internal/domain/errors"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type leaderboardRepository struct {
	db *gorm.DB
}

// NewLeaderboardRepository is the constructor for leaderboardRepository.
func NewLeaderboardRepository(db *gorm.DB) repository.LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

// ReplaceSnapshot deletes the rows of the same period window and inserts the new ranking.
// Callers run it inside a transaction so readers never see a half-written snapshot.
func (repo *leaderboardRepository) ReplaceSnapshot(ctx context.Context, period entity.LeaderboardPeriod, periodStart time.Time, entries []*entity.LeaderboardEntry) error {
	db := repo.db.WithContext(ctx)

	if err := db.Where("period = ? AND period_start = ?", period.String(), periodStart.UTC()).
		Delete(&model.LeaderboardEntryModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear leaderboard snapshot")
	}

	if len(entries) == 0 {
		return nil
	}

	entryModels := make([]*model.LeaderboardEntryModel, 0, len(entries))
	for _, entry := range entries {
		entryModels = append(entryModels, &model.LeaderboardEntryModel{
			ID:                  entry.ID,
			CompanyID:           entry.CompanyID,
			CompanyName:         entry.CompanyName,
			Period:              period.String(),
			PeriodStart:         periodStart.UTC(),
			EmissionKgCO2:       entry.EmissionKgCO2,
			CompensationValueKz: entry.CompensationValueKz,
			CompensatedKz:       entry.CompensatedKz,
			ReductionPercentage: entry.ReductionPercentage,
			Rank:                entry.Rank,
			CalculatedAt:        entry.CalculatedAt.UTC(),
		})
	}

	if err := db.Create(&entryModels).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to write leaderboard snapshot")
	}

	for i, entryM := range entryModels {
		entries[i].ID = entryM.ID
	}

	return nil
}

// Latest returns the most recent snapshot of a period ordered by rank.
func (repo *leaderboardRepository) Latest(ctx context.Context, period entity.LeaderboardPeriod) ([]*entity.LeaderboardEntry, error) {
	var entryModels []*model.LeaderboardEntryModel

	if err := repo.db.WithContext(ctx).
		Where("period = ?", period.String()).
		Where("period_start = (SELECT MAX(period_start) FROM carbon_leaderboard WHERE period = ?)", period.String()).
		Order("rank ASC").
		Find(&entryModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to read leaderboard")
	}

	entries := make([]*entity.LeaderboardEntry, 0, len(entryModels))
	for _, entryM := range entryModels {
		entries = append(entries, &entity.LeaderboardEntry{
			ID:                  entryM.ID,
			CompanyID:           entryM.CompanyID,
			CompanyName:         entryM.CompanyName,
			Period:              entity.LeaderboardPeriod(entryM.Period),
			PeriodStart:         entryM.PeriodStart,
			EmissionKgCO2:       entryM.EmissionKgCO2,
			CompensationValueKz: entryM.CompensationValueKz,
			CompensatedKz:       entryM.CompensatedKz,
			ReductionPercentage: entryM.ReductionPercentage,
			Rank:                entryM.Rank,
			CalculatedAt:        entryM.CalculatedAt,
		})
	}

	return entries, nil
}
