// Package postgres contains the concrete implementation of the persistence layer using GORM.
// PostgreSQL is the production database; the same repositories run on SQLite for local use and tests.
package postgres

import (
	"context"
	"fmt"

	"carbonledger/internal/domain/repository"

	"gorm.io/gorm"
)

// gormTransactionManager implements the domain's TransactionManager interface using GORM.
type gormTransactionManager struct {
	db *gorm.DB
}

// gormRepositoryFactory implements the domain's RepositoryFactory interface.
// It holds a specific GORM transaction object and uses it to create
// repository instances that are bound to that single transaction.
type gormRepositoryFactory struct {
	tx *gorm.DB // In GORM, a transaction object is also a *gorm.DB
}

// UserRepo returns a user repository bound to the transaction.
func (f *gormRepositoryFactory) UserRepo() repository.UserRepository {
	return NewUserRepository(f.tx)
}

// RefreshTokenRepo returns a refresh token repository bound to the transaction.
func (f *gormRepositoryFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return NewRefreshTokenRepository(f.tx)
}

// SDGRepo returns an SDG repository bound to the transaction.
func (f *gormRepositoryFactory) SDGRepo() repository.SDGRepository {
	return NewSDGRepository(f.tx)
}

// ProjectRepo returns a project repository bound to the transaction.
func (f *gormRepositoryFactory) ProjectRepo() repository.ProjectRepository {
	return NewProjectRepository(f.tx)
}

// ConsumptionRepo returns a consumption repository bound to the transaction.
func (f *gormRepositoryFactory) ConsumptionRepo() repository.ConsumptionRepository {
	return NewConsumptionRepository(f.tx)
}

// PaymentProofRepo returns a payment proof repository bound to the transaction.
func (f *gormRepositoryFactory) PaymentProofRepo() repository.PaymentProofRepository {
	return NewPaymentProofRepository(f.tx)
}

// InvestmentRepo returns an investment repository bound to the transaction.
func (f *gormRepositoryFactory) InvestmentRepo() repository.InvestmentRepository {
	return NewInvestmentRepository(f.tx)
}

// LeaderboardRepo returns a leaderboard repository bound to the transaction.
func (f *gormRepositoryFactory) LeaderboardRepo() repository.LeaderboardRepository {
	return NewLeaderboardRepository(f.tx)
}

// NewTransactionManager is the constructor for gormTransactionManager.
// This function will be used as an Fx provider.
func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &gormTransactionManager{db: db}
}

// Execute runs the given function within a single database transaction.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	// Begin a new transaction
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	// Roll back on panic, then re-panic so the recover middleware sees it.
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// Create a repository factory that is bound to this specific transaction.
	factory := &gormRepositoryFactory{tx: tx}

	err := fn(factory)
	if err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			// Return the original, more meaningful business error.
			return fmt.Errorf("transaction rollback failed: %v (original error: %w)", rbErr, err)
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
