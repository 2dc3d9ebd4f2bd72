package postgres

import (
	"context"
	"testing"

	"carbonledger/internal/domain/entity"
	"carbonledger/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenSQLite(SQLiteMemoryDSN("repo_"+uuid.NewString()), logger.Discard)
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func createCompanyUser(t *testing.T, db *gorm.DB, email, name, sector string) *entity.User {
	t.Helper()

	user := &entity.User{
		Email:        email,
		Name:         name,
		Role:         entity.RoleCompany,
		PasswordHash: "hash",
		Company:      &entity.Company{Name: name, TaxID: "NIF-" + email, Sector: sector},
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))

	return user
}

func createProject(t *testing.T, db *gorm.DB, sdgID int, name string) *entity.Project {
	t.Helper()

	project := &entity.Project{SDGID: sdgID, Name: name, TargetAmount: decimal.NewFromInt(10000)}
	require.NoError(t, NewProjectRepository(db).Create(context.Background(), project))

	return project
}

func createProof(t *testing.T, db *gorm.DB, owner *entity.Owner, amount int64, sdgID *int) *entity.PaymentProof {
	t.Helper()

	proof := &entity.PaymentProof{
		OwnerType: owner.Type,
		OwnerID:   owner.ID,
		SDGID:     sdgID,
		Amount:    decimal.NewFromInt(amount),
		FileURL:   "https://files.example/proof.pdf",
	}
	require.NoError(t, NewPaymentProofRepository(db).Create(context.Background(), proof))

	return proof
}

func approve(t *testing.T, db *gorm.DB, proof *entity.PaymentProof) {
	t.Helper()

	require.NoError(t, NewPaymentProofRepository(db).UpdateStatus(context.Background(), proof.ID, entity.ProofStatusApproved, proof.CreatedAt))
	proof.Status = entity.ProofStatusApproved
}

func invest(t *testing.T, db *gorm.DB, proof *entity.PaymentProof, project *entity.Project) *entity.Investment {
	t.Helper()

	investment := &entity.Investment{
		OwnerType:      proof.OwnerType,
		OwnerID:        proof.OwnerID,
		ProjectID:      project.ID,
		PaymentProofID: proof.ID,
		Amount:         proof.Amount,
	}
	created, err := NewInvestmentRepository(db).CreateIfAbsent(context.Background(), investment)
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, NewProjectRepository(db).IncrementTotalInvested(context.Background(), project.ID, investment.Amount))

	return investment
}

func intPtr(v int) *int {
	return &v
}

var _ repository.TransactionManager = (*gormTransactionManager)(nil)
