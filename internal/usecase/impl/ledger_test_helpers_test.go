package impl

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"carbonledger/config"
	"carbonledger/internal/domain/entity"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/domain/service"
	"carbonledger/internal/infra/persistence/postgres"
	"carbonledger/internal/infra/routing"
	"carbonledger/internal/infra/storage"
	"carbonledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost: 4,
			Admin:      &config.AdminConfig{Email: " Root@Ledger.ao ", Password: "Mangrove#2026", Name: "Root"},
		},
		Emission: config.DefaultEmissionConfig(),
	}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	return cfg
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*service.NotificationEvent
	err    error
}

func (p *recordingPublisher) PublishNotificationEvent(_ context.Context, event *service.NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)

	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	kinds := make([]string, 0, len(p.events))
	for _, e := range p.events {
		kinds = append(kinds, e.Kind)
	}

	return kinds
}

// countingCache is an in-process StatsCache that counts invalidations.
type countingCache struct {
	mu            sync.Mutex
	dashboard     *entity.DashboardStats
	invalidations int
}

func (c *countingCache) GetDashboard(context.Context) (*entity.DashboardStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.dashboard, c.dashboard != nil
}

func (c *countingCache) SetDashboard(_ context.Context, stats *entity.DashboardStats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dashboard = stats
}

func (c *countingCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dashboard = nil
	c.invalidations++
}

func (c *countingCache) invalidated() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.invalidations
}

// testLedger wires the services over one in-memory database.
type testLedger struct {
	db        *gorm.DB
	cfg       *config.Config
	storage   service.FileStorage
	publisher *recordingPublisher
	cache     *countingCache

	proofs       usecase.ProofUsecase
	investments  usecase.InvestmentUsecase
	projects     usecase.ProjectUsecase
	stats        usecase.StatsUsecase
	consumptions usecase.ConsumptionUsecase
}

func newTestLedger(t *testing.T) *testLedger {
	t.Helper()

	ctx := context.Background()
	db, err := postgres.OpenSQLite(postgres.SQLiteMemoryDSN("ledger_"+uuid.NewString()), logger.Discard)
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(ctx, db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	blobs, err := storage.Open(ctx, "mem://", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = blobs.Close() })

	cfg := newTestConfig()
	policy, err := routing.NewPolicy(cfg)
	require.NoError(t, err)

	l := &testLedger{
		db:        db,
		cfg:       cfg,
		storage:   blobs,
		publisher: &recordingPublisher{},
		cache:     &countingCache{},
	}
	discard := newDiscardLogger()
	txManager := postgres.NewTransactionManager(db)

	l.proofs = NewProofService(ProofServiceParams{
		TxManager:       txManager,
		ProofRepo:       postgres.NewPaymentProofRepository(db),
		ConsumptionRepo: postgres.NewConsumptionRepository(db),
		SDGRepo:         postgres.NewSDGRepository(db),
		Storage:         l.storage,
		StatsCache:      l.cache,
		Publisher:       l.publisher,
		Policy:          policy,
		Logger:          discard,
	})
	l.investments = NewInvestmentService(InvestmentServiceParams{
		TxManager:      txManager,
		ProofRepo:      postgres.NewPaymentProofRepository(db),
		InvestmentRepo: postgres.NewInvestmentRepository(db),
		Exporter:       &csvExporter{},
		StatsCache:     l.cache,
		Publisher:      l.publisher,
		Policy:         policy,
		Logger:         discard,
	})
	l.projects = NewProjectService(ProjectServiceParams{
		TxManager:   txManager,
		ProjectRepo: postgres.NewProjectRepository(db),
		SDGRepo:     postgres.NewSDGRepository(db),
		Storage:     l.storage,
		QRService:   &stubQRCode{},
		Publisher:   l.publisher,
		StatsCache:  l.cache,
		Logger:      discard,
	})
	l.stats = NewStatsService(StatsServiceParams{
		StatsRepo:  postgres.NewStatsRepository(db),
		StatsCache: l.cache,
		Logger:     discard,
	})
	l.consumptions = NewConsumptionService(ConsumptionServiceParams{
		ConsumptionRepo: postgres.NewConsumptionRepository(db),
		StatsCache:      l.cache,
		Config:          cfg,
		Logger:          discard,
	})

	return l
}

func (l *testLedger) createCompany(t *testing.T, name string) entity.Owner {
	t.Helper()

	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.ao"
	user := &entity.User{
		Email:        email,
		Name:         name,
		Role:         entity.RoleCompany,
		PasswordHash: "hash",
		Company:      &entity.Company{Name: name, TaxID: "NIF-" + email, Sector: "energy"},
	}
	require.NoError(t, postgres.NewUserRepository(l.db).Create(context.Background(), user))

	return *user.Owner()
}

func (l *testLedger) createProject(t *testing.T, sdgID int, name string) *entity.Project {
	t.Helper()

	project, err := l.projects.CreateProject(context.Background(), &usecase.ProjectInput{
		SDGID:        sdgID,
		Name:         name,
		TargetAmount: decimal.NewFromInt(1_000_000),
	})
	require.NoError(t, err)

	return project
}

// createProof uploads a pending proof through the service.
func (l *testLedger) createProof(t *testing.T, owner entity.Owner, amount int64, sdgID *int) *entity.PaymentProof {
	t.Helper()

	proof, err := l.proofs.UploadProof(context.Background(), &usecase.UploadProofInput{
		Owner:  owner,
		Amount: decimal.NewFromInt(amount),
		SDGID:  sdgID,
		File: &usecase.FileUpload{
			Name:        "receipt.pdf",
			ContentType: "application/pdf",
			Content:     strings.NewReader("receipt " + uuid.NewString()),
		},
	})
	require.NoError(t, err)

	return proof
}

func (l *testLedger) investmentsOfProof(t *testing.T, proofID uuid.UUID) []*entity.InvestmentDetail {
	t.Helper()

	all, err := l.investments.ListInvestments(context.Background(), repository.InvestmentFilter{})
	require.NoError(t, err)

	var matched []*entity.InvestmentDetail
	for _, inv := range all {
		if inv.PaymentProofID == proofID {
			matched = append(matched, inv)
		}
	}

	return matched
}

func (l *testLedger) countInvestments(t *testing.T) int {
	t.Helper()

	all, err := l.investments.ListInvestments(context.Background(), repository.InvestmentFilter{})
	require.NoError(t, err)

	return len(all)
}

func (l *testLedger) projectTotal(t *testing.T, projectID uuid.UUID) decimal.Decimal {
	t.Helper()

	project, err := postgres.NewProjectRepository(l.db).FindByID(context.Background(), projectID)
	require.NoError(t, err)

	return project.TotalInvested
}

// csvExporter is a minimal InvestmentExporter for service tests.
type csvExporter struct{}

func (*csvExporter) Export(w io.Writer, investments []*entity.InvestmentDetail) error {
	for _, inv := range investments {
		if _, err := io.WriteString(w, inv.PaymentProofID.String()+","+inv.Amount.StringFixed(2)+"\n"); err != nil {
			return err
		}
	}

	return nil
}

func (*csvExporter) ContentType() string {
	return "text/csv"
}

func (*csvExporter) FileExtension() string {
	return "csv"
}

type stubQRCode struct{}

func (*stubQRCode) GenerateProjectQR(projectID uuid.UUID) ([]byte, error) {
	return []byte("qr:" + projectID.String()), nil
}

func (*stubQRCode) ParseProjectQR(qrData string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimPrefix(qrData, "qr:"))
}

func intPtr(v int) *int {
	return &v
}
