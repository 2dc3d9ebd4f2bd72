package impl

import (
	"context"
	"testing"

	"carbonledger/internal/domain/entity"
	domainerrors "carbonledger/internal/domain/errors"
	"carbonledger/internal/infra/auth"
	"carbonledger/internal/infra/persistence/postgres"
	"carbonledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccountService(t *testing.T, l *testLedger) usecase.AccountUsecase {
	t.Helper()

	tokens, err := auth.NewJWTService(l.cfg)
	require.NoError(t, err)

	return NewAccountService(AccountServiceParams{
		TxManager:        postgres.NewTransactionManager(l.db),
		UserRepo:         postgres.NewUserRepository(l.db),
		RefreshTokenRepo: postgres.NewRefreshTokenRepository(l.db),
		Hasher:           auth.NewBcryptHasherFromConfig(l.cfg),
		TokenService:     tokens,
		Config:           l.cfg,
		Logger:           newDiscardLogger(),
	})
}

func TestAccountService_RegisterAndLogin(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	svc := newTestAccountService(t, l)

	user, err := svc.RegisterCompany(ctx, &usecase.RegisterCompanyInput{
		Email:    "  Green@Example.AO ",
		Password: "Baobab#2026",
		Name:     "Green Energy Lda",
		TaxID:    "5417000001",
		Sector:   "energy",
	})
	require.NoError(t, err)
	assert.Equal(t, "green@example.ao", user.Email)
	assert.Equal(t, entity.RoleCompany, user.Role)
	require.NotNil(t, user.Owner())
	assert.Equal(t, entity.OwnerTypeCompany, user.Owner().Type)

	out, err := svc.Login(ctx, &usecase.LoginInput{Email: "GREEN@example.ao", Password: "Baobab#2026"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, user.ID, out.User.ID)

	refreshed, err := svc.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: out.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, svc.Logout(ctx, &usecase.LogoutInput{RefreshToken: out.RefreshToken}))
	_, err = svc.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: out.RefreshToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid), "got %v", err)
}

func TestAccountService_RegisterIndividual(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	svc := newTestAccountService(t, l)

	user, err := svc.RegisterIndividual(ctx, &usecase.RegisterIndividualInput{
		Email:    "ana@example.ao",
		Password: "Imbondeiro#7",
		FullName: "Ana Domingos",
		Province: "Huambo",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleIndividual, user.Role)

	found, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Individual)
	assert.Equal(t, "Huambo", found.Individual.Province)

	_, err = svc.RegisterIndividual(ctx, &usecase.RegisterIndividualInput{
		Email:    "ANA@example.ao",
		Password: "Imbondeiro#7",
		FullName: "Ana Again",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists), "got %v", err)

	_, err = svc.GetUser(ctx, uuid.New())
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound), "got %v", err)
}

func TestAccountService_LoginFailures(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	svc := newTestAccountService(t, l)

	_, err := svc.RegisterIndividual(ctx, &usecase.RegisterIndividualInput{
		Email:    "joao@example.ao",
		Password: "Palanca#Negra9",
		FullName: "Joao Neto",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &usecase.LoginInput{Email: "joao@example.ao", Password: "wrong"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = svc.Login(ctx, &usecase.LoginInput{Email: "nobody@example.ao", Password: "Palanca#Negra9"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = svc.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "not-a-token"})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestAccountService_WeakPasswordRejected(t *testing.T) {
	l := newTestLedger(t)
	svc := newTestAccountService(t, l)

	_, err := svc.RegisterIndividual(context.Background(), &usecase.RegisterIndividualInput{
		Email:    "weak@example.ao",
		Password: "short",
		FullName: "Weak",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength), "got %v", err)
}

func TestAccountService_EnsureAdminIsIdempotent(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	svc := newTestAccountService(t, l)

	require.NoError(t, svc.EnsureAdmin(ctx))
	require.NoError(t, svc.EnsureAdmin(ctx))

	out, err := svc.Login(ctx, &usecase.LoginInput{Email: "root@ledger.ao", Password: "Mangrove#2026"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)
	assert.Nil(t, out.User.Owner())
	assert.Equal(t, "Root", out.User.Name)
}
