package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"carbonledger/config"
	deliverycontext "carbonledger/internal/delivery/context"
	"carbonledger/internal/domain/entity"
	domainerrors "carbonledger/internal/domain/errors"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/domain/service"
	"carbonledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	admin            *config.AdminConfig
	logger           *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	var admin *config.AdminConfig
	if params.Config != nil && params.Config.Auth != nil {
		admin = params.Config.Auth.Admin
	}

	return &accountService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		admin:            admin,
		logger:           params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterCompany creates a company account together with its profile.
func (srv *accountService) RegisterCompany(ctx context.Context, input *usecase.RegisterCompanyInput) (*entity.User, error) {
	user := &entity.User{
		Email: normalizeEmail(input.Email),
		Name:  input.Name,
		Role:  entity.RoleCompany,
		Company: &entity.Company{
			Name:    input.Name,
			TaxID:   input.TaxID,
			Sector:  input.Sector,
			Phone:   input.Phone,
			Address: input.Address,
		},
	}

	return srv.register(ctx, user, input.Password)
}

// RegisterIndividual creates a personal account together with its profile.
func (srv *accountService) RegisterIndividual(ctx context.Context, input *usecase.RegisterIndividualInput) (*entity.User, error) {
	user := &entity.User{
		Email: normalizeEmail(input.Email),
		Name:  input.FullName,
		Role:  entity.RoleIndividual,
		Individual: &entity.Individual{
			FullName: input.FullName,
			Phone:    input.Phone,
			Province: input.Province,
		},
	}

	return srv.register(ctx, user, input.Password)
}

func (srv *accountService) register(ctx context.Context, user *entity.User, password string) (*entity.User, error) {
	srv.log(ctx).Info("Starting registration", slog.Any("role", user.Role), slog.String("email", user.Email))

	hashedPassword, err := srv.hasher.Hash(password)
	if err != nil {
		srv.log(ctx).Warn("Password rejected during registration", slog.Any("role", user.Role), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}
	user.PasswordHash = hashedPassword

	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		return repos.UserRepo().Create(ctx, user)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("role", user.Role), slog.Any("userID", user.ID))

	return user, nil
}

// Login checks the credentials and opens a new session.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting user login", slog.String("email", email))

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Warn("Login failed", slog.String("email", email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, entity.Roles{user.Role}.ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		tokenRepo := repos.RefreshTokenRepo()

		if removed, err := tokenRepo.DeleteExpiredTokens(ctx, user.ID); err != nil {
			return errors.Wrap(err, "failed to delete expired refresh tokens")
		} else if removed > 0 {
			srv.log(ctx).Debug("Removed expired sessions", slog.Any("userID", user.ID), slog.Int64("count", removed))
		}

		return tokenRepo.CreateRefreshToken(ctx, &entity.RefreshToken{
			UserID:    user.ID,
			TokenHash: srv.tokenService.HashToken(refreshToken),
			ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create refresh token during login")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// RefreshToken issues a new access token. The refresh token itself is not rotated.
func (srv *accountService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, err.Error())
	}

	if _, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, srv.tokenService.HashToken(input.RefreshToken)); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) || errors.Is(err, repository.ErrRefreshTokenExpired) {
			return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, err.Error())
		}

		return nil, errors.Wrap(err, "failed to find refresh token")
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Wrap(translateNotFound(err), "failed to find user")
	}

	accessToken, _, err := srv.tokenService.GenerateTokens(user.ID, entity.Roles{user.Role}.ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	return &usecase.RefreshTokenOutput{AccessToken: accessToken}, nil
}

// Logout ends the session of a refresh token. Unknown tokens are ignored.
func (srv *accountService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	if _, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken); err != nil {
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	if err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, srv.tokenService.HashToken(input.RefreshToken)); err != nil {
		return errors.Wrap(err, "failed to delete refresh token")
	}

	return nil
}

// GetUser returns an account with its profile.
func (srv *accountService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(translateNotFound(err), "failed to find user")
	}

	return user, nil
}

// EnsureAdmin creates the configured admin account when it does not exist yet.
func (srv *accountService) EnsureAdmin(ctx context.Context) error {
	if srv.admin == nil || srv.admin.Email == "" {
		srv.log(ctx).Warn("No admin account configured")

		return nil
	}

	email := normalizeEmail(srv.admin.Email)
	_, err := srv.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to look up admin account")
	}

	name := srv.admin.Name
	if name == "" {
		name = "Administrator"
	}

	if _, err := srv.register(ctx, &entity.User{Email: email, Name: name, Role: entity.RoleAdmin}, srv.admin.Password); err != nil {
		return errors.Wrap(err, "failed to create admin account")
	}

	srv.log(ctx).Info("Admin account created", slog.String("email", email))

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
