// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"carbonledger/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterCompanyInput defines the data required to register a company account.
type RegisterCompanyInput struct {
	Email    string
	Password string
	Name     string
	TaxID    string
	Sector   string
	Phone    string
	Address  string
}

// RegisterIndividualInput defines the data required to register an individual account.
type RegisterIndividualInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Province string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshTokenInput carries the refresh token presented by the client.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token of the session to end.
type LogoutInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput returns a fresh access token.
type RefreshTokenOutput struct {
	AccessToken string
}

// AccountUsecase defines registration, sessions and account lookup.
type AccountUsecase interface {
	RegisterCompany(ctx context.Context, input *RegisterCompanyInput) (*entity.User, error)
	RegisterIndividual(ctx context.Context, input *RegisterIndividualInput) (*entity.User, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error
	GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// EnsureAdmin creates the configured admin account when it does not exist yet.
	EnsureAdmin(ctx context.Context) error
}
