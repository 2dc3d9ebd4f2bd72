package auth

import (
	"testing"

	"carbonledger/config"
	domainerrors "carbonledger/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("Kwanza#Offset24")
	require.NoError(t, err)
	assert.NotEqual(t, "Kwanza#Offset24", hash)

	assert.True(t, hasher.Check("Kwanza#Offset24", hash))
	assert.False(t, hasher.Check("Kwanza#Offset25", hash))
	assert.False(t, hasher.Check("", hash))
	assert.False(t, hasher.Check("Kwanza#Offset24", "not-a-bcrypt-hash"))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestBcryptHasher_HashRejectsWeakPasswords(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	_, err := hasher.Hash("mangrove")
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := NewBcryptHasher()

	testCases := []struct {
		name     string
		password string
		wantErr  error
		contains string
	}{
		{name: "strong", password: "Kwanza#Offset24"},
		{name: "unicode letters", password: "Reflorestação9!"},
		{name: "empty", password: "", wantErr: domainerrors.ErrPasswordStrength, contains: "at least 8 characters"},
		{name: "too short", password: "Ab1!", wantErr: domainerrors.ErrPasswordStrength, contains: "at least 8 characters"},
		{name: "no lowercase", password: "SOLAR#FARM24", wantErr: domainerrors.ErrPasswordStrength, contains: "lowercase"},
		{name: "no uppercase", password: "solar#farm24", wantErr: domainerrors.ErrPasswordStrength, contains: "uppercase"},
		{name: "no number", password: "Solar#Farm", wantErr: domainerrors.ErrPasswordStrength, contains: "number"},
		{name: "no special character", password: "SolarFarm24", wantErr: domainerrors.ErrPasswordStrength, contains: "special character"},
		{name: "symbols only", password: "!@#$%^&*()", wantErr: domainerrors.ErrPasswordStrength},
		{name: "forbidden word", password: "Admin#Ledger1", wantErr: domainerrors.ErrPasswordForbiddenWords},
		{name: "forbidden word any case", password: "QwErTy#Green7", wantErr: domainerrors.ErrPasswordForbiddenWords},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := hasher.ValidatePasswordStrength(tc.password)
			if tc.wantErr == nil {
				assert.NoError(t, err)

				return
			}
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
			if tc.contains != "" {
				assert.Contains(t, err.Error(), tc.contains)
			}
		})
	}
}

func TestBcryptHasher_CharacterClasses(t *testing.T) {
	hasher := &bcryptHasher{}

	assert.True(t, hasher.hasUppercase("Éolica"))
	assert.False(t, hasher.hasLowercase("SOLAR"))
	assert.True(t, hasher.hasNumbers("sdg13"))
	assert.True(t, hasher.hasSpecialChars("co2€"))
	assert.False(t, hasher.hasSpecialChars("co2"))
	assert.True(t, hasher.containsForbiddenWords("MyLetMeIn", defaultForbiddenWords))
	assert.False(t, hasher.containsForbiddenWords("Mangrove", defaultForbiddenWords))
}

func TestBcryptHasher_FromConfig(t *testing.T) {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: 5},
		PasswordStrength: &config.PasswordStrengthConfig{
			MinLength: 12,
			MaxLength: 20,
		},
	}
	hasher := NewBcryptHasherFromConfig(cfg)

	// Relaxed character classes, stricter length.
	assert.NoError(t, hasher.ValidatePasswordStrength("mangrove-coast"))
	err := hasher.ValidatePasswordStrength("short")
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
	assert.Contains(t, err.Error(), "at least 12 characters")
	err = hasher.ValidatePasswordStrength("a-very-long-passphrase-indeed")
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))

	hash, err := hasher.Hash("mangrove-coast")
	assert.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestBcryptHasher_FromConfigIgnoresInvalidCost(t *testing.T) {
	hasher := NewBcryptHasherFromConfig(&config.Config{Auth: &config.AuthConfig{BcryptCost: 99}})

	hash, err := hasher.Hash("StrongPass123!")
	assert.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
