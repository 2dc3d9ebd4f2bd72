package auth

import (
	"fmt"
	"strings"
	"unicode"

	"carbonledger/config"
	domainerrors "carbonledger/internal/domain/errors"
	"carbonledger/internal/domain/service"

	"golang.org/x/crypto/bcrypt"
)

var defaultForbiddenWords = []string{"password", "admin", "qwerty", "letmein", "123456"}

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost     int
	strength config.PasswordStrengthConfig
}

// DefaultPasswordStrength is used when config.yaml has no passwordStrength section.
func DefaultPasswordStrength() config.PasswordStrengthConfig {
	return config.PasswordStrengthConfig{
		MinLength:        8,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
		RequireSpecial:   true,
	}
}

// NewBcryptHasher is the constructor for bcryptHasher with the default cost.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher() service.PasswordHasher {
	return NewBcryptHasherWithCost(bcrypt.DefaultCost)
}

// NewBcryptHasherWithCost creates a hasher with a specific bcrypt cost.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	return &bcryptHasher{cost: cost, strength: DefaultPasswordStrength()}
}

// NewBcryptHasherFromConfig reads the cost and strength rules from the application config.
func NewBcryptHasherFromConfig(cfg *config.Config) service.PasswordHasher {
	hasher := &bcryptHasher{cost: bcrypt.DefaultCost, strength: DefaultPasswordStrength()}
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		hasher.cost = cfg.Auth.BcryptCost
	}
	if cfg.PasswordStrength != nil {
		hasher.strength = *cfg.PasswordStrength
	}

	return hasher
}

// Hash validates the password strength and generates a salted hash using bcrypt.
func (h *bcryptHasher) Hash(password string) (string, error) {
	if err := h.ValidatePasswordStrength(password); err != nil {
		return "", err
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// ValidatePasswordStrength applies the configured rules. Character classes are checked before forbidden words.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	minLength := h.strength.MinLength
	if minLength <= 0 {
		minLength = 8
	}

	switch {
	case len([]rune(password)) < minLength:
		return domainerrors.ErrPasswordStrength.WrapMessage(fmt.Sprintf("password must be at least %d characters long", minLength))
	case h.strength.RequireLowercase && !h.hasLowercase(password):
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one lowercase letter")
	case h.strength.RequireUppercase && !h.hasUppercase(password):
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one uppercase letter")
	case h.strength.RequireNumbers && !h.hasNumbers(password):
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one number")
	case h.strength.RequireSpecial && !h.hasSpecialChars(password):
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one special character")
	case h.containsForbiddenWords(password, defaultForbiddenWords):
		return domainerrors.ErrPasswordForbiddenWords.WrapMessage("password contains forbidden words")
	case h.strength.MaxLength > 0 && len([]rune(password)) > h.strength.MaxLength:
		return domainerrors.ErrPasswordStrength.WrapMessage(fmt.Sprintf("password must be at most %d characters long", h.strength.MaxLength))
	}

	return nil
}

func (h *bcryptHasher) hasUppercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func (h *bcryptHasher) hasLowercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

func (h *bcryptHasher) hasNumbers(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func (h *bcryptHasher) hasSpecialChars(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0
}

func (h *bcryptHasher) containsForbiddenWords(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, word := range words {
		if strings.Contains(lower, word) {
			return true
		}
	}

	return false
}
