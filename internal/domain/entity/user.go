// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the login identity. A company or individual account carries exactly one profile.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Role         Role        `json:"role"`
	PasswordHash string      `json:"-"`
	Company      *Company    `json:"company,omitempty"`
	Individual   *Individual `json:"individual,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Owner returns the profile that owns this user's ledger records, or nil for admins.
func (u *User) Owner() *Owner {
	switch {
	case u.Company != nil:
		return &Owner{Type: OwnerTypeCompany, ID: u.Company.ID, Name: u.Company.Name}
	case u.Individual != nil:
		return &Owner{Type: OwnerTypeIndividual, ID: u.Individual.ID, Name: u.Individual.FullName}
	default:
		return nil
	}
}

// Company is the profile of a company account.
type Company struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Sector    string    `json:"sector"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Individual is the profile of a private person.
type Individual struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Province  string    `json:"province"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
