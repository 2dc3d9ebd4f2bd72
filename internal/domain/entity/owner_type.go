// Package entity contains the core business objects of the project.
package entity

import "github.com/google/uuid"

// OwnerType represents the kind of profile that owns consumption records, proofs and investments.
type OwnerType string

const (
	// OwnerTypeCompany indicates the record belongs to a company profile.
	OwnerTypeCompany OwnerType = "company"
	// OwnerTypeIndividual indicates the record belongs to an individual profile.
	OwnerTypeIndividual OwnerType = "individual"
)

// String returns the string representation of the OwnerType.
func (o OwnerType) String() string {
	return string(o)
}

// IsValid checks if the OwnerType is a valid value.
func (o OwnerType) IsValid() bool {
	switch o {
	case OwnerTypeCompany, OwnerTypeIndividual:
		return true
	default:
		return false
	}
}

// Owner identifies the profile a record belongs to.
type Owner struct {
	Type OwnerType `json:"type"`
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
