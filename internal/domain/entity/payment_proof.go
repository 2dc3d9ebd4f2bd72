package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProofStatus is the review state of a payment proof.
type ProofStatus string

const (
	ProofStatusPending  ProofStatus = "pending"
	ProofStatusApproved ProofStatus = "approved"
	ProofStatusRejected ProofStatus = "rejected"
)

// String returns the string representation of the ProofStatus.
func (s ProofStatus) String() string {
	return string(s)
}

// IsReviewOutcome reports whether an admin may set this status.
func (s ProofStatus) IsReviewOutcome() bool {
	return s == ProofStatusApproved || s == ProofStatusRejected
}

// IsValid checks if the ProofStatus is a known value.
func (s ProofStatus) IsValid() bool {
	return s == ProofStatusPending || s.IsReviewOutcome()
}

// PaymentProof is evidence of a payment made by a company or individual.
type PaymentProof struct {
	ID                  uuid.UUID       `json:"id"`
	OwnerType           OwnerType       `json:"owner_type"`
	OwnerID             uuid.UUID       `json:"owner_id"`
	ConsumptionRecordID *uuid.UUID      `json:"consumption_record_id,omitempty"`
	SDGID               *int            `json:"sdg_id,omitempty"`
	Amount              decimal.Decimal `json:"amount"`
	FileURL             string          `json:"file_url"`
	Status              ProofStatus     `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// IsRoutable reports whether the proof is eligible to produce an investment.
func (p *PaymentProof) IsRoutable() bool {
	return p.Status == ProofStatusApproved && p.SDGID != nil
}
