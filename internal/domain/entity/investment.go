package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Investment links an approved payment proof to the project its money was routed to.
type Investment struct {
	ID             uuid.UUID       `json:"id"`
	OwnerType      OwnerType       `json:"owner_type"`
	OwnerID        uuid.UUID       `json:"owner_id"`
	ProjectID      uuid.UUID       `json:"project_id"`
	PaymentProofID uuid.UUID       `json:"payment_proof_id"`
	Amount         decimal.Decimal `json:"amount"`
	CreatedAt      time.Time       `json:"created_at"`
}

// InvestmentDetail is an investment joined with the project it funds.
type InvestmentDetail struct {
	Investment
	ProjectName string `json:"project_name"`
	SDGID       int    `json:"sdg_id"`
	OwnerName   string `json:"owner_name"`
}
