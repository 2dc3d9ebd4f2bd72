package repository

import (
	"context"
	"errors"
	"time"

	"carbonledger/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPaymentProofNotFound is returned when a payment proof does not exist.
var ErrPaymentProofNotFound = errors.New("payment proof not found")

// ProofFilter narrows payment proof listings. Nil fields match everything.
type ProofFilter struct {
	Owner  *entity.Owner
	Status *entity.ProofStatus
	Limit  int
	Offset int
}

// PaymentProofRepository persists payment proofs.
type PaymentProofRepository interface {
	Create(ctx context.Context, proof *entity.PaymentProof) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PaymentProof, error)

	// LockByID is FindByID holding a row lock until the surrounding transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*entity.PaymentProof, error)

	List(ctx context.Context, filter ProofFilter) ([]*entity.PaymentProof, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ProofStatus, at time.Time) error
	UpdateSDG(ctx context.Context, id uuid.UUID, sdgID int, at time.Time) error

	// FindUnrouted lists approved proofs with an SDG and no investment, optionally for one owner.
	FindUnrouted(ctx context.Context, owner *entity.Owner) ([]*entity.PaymentProof, error)
}
