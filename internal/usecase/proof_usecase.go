package usecase

import (
	"context"
	"io"

	"carbonledger/internal/domain/entity"
	"carbonledger/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoutingOutcome says what happened when a proof was considered for routing.
type RoutingOutcome string

const (
	// RoutingOutcomeRouted means a new investment was created.
	RoutingOutcomeRouted RoutingOutcome = "routed"
	// RoutingOutcomeAlreadyRouted means the proof already had its investment.
	RoutingOutcomeAlreadyRouted RoutingOutcome = "already_routed"
	// RoutingOutcomeNoSDG means the proof has no SDG yet.
	RoutingOutcomeNoSDG RoutingOutcome = "no_sdg"
	// RoutingOutcomeNotApproved means the proof is pending or rejected.
	RoutingOutcomeNotApproved RoutingOutcome = "not_approved"
	// RoutingOutcomeNoRoutableProject means no project exists for the proof's SDG.
	RoutingOutcomeNoRoutableProject RoutingOutcome = "no_routable_project"
)

// RoutingResult describes the routing step for one proof.
type RoutingResult struct {
	Outcome    RoutingOutcome
	Investment *entity.Investment
	Project    *entity.Project
}

// Routed reports whether the proof's money sits in an investment.
func (r *RoutingResult) Routed() bool {
	return r != nil && r.Investment != nil
}

// Created reports whether this call created the investment.
func (r *RoutingResult) Created() bool {
	return r != nil && r.Outcome == RoutingOutcomeRouted
}

// FileUpload is a file received from a client.
type FileUpload struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// UploadProofInput defines the data of a new payment proof.
type UploadProofInput struct {
	Owner               entity.Owner
	Amount              decimal.Decimal
	ConsumptionRecordID *uuid.UUID
	SDGID               *int
	File                *FileUpload
}

// ProofReviewResult is the proof after an admin action together with the routing step.
type ProofReviewResult struct {
	Proof   *entity.PaymentProof
	Routing *RoutingResult
}

// ProofUsecase defines payment proof submission and the admin review workflow.
type ProofUsecase interface {
	UploadProof(ctx context.Context, input *UploadProofInput) (*entity.PaymentProof, error)
	ListOwnerProofs(ctx context.Context, owner entity.Owner) ([]*entity.PaymentProof, error)
	ListProofs(ctx context.Context, filter repository.ProofFilter) ([]*entity.PaymentProof, error)
	GetProof(ctx context.Context, proofID uuid.UUID) (*entity.PaymentProof, error)

	// UpdateProofStatus approves or rejects a proof. Approving a proof with an SDG
	// routes its amount to a project in the same transaction.
	UpdateProofStatus(ctx context.Context, proofID uuid.UUID, status entity.ProofStatus) (*ProofReviewResult, error)

	// AssignSDG sets the SDG of a proof and routes it when it is already approved.
	AssignSDG(ctx context.Context, proofID uuid.UUID, sdgID int) (*ProofReviewResult, error)
}
