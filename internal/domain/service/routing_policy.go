package service

import (
	"carbonledger/internal/domain/entity"
)

// RoutingPolicy chooses the project that receives an approved payment.
type RoutingPolicy interface {
	// Name is the configuration value selecting this policy.
	Name() string

	// Select picks one of the candidates, all belonging to the proof's SDG.
	// It returns nil when there are no candidates.
	Select(proof *entity.PaymentProof, candidates []*entity.Project) *entity.Project
}
