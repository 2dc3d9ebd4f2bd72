// Package routing holds the policies that pick which project receives an approved payment.
package routing

import (
	"carbonledger/config"
	"carbonledger/internal/domain/entity"
	"carbonledger/internal/domain/service"

	"github.com/pkg/errors"
)

// NewPolicy returns the policy named in the routing config section.
func NewPolicy(cfg *config.Config) (service.RoutingPolicy, error) {
	name := config.RoutingPolicyLowestTotalInvested
	if cfg.Routing != nil && cfg.Routing.Policy != "" {
		name = cfg.Routing.Policy
	}

	switch name {
	case config.RoutingPolicyLowestTotalInvested:
		return LowestTotalInvested{}, nil
	case config.RoutingPolicyOldestFirst:
		return OldestFirst{}, nil
	default:
		return nil, errors.Errorf("unknown routing policy: %s", name)
	}
}

// LowestTotalInvested funds the project that has received the least so far.
// Equal totals go to the older project, then the lower ID.
type LowestTotalInvested struct{}

func (LowestTotalInvested) Name() string {
	return config.RoutingPolicyLowestTotalInvested
}

func (LowestTotalInvested) Select(_ *entity.PaymentProof, candidates []*entity.Project) *entity.Project {
	var best *entity.Project
	for _, p := range candidates {
		if best == nil {
			best = p

			continue
		}

		switch cmp := p.TotalInvested.Cmp(best.TotalInvested); {
		case cmp < 0:
			best = p
		case cmp == 0 && olderThan(p, best):
			best = p
		}
	}

	return best
}

// OldestFirst always funds the earliest created project of the SDG.
type OldestFirst struct{}

func (OldestFirst) Name() string {
	return config.RoutingPolicyOldestFirst
}

func (OldestFirst) Select(_ *entity.PaymentProof, candidates []*entity.Project) *entity.Project {
	var best *entity.Project
	for _, p := range candidates {
		if best == nil || olderThan(p, best) {
			best = p
		}
	}

	return best
}

func olderThan(a, b *entity.Project) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}

	return a.ID.String() < b.ID.String()
}
