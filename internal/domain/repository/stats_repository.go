package repository

import (
	"context"
	"time"

	"carbonledger/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// StatsRepository computes aggregates from base tables on every call.
// A nil owner aggregates over everyone.
type StatsRepository interface {
	// InvestmentsBySDG sums approved proofs that are not invested yet plus investments through project SDGs.
	InvestmentsBySDG(ctx context.Context, owner *entity.Owner) ([]*entity.SDGInvestment, error)

	EmissionTotals(ctx context.Context, owner *entity.Owner) (*entity.EmissionTotals, error)
	ProofStatusCounts(ctx context.Context, owner *entity.Owner) (*entity.ProofStatusCounts, error)
	ApprovedAmount(ctx context.Context, owner *entity.Owner) (decimal.Decimal, error)
	InvestedAmount(ctx context.Context, owner *entity.Owner) (decimal.Decimal, error)

	SectorEmissions(ctx context.Context) ([]*entity.SectorEmission, error)
	CountProjects(ctx context.Context) (int64, error)
	CountProfiles(ctx context.Context) (companies, individuals int64, err error)

	// CompanyPeriodTotals returns one row per company for records and approvals inside [from, to).
	CompanyPeriodTotals(ctx context.Context, from, to time.Time) ([]*entity.CompanyPeriodTotals, error)
}
