package usecase

import (
	"context"

	"carbonledger/internal/domain/entity"
	"carbonledger/internal/domain/repository"
)

// ReconcileReport summarizes one reconciliation pass.
type ReconcileReport struct {
	Scanned           int `json:"scanned"`
	Routed            int `json:"routed"`
	NoRoutableProject int `json:"no_routable_project"`
	Failed            int `json:"failed"`
}

// ExportFile is a rendered export ready to be sent.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// InvestmentUsecase defines investment listings and ledger repair operations.
type InvestmentUsecase interface {
	// Reconcile routes every approved proof that has an SDG but no investment.
	// A nil owner scans everyone. Running it again changes nothing.
	Reconcile(ctx context.Context, owner *entity.Owner) (*ReconcileReport, error)

	ListOwnerInvestments(ctx context.Context, owner entity.Owner) ([]*entity.InvestmentDetail, error)
	ListInvestments(ctx context.Context, filter repository.InvestmentFilter) ([]*entity.InvestmentDetail, error)
	ExportInvestments(ctx context.Context) (*ExportFile, error)

	// RebuildProjectTotals recomputes every project's running total and returns how many changed.
	RebuildProjectTotals(ctx context.Context) (int64, error)
}
