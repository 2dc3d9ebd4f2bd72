package impl

import (
	"context"
	"testing"

	"carbonledger/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumBySDG(rows []*entity.SDGInvestment) decimal.Decimal {
	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(row.TotalAmount)
	}

	return sum
}

func totalOfSDG(rows []*entity.SDGInvestment, sdgID int) decimal.Decimal {
	for _, row := range rows {
		if row.SDGID == sdgID {
			return row.TotalAmount
		}
	}

	return decimal.Zero
}

func TestStatsService_InvestmentsBySDGMatchesApprovedProofsWithSDG(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Moxico Honey")
	l.createProject(t, 13, "Miombo Woodland")

	routed := l.createProof(t, owner, 100, intPtr(13))
	_, err := l.proofs.UpdateProofStatus(ctx, routed.ID, entity.ProofStatusApproved)
	require.NoError(t, err)

	waiting := l.createProof(t, owner, 40, intPtr(13))
	l.approveBypassingRouting(t, waiting)

	noSDG := l.createProof(t, owner, 500, nil)
	_, err = l.proofs.UpdateProofStatus(ctx, noSDG.ID, entity.ProofStatusApproved)
	require.NoError(t, err)

	stranded := l.createProof(t, owner, 30, intPtr(9))
	_, err = l.proofs.UpdateProofStatus(ctx, stranded.ID, entity.ProofStatusApproved)
	require.NoError(t, err)

	l.createProof(t, owner, 60, intPtr(13))

	expected := decimal.NewFromInt(100 + 40 + 30)

	stats, err := l.stats.GetAdminDashboardStats(ctx)
	require.NoError(t, err)
	assert.True(t, expected.Equal(sumBySDG(stats.InvestmentsBySDG)), "got %s", sumBySDG(stats.InvestmentsBySDG))
	assert.True(t, decimal.NewFromInt(140).Equal(totalOfSDG(stats.InvestmentsBySDG, 13)))
	assert.True(t, decimal.NewFromInt(30).Equal(totalOfSDG(stats.InvestmentsBySDG, 9)))
	assert.Equal(t, int64(1), stats.Proofs.Pending)
	assert.Equal(t, int64(4), stats.Proofs.Approved)
	assert.Equal(t, int64(1), stats.ProjectCount)
	assert.Equal(t, int64(1), stats.CompanyCount)
	assert.True(t, decimal.NewFromInt(100).Equal(stats.InvestedKz))

	// Routing the waiting proof moves its amount, it does not add it twice.
	_, err = l.investments.Reconcile(ctx, nil)
	require.NoError(t, err)

	ownerStats, err := l.stats.GetOwnerStats(ctx, owner)
	require.NoError(t, err)
	assert.True(t, expected.Equal(sumBySDG(ownerStats.InvestmentsBySDG)), "got %s", sumBySDG(ownerStats.InvestmentsBySDG))
	assert.True(t, decimal.NewFromInt(140).Equal(ownerStats.InvestedKz))
}

func TestStatsService_RejectedAfterRoutingLeavesSDGTotals(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Lunda Diamonds")
	l.createProject(t, 3, "Rural Clinic")

	kept := l.createProof(t, owner, 25, intPtr(3))
	_, err := l.proofs.UpdateProofStatus(ctx, kept.ID, entity.ProofStatusApproved)
	require.NoError(t, err)

	revoked := l.createProof(t, owner, 100, intPtr(3))
	_, err = l.proofs.UpdateProofStatus(ctx, revoked.ID, entity.ProofStatusApproved)
	require.NoError(t, err)
	_, err = l.proofs.UpdateProofStatus(ctx, revoked.ID, entity.ProofStatusRejected)
	require.NoError(t, err)

	// The investment itself is never undone.
	assert.Len(t, l.investmentsOfProof(t, revoked.ID), 1)
	assert.Equal(t, 2, l.countInvestments(t))

	stats, err := l.stats.GetAdminDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Proofs.Approved)
	assert.Equal(t, int64(1), stats.Proofs.Rejected)
	assert.True(t, decimal.NewFromInt(25).Equal(sumBySDG(stats.InvestmentsBySDG)), "got %s", sumBySDG(stats.InvestmentsBySDG))

	ownerStats, err := l.stats.GetOwnerStats(ctx, owner)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(sumBySDG(ownerStats.InvestmentsBySDG)), "got %s", sumBySDG(ownerStats.InvestmentsBySDG))
}

func TestStatsService_DashboardIsCachedUntilInvalidated(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Bie Grain")

	first, err := l.stats.GetAdminDashboardStats(ctx)
	require.NoError(t, err)
	cached, err := l.stats.GetAdminDashboardStats(ctx)
	require.NoError(t, err)
	assert.Same(t, first, cached)

	proof := l.createProof(t, owner, 10, nil)
	_, err = l.proofs.UpdateProofStatus(ctx, proof.ID, entity.ProofStatusApproved)
	require.NoError(t, err)

	fresh, err := l.stats.GetAdminDashboardStats(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, fresh)
	assert.Equal(t, int64(1), fresh.Proofs.Approved)
}

func TestStatsService_OwnerStatsAreScoped(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	mine := l.createCompany(t, "Cuanza Rice")
	theirs := l.createCompany(t, "Zaire Oil")

	l.createProof(t, mine, 10, nil)
	l.createProof(t, theirs, 20, nil)
	l.createProof(t, theirs, 30, nil)

	stats, err := l.stats.GetOwnerStats(ctx, mine)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Proofs.Pending)
	assert.True(t, stats.ApprovedAmountKz.IsZero())
	assert.True(t, sumBySDG(stats.InvestmentsBySDG).IsZero())
}
