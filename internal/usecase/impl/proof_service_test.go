package impl

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"carbonledger/internal/domain/entity"
	domainerrors "carbonledger/internal/domain/errors"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/domain/service"
	"carbonledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProofService_ApproveWithoutSDGThenAssignRoutesRetroactively(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Sonangol Verde")
	project := l.createProject(t, 3, "Clinic Solar Roof")
	proof := l.createProof(t, owner, 50000, nil)

	result, err := l.proofs.UpdateProofStatus(ctx, proof.ID, entity.ProofStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, entity.ProofStatusApproved, result.Proof.Status)
	assert.Equal(t, usecase.RoutingOutcomeNoSDG, result.Routing.Outcome)
	assert.False(t, result.Routing.Routed())
	assert.Equal(t, 0, l.countInvestments(t))

	result, err = l.proofs.AssignSDG(ctx, proof.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, usecase.RoutingOutcomeRouted, result.Routing.Outcome)
	require.NotNil(t, result.Routing.Investment)
	assert.Equal(t, project.ID, result.Routing.Investment.ProjectID)

	investments := l.investmentsOfProof(t, proof.ID)
	require.Len(t, investments, 1)
	assert.True(t, decimal.NewFromInt(50000).Equal(investments[0].Amount))
	assert.Equal(t, 3, investments[0].SDGID)
	assert.True(t, decimal.NewFromInt(50000).Equal(l.projectTotal(t, project.ID)))
	assert.Contains(t, l.publisher.kinds(), service.EventKindInvestment)
}

func TestProofService_ApproveWithoutRoutableProject(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Kwanza Logistics")
	proof := l.createProof(t, owner, 20000, intPtr(7))

	result, err := l.proofs.UpdateProofStatus(ctx, proof.ID, entity.ProofStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, usecase.RoutingOutcomeNoRoutableProject, result.Routing.Outcome)
	assert.False(t, result.Routing.Routed())
	assert.Equal(t, 0, l.countInvestments(t))

	// Creating a project does not scan for waiting proofs.
	project := l.createProject(t, 7, "Wind Pump Network")
	assert.Equal(t, 0, l.countInvestments(t))

	// The explicit repair pass does.
	report, err := l.investments.Reconcile(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Routed)

	investments := l.investmentsOfProof(t, proof.ID)
	require.Len(t, investments, 1)
	assert.Equal(t, project.ID, investments[0].ProjectID)
}

func TestProofService_ConcurrentApprovalsCreateOneInvestment(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Lobito Cement")
	project := l.createProject(t, 13, "Mangrove Restoration")
	proof := l.createProof(t, owner, 75000, intPtr(13))

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*usecase.ProofReviewResult, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = l.proofs.UpdateProofStatus(ctx, proof.ID, entity.ProofStatusApproved)
		}()
	}
	wg.Wait()

	created := 0
	for i := range callers {
		require.NoError(t, errs[i])
		assert.True(t, results[i].Routing.Routed())
		if results[i].Routing.Created() {
			created++
		}
	}
	assert.Equal(t, 1, created)
	assert.Len(t, l.investmentsOfProof(t, proof.ID), 1)
	assert.True(t, decimal.NewFromInt(75000).Equal(l.projectTotal(t, project.ID)))
}

func TestProofService_RejectionNeverRoutes(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Huila Farms")
	l.createProject(t, 2, "Seed Bank")
	proof := l.createProof(t, owner, 12000, intPtr(2))

	result, err := l.proofs.UpdateProofStatus(ctx, proof.ID, entity.ProofStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, entity.ProofStatusRejected, result.Proof.Status)
	assert.Equal(t, usecase.RoutingOutcomeNotApproved, result.Routing.Outcome)
	assert.Equal(t, 0, l.countInvestments(t))

	report, err := l.investments.Reconcile(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Scanned)
	assert.Equal(t, 0, l.countInvestments(t))
}

func TestProofService_StatusChangesNeverDuplicateOrRemoveInvestments(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Benguela Fisheries")
	project := l.createProject(t, 14, "Reef Monitoring")
	proof := l.createProof(t, owner, 30000, intPtr(14))

	steps := []struct {
		status  entity.ProofStatus
		outcome usecase.RoutingOutcome
	}{
		{entity.ProofStatusApproved, usecase.RoutingOutcomeRouted},
		{entity.ProofStatusApproved, usecase.RoutingOutcomeAlreadyRouted},
		{entity.ProofStatusRejected, usecase.RoutingOutcomeNotApproved},
		{entity.ProofStatusApproved, usecase.RoutingOutcomeAlreadyRouted},
	}
	for _, step := range steps {
		result, err := l.proofs.UpdateProofStatus(ctx, proof.ID, step.status)
		require.NoError(t, err)
		assert.Equal(t, step.status, result.Proof.Status)
		assert.Equal(t, step.outcome, result.Routing.Outcome)
		assert.Len(t, l.investmentsOfProof(t, proof.ID), 1)
	}

	assert.True(t, decimal.NewFromInt(30000).Equal(l.projectTotal(t, project.ID)))
}

func TestProofService_UpdateProofStatusValidation(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Namibe Salt")
	proof := l.createProof(t, owner, 1000, nil)

	testCases := []struct {
		name    string
		proofID uuid.UUID
		status  entity.ProofStatus
		wantErr error
	}{
		{"pending is not a review outcome", proof.ID, entity.ProofStatusPending, domainerrors.ErrInvalidProofStatus},
		{"unknown status", proof.ID, entity.ProofStatus("archived"), domainerrors.ErrInvalidProofStatus},
		{"unknown proof", uuid.New(), entity.ProofStatusApproved, domainerrors.ErrPaymentProofNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.proofs.UpdateProofStatus(ctx, tc.proofID, tc.status)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}

	stored, err := l.proofs.GetProof(ctx, proof.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProofStatusPending, stored.Status)
}

func TestProofService_AssignSDG(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Malanje Water")
	l.createProject(t, 6, "Borehole Program")
	proof := l.createProof(t, owner, 40000, intPtr(6))

	_, err := l.proofs.UpdateProofStatus(ctx, proof.ID, entity.ProofStatusApproved)
	require.NoError(t, err)
	before, err := l.proofs.GetProof(ctx, proof.ID)
	require.NoError(t, err)

	t.Run("same sdg is a no-op", func(t *testing.T) {
		result, err := l.proofs.AssignSDG(ctx, proof.ID, 6)
		require.NoError(t, err)
		assert.Equal(t, usecase.RoutingOutcomeAlreadyRouted, result.Routing.Outcome)

		after, err := l.proofs.GetProof(ctx, proof.ID)
		require.NoError(t, err)
		assert.Equal(t, before.UpdatedAt.UnixNano(), after.UpdatedAt.UnixNano())
		assert.Len(t, l.investmentsOfProof(t, proof.ID), 1)
	})

	t.Run("different sdg after routing conflicts", func(t *testing.T) {
		_, err := l.proofs.AssignSDG(ctx, proof.ID, 13)
		assert.True(t, errors.Is(err, domainerrors.ErrProofAlreadyRouted), "got %v", err)

		var appErr domainerrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, 409, appErr.HTTPCode())

		after, err := l.proofs.GetProof(ctx, proof.ID)
		require.NoError(t, err)
		require.NotNil(t, after.SDGID)
		assert.Equal(t, 6, *after.SDGID)
	})

	t.Run("unknown sdg", func(t *testing.T) {
		_, err := l.proofs.AssignSDG(ctx, proof.ID, 18)
		assert.True(t, errors.Is(err, domainerrors.ErrSDGNotFound), "got %v", err)
	})

	t.Run("unknown proof", func(t *testing.T) {
		_, err := l.proofs.AssignSDG(ctx, uuid.New(), 6)
		assert.True(t, errors.Is(err, domainerrors.ErrPaymentProofNotFound), "got %v", err)
	})
}

func TestProofService_AssignSDGBeforeRoutingMayChange(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Cabinda Timber")
	project := l.createProject(t, 15, "Forest Corridor")
	proof := l.createProof(t, owner, 9000, intPtr(7))

	result, err := l.proofs.UpdateProofStatus(ctx, proof.ID, entity.ProofStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, usecase.RoutingOutcomeNoRoutableProject, result.Routing.Outcome)

	result, err = l.proofs.AssignSDG(ctx, proof.ID, 15)
	require.NoError(t, err)
	assert.Equal(t, usecase.RoutingOutcomeRouted, result.Routing.Outcome)
	assert.Equal(t, project.ID, result.Routing.Investment.ProjectID)
	require.NotNil(t, result.Proof.SDGID)
	assert.Equal(t, 15, *result.Proof.SDGID)
}

func TestProofService_AssignSDGOnPendingProofDoesNotRoute(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Uige Coffee")
	l.createProject(t, 8, "Cooperative Tools")
	proof := l.createProof(t, owner, 5000, nil)

	result, err := l.proofs.AssignSDG(ctx, proof.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, usecase.RoutingOutcomeNotApproved, result.Routing.Outcome)
	assert.Equal(t, 0, l.countInvestments(t))

	result, err = l.proofs.UpdateProofStatus(ctx, proof.ID, entity.ProofStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, usecase.RoutingOutcomeRouted, result.Routing.Outcome)
}

func TestProofService_RoutingBalancesProjectsOfAnSDG(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Luanda Power")
	first := l.createProject(t, 7, "Solar Microgrid")
	second := l.createProject(t, 7, "Biogas Digesters")

	a := l.createProof(t, owner, 100, intPtr(7))
	b := l.createProof(t, owner, 200, intPtr(7))
	c := l.createProof(t, owner, 50, intPtr(7))

	ra, err := l.proofs.UpdateProofStatus(ctx, a.ID, entity.ProofStatusApproved)
	require.NoError(t, err)
	rb, err := l.proofs.UpdateProofStatus(ctx, b.ID, entity.ProofStatusApproved)
	require.NoError(t, err)
	assert.NotEqual(t, ra.Routing.Investment.ProjectID, rb.Routing.Investment.ProjectID)

	// The project holding 100 is now the lowest.
	rc, err := l.proofs.UpdateProofStatus(ctx, c.ID, entity.ProofStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, ra.Routing.Investment.ProjectID, rc.Routing.Investment.ProjectID)

	total := l.projectTotal(t, first.ID).Add(l.projectTotal(t, second.ID))
	assert.True(t, decimal.NewFromInt(350).Equal(total))
}

func TestProofService_UploadProof(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Kuito Bricks")
	invalidations := l.cache.invalidated()

	proof := l.createProof(t, owner, 2500, intPtr(13))
	assert.Equal(t, entity.ProofStatusPending, proof.Status)
	assert.Equal(t, owner.ID, proof.OwnerID)
	assert.Contains(t, proof.FileURL, "/files/proofs/"+owner.ID.String()+"/")
	assert.Greater(t, l.cache.invalidated(), invalidations)

	key := strings.TrimPrefix(proof.FileURL, "/files/")
	rc, contentType, err := l.storage.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "receipt "))
	assert.Equal(t, "application/pdf", contentType)

	listed, err := l.proofs.ListOwnerProofs(ctx, owner)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, proof.ID, listed[0].ID)

	pending := entity.ProofStatusPending
	forReview, err := l.proofs.ListProofs(ctx, repository.ProofFilter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, forReview, 1)
}

func TestProofService_UploadProofValidation(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	owner := l.createCompany(t, "Soyo Gas")
	other := l.createCompany(t, "Dundo Diamonds")

	record, err := l.consumptions.CreateRecord(ctx, &usecase.ConsumptionInput{
		Owner:       other,
		PeriodStart: mustDate(t, "2026-01-01"),
		PeriodEnd:   mustDate(t, "2026-01-31"),
		EnergyKwh:   decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	file := func() *usecase.FileUpload {
		return &usecase.FileUpload{Name: "r.pdf", ContentType: "application/pdf", Content: strings.NewReader("x")}
	}

	testCases := []struct {
		name    string
		input   *usecase.UploadProofInput
		wantErr error
	}{
		{
			name:    "zero amount",
			input:   &usecase.UploadProofInput{Owner: owner, Amount: decimal.Zero, File: file()},
			wantErr: domainerrors.ErrInvalidAmount,
		},
		{
			name:    "missing file",
			input:   &usecase.UploadProofInput{Owner: owner, Amount: decimal.NewFromInt(10)},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "unknown sdg",
			input:   &usecase.UploadProofInput{Owner: owner, Amount: decimal.NewFromInt(10), SDGID: intPtr(42), File: file()},
			wantErr: domainerrors.ErrSDGNotFound,
		},
		{
			name:    "record of another owner",
			input:   &usecase.UploadProofInput{Owner: owner, Amount: decimal.NewFromInt(10), ConsumptionRecordID: &record.ID, File: file()},
			wantErr: domainerrors.ErrConsumptionRecordNotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.proofs.UploadProof(ctx, tc.input)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}

	_, err = l.proofs.ListProofs(ctx, repository.ProofFilter{Status: statusPtr("archived")})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func statusPtr(s string) *entity.ProofStatus {
	status := entity.ProofStatus(s)

	return &status
}
