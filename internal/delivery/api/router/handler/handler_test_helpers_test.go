package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"carbonledger/internal/delivery/api/middleware"
	"carbonledger/internal/delivery/api/validator"
	"carbonledger/internal/domain/entity"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProofUsecase struct {
	mock.Mock
}

func (m *mockProofUsecase) UploadProof(ctx context.Context, input *usecase.UploadProofInput) (*entity.PaymentProof, error) {
	args := m.Called(ctx, input)
	proof, _ := args.Get(0).(*entity.PaymentProof)

	return proof, args.Error(1)
}

func (m *mockProofUsecase) ListOwnerProofs(ctx context.Context, owner entity.Owner) ([]*entity.PaymentProof, error) {
	args := m.Called(ctx, owner)
	proofs, _ := args.Get(0).([]*entity.PaymentProof)

	return proofs, args.Error(1)
}

func (m *mockProofUsecase) ListProofs(ctx context.Context, filter repository.ProofFilter) ([]*entity.PaymentProof, error) {
	args := m.Called(ctx, filter)
	proofs, _ := args.Get(0).([]*entity.PaymentProof)

	return proofs, args.Error(1)
}

func (m *mockProofUsecase) GetProof(ctx context.Context, proofID uuid.UUID) (*entity.PaymentProof, error) {
	args := m.Called(ctx, proofID)
	proof, _ := args.Get(0).(*entity.PaymentProof)

	return proof, args.Error(1)
}

func (m *mockProofUsecase) UpdateProofStatus(ctx context.Context, proofID uuid.UUID, status entity.ProofStatus) (*usecase.ProofReviewResult, error) {
	args := m.Called(ctx, proofID, status)
	result, _ := args.Get(0).(*usecase.ProofReviewResult)

	return result, args.Error(1)
}

func (m *mockProofUsecase) AssignSDG(ctx context.Context, proofID uuid.UUID, sdgID int) (*usecase.ProofReviewResult, error) {
	args := m.Called(ctx, proofID, sdgID)
	result, _ := args.Get(0).(*usecase.ProofReviewResult)

	return result, args.Error(1)
}

type mockInvestmentUsecase struct {
	mock.Mock
}

func (m *mockInvestmentUsecase) Reconcile(ctx context.Context, owner *entity.Owner) (*usecase.ReconcileReport, error) {
	args := m.Called(ctx, owner)
	report, _ := args.Get(0).(*usecase.ReconcileReport)

	return report, args.Error(1)
}

func (m *mockInvestmentUsecase) ListOwnerInvestments(ctx context.Context, owner entity.Owner) ([]*entity.InvestmentDetail, error) {
	args := m.Called(ctx, owner)
	investments, _ := args.Get(0).([]*entity.InvestmentDetail)

	return investments, args.Error(1)
}

func (m *mockInvestmentUsecase) ListInvestments(ctx context.Context, filter repository.InvestmentFilter) ([]*entity.InvestmentDetail, error) {
	args := m.Called(ctx, filter)
	investments, _ := args.Get(0).([]*entity.InvestmentDetail)

	return investments, args.Error(1)
}

func (m *mockInvestmentUsecase) ExportInvestments(ctx context.Context) (*usecase.ExportFile, error) {
	args := m.Called(ctx)
	file, _ := args.Get(0).(*usecase.ExportFile)

	return file, args.Error(1)
}

func (m *mockInvestmentUsecase) RebuildProjectTotals(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEcho returns an echo instance wired like the API server, without auth.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(newDiscardLogger()).HandleHTTPError

	return e
}

// withIdentity stands in for the auth middleware.
func withIdentity(userID uuid.UUID, role entity.Role, owner *entity.Owner) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			middleware.SetIdentity(c, userID, entity.Roles{role}, owner)

			return next(c)
		}
	}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) *envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())

	return &env
}
