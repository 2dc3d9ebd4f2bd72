package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"carbonledger/config"
	"carbonledger/internal/domain/entity"
	"carbonledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newInvestmentTestServer(investmentUC *mockInvestmentUsecase, cfg *config.Config, owner *entity.Owner) *echo.Echo {
	e := newTestEcho()
	h := NewInvestmentHandler(InvestmentHandlerParams{InvestmentUC: investmentUC, Config: cfg, Logger: newDiscardLogger()})

	e.GET("/company/investments", h.ListOwnerInvestments, withIdentity(uuid.New(), entity.RoleCompany, owner))
	admin := e.Group("/admin", withIdentity(uuid.New(), entity.RoleAdmin, nil))
	admin.POST("/maintenance/reconcile", h.Reconcile)
	admin.POST("/maintenance/rebuild-totals", h.RebuildProjectTotals)
	admin.GET("/investments/export", h.ExportInvestments)

	return e
}

func TestInvestmentHandler_ListOwnerInvestments(t *testing.T) {
	owner := entity.Owner{Type: entity.OwnerTypeCompany, ID: uuid.New(), Name: "Soyo Gas"}
	listed := []*entity.InvestmentDetail{{
		Investment:  entity.Investment{ID: uuid.New(), OwnerID: owner.ID, Amount: decimal.NewFromInt(75)},
		ProjectName: "Mangrove Belt",
	}}

	t.Run("reconciles the caller first", func(t *testing.T) {
		investmentUC := &mockInvestmentUsecase{}
		investmentUC.On("Reconcile", mock.Anything, &owner).Return(&usecase.ReconcileReport{Scanned: 1, Routed: 1}, nil).Once()
		investmentUC.On("ListOwnerInvestments", mock.Anything, owner).Return(listed, nil).Once()

		cfg := &config.Config{Reconcile: &config.ReconcileConfig{OnRead: true}}
		rec := httptest.NewRecorder()
		newInvestmentTestServer(investmentUC, cfg, &owner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/company/investments", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Mangrove Belt")
		investmentUC.AssertExpectations(t)
	})

	t.Run("listing survives a failed reconciliation", func(t *testing.T) {
		investmentUC := &mockInvestmentUsecase{}
		investmentUC.On("Reconcile", mock.Anything, &owner).Return(nil, errors.New("database is locked")).Once()
		investmentUC.On("ListOwnerInvestments", mock.Anything, owner).Return(listed, nil).Once()

		rec := httptest.NewRecorder()
		newInvestmentTestServer(investmentUC, nil, &owner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/company/investments", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		investmentUC.AssertExpectations(t)
	})

	t.Run("read only when disabled", func(t *testing.T) {
		investmentUC := &mockInvestmentUsecase{}
		investmentUC.On("ListOwnerInvestments", mock.Anything, owner).Return(listed, nil).Once()

		cfg := &config.Config{Reconcile: &config.ReconcileConfig{OnRead: false}}
		rec := httptest.NewRecorder()
		newInvestmentTestServer(investmentUC, cfg, &owner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/company/investments", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		investmentUC.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
		investmentUC.AssertExpectations(t)
	})

	t.Run("no owner profile", func(t *testing.T) {
		investmentUC := &mockInvestmentUsecase{}

		rec := httptest.NewRecorder()
		newInvestmentTestServer(investmentUC, nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/company/investments", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		investmentUC.AssertNotCalled(t, "ListOwnerInvestments", mock.Anything, mock.Anything)
	})
}

func TestInvestmentHandler_AdminMaintenance(t *testing.T) {
	investmentUC := &mockInvestmentUsecase{}
	investmentUC.On("Reconcile", mock.Anything, (*entity.Owner)(nil)).Return(&usecase.ReconcileReport{Scanned: 4, Routed: 3, NoRoutableProject: 1}, nil)
	investmentUC.On("RebuildProjectTotals", mock.Anything).Return(int64(2), nil)
	investmentUC.On("ExportInvestments", mock.Anything).Return(&usecase.ExportFile{
		FileName:    "investments_20261019.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        []byte("xlsx"),
	}, nil)
	e := newInvestmentTestServer(investmentUC, nil, nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/maintenance/reconcile", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"scanned":4,"routed":3,"no_routable_project":1,"failed":0}`, string(decodeEnvelope(t, rec).Data))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/maintenance/rebuild-totals", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"projects_changed":2}`, string(decodeEnvelope(t, rec).Data))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/investments/export", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "xlsx", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "investments_20261019.xlsx")

	investmentUC.AssertExpectations(t)
}
