package handler

import (
	"log/slog"
	"net/http"

	"carbonledger/config"
	"carbonledger/internal/delivery/api/middleware"
	"carbonledger/internal/delivery/api/response"
	deliverycontext "carbonledger/internal/delivery/context"
	"carbonledger/internal/domain/repository"
	"carbonledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// InvestmentHandlerParams holds dependencies for InvestmentHandler, injected by Fx.
type InvestmentHandlerParams struct {
	fx.In

	InvestmentUC usecase.InvestmentUsecase
	Config       *config.Config
	Logger       *slog.Logger
}

// InvestmentHandler serves investment listings and ledger maintenance.
type InvestmentHandler struct {
	investmentUC    usecase.InvestmentUsecase
	reconcileOnRead bool
	logger          *slog.Logger
}

// NewInvestmentHandler is the constructor for InvestmentHandler.
func NewInvestmentHandler(params InvestmentHandlerParams) *InvestmentHandler {
	reconcileOnRead := true
	if params.Config != nil && params.Config.Reconcile != nil {
		reconcileOnRead = params.Config.Reconcile.OnRead
	}

	return &InvestmentHandler{
		investmentUC:    params.InvestmentUC,
		reconcileOnRead: reconcileOnRead,
		logger:          params.Logger,
	}
}

// ListOwnerInvestments lists the caller's investments. When enabled, the caller's
// unrouted approved proofs are reconciled first.
func (h *InvestmentHandler) ListOwnerInvestments(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Forbidden(c, "OWNER_PROFILE_MISSING", "The account has no company or individual profile")
	}
	ctx := c.Request().Context()

	if h.reconcileOnRead {
		if _, err := h.investmentUC.Reconcile(ctx, &owner); err != nil {
			// The listing is still correct for everything already routed
			deliverycontext.GetLoggerOrDefault(ctx, h.logger).Warn("Reconciliation before listing failed",
				slog.String("owner_id", owner.ID.String()),
				slog.Any("error", err),
			)
		}
	}

	investments, err := h.investmentUC.ListOwnerInvestments(ctx, owner)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, investments)
}

// ListInvestments lists every investment, optionally for one ?project_id=.
func (h *InvestmentHandler) ListInvestments(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	filter := repository.InvestmentFilter{Limit: limit, Offset: offset}
	if raw := c.QueryParam("project_id"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid project_id")
		}
		filter.ProjectID = &projectID
	}

	investments, err := h.investmentUC.ListInvestments(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, investments)
}

// ExportInvestments downloads every investment as a spreadsheet.
func (h *InvestmentHandler) ExportInvestments(c echo.Context) error {
	file, err := h.investmentUC.ExportInvestments(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+file.FileName+`"`)

	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}

// Reconcile runs a reconciliation pass over every owner.
func (h *InvestmentHandler) Reconcile(c echo.Context) error {
	report, err := h.investmentUC.Reconcile(c.Request().Context(), nil)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, report)
}

// RebuildProjectTotals recomputes every project total from its investments.
func (h *InvestmentHandler) RebuildProjectTotals(c echo.Context) error {
	changed, err := h.investmentUC.RebuildProjectTotals(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int64{"projects_changed": changed})
}
