package handler

import (
	"log/slog"
	"net/http"

	"carbonledger/internal/delivery/api/middleware"
	"carbonledger/internal/delivery/api/response"
	"carbonledger/internal/domain/entity"
	"carbonledger/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// StatsHandlerParams holds dependencies for StatsHandler, injected by Fx.
type StatsHandlerParams struct {
	fx.In

	StatsUC       usecase.StatsUsecase
	LeaderboardUC usecase.LeaderboardUsecase
	Logger        *slog.Logger
}

// StatsHandler serves dashboards and the leaderboard.
type StatsHandler struct {
	statsUC       usecase.StatsUsecase
	leaderboardUC usecase.LeaderboardUsecase
	logger        *slog.Logger
}

// NewStatsHandler is the constructor for StatsHandler.
func NewStatsHandler(params StatsHandlerParams) *StatsHandler {
	return &StatsHandler{
		statsUC:       params.StatsUC,
		leaderboardUC: params.LeaderboardUC,
		logger:        params.Logger,
	}
}

// AdminDashboard returns the aggregate over every owner.
func (h *StatsHandler) AdminDashboard(c echo.Context) error {
	stats, err := h.statsUC.GetAdminDashboardStats(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats)
}

// OwnerStats returns the caller's aggregate.
func (h *StatsHandler) OwnerStats(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Forbidden(c, "OWNER_PROFILE_MISSING", "The account has no company or individual profile")
	}

	stats, err := h.statsUC.GetOwnerStats(c.Request().Context(), owner)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats)
}

// GetLeaderboard returns the latest snapshot of ?period= (default monthly).
func (h *StatsHandler) GetLeaderboard(c echo.Context) error {
	entries, err := h.leaderboardUC.GetLeaderboard(c.Request().Context(), periodParam(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, entries)
}

// RecalculateLeaderboard rebuilds the snapshot of ?period= (default monthly).
func (h *StatsHandler) RecalculateLeaderboard(c echo.Context) error {
	entries, err := h.leaderboardUC.RecalculateLeaderboard(c.Request().Context(), periodParam(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, entries)
}

func periodParam(c echo.Context) entity.LeaderboardPeriod {
	if raw := c.QueryParam("period"); raw != "" {
		return entity.LeaderboardPeriod(raw)
	}

	return entity.PeriodMonthly
}
