package handler

import (
	"log/slog"
	"net/http"
	"time"

	"carbonledger/internal/delivery/api/middleware"
	"carbonledger/internal/delivery/api/response"
	"carbonledger/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// ConsumptionHandlerParams holds dependencies for ConsumptionHandler, injected by Fx.
type ConsumptionHandlerParams struct {
	fx.In

	ConsumptionUC usecase.ConsumptionUsecase
	Logger        *slog.Logger
}

// ConsumptionHandler serves the caller's consumption records.
type ConsumptionHandler struct {
	consumptionUC usecase.ConsumptionUsecase
	logger        *slog.Logger
}

// NewConsumptionHandler is the constructor for ConsumptionHandler.
func NewConsumptionHandler(params ConsumptionHandlerParams) *ConsumptionHandler {
	return &ConsumptionHandler{
		consumptionUC: params.ConsumptionUC,
		logger:        params.Logger,
	}
}

// ConsumptionRequest is the body of a new consumption record.
type ConsumptionRequest struct {
	PeriodStart time.Time       `json:"period_start" validate:"required"`
	PeriodEnd   time.Time       `json:"period_end" validate:"required"`
	EnergyKwh   decimal.Decimal `json:"energy_kwh"`
	FuelLiters  decimal.Decimal `json:"fuel_liters"`
	TransportKm decimal.Decimal `json:"transport_km"`
	WaterM3     decimal.Decimal `json:"water_m3"`
	WasteKg     decimal.Decimal `json:"waste_kg"`

	EmissionKgCO2       *decimal.Decimal `json:"emission_kg_co2,omitempty"`
	CompensationValueKz *decimal.Decimal `json:"compensation_value_kz,omitempty"`
}

// CreateRecord stores a consumption record.
func (h *ConsumptionHandler) CreateRecord(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Forbidden(c, "OWNER_PROFILE_MISSING", "The account has no company or individual profile")
	}

	var req ConsumptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	record, err := h.consumptionUC.CreateRecord(c.Request().Context(), &usecase.ConsumptionInput{
		Owner:                     owner,
		PeriodStart:               req.PeriodStart,
		PeriodEnd:                 req.PeriodEnd,
		EnergyKwh:                 req.EnergyKwh,
		FuelLiters:                req.FuelLiters,
		TransportKm:               req.TransportKm,
		WaterM3:                   req.WaterM3,
		WasteKg:                   req.WasteKg,
		ClientEmissionKgCO2:       req.EmissionKgCO2,
		ClientCompensationValueKz: req.CompensationValueKz,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, record)
}

// ListRecords lists the caller's records.
func (h *ConsumptionHandler) ListRecords(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Forbidden(c, "OWNER_PROFILE_MISSING", "The account has no company or individual profile")
	}

	records, err := h.consumptionUC.ListRecords(c.Request().Context(), owner)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, records)
}

// GetRecord returns one of the caller's records.
func (h *ConsumptionHandler) GetRecord(c echo.Context) error {
	owner, ok := middleware.GetOwner(c)
	if !ok {
		return response.Forbidden(c, "OWNER_PROFILE_MISSING", "The account has no company or individual profile")
	}

	recordID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	record, err := h.consumptionUC.GetRecord(c.Request().Context(), owner, recordID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, record)
}
