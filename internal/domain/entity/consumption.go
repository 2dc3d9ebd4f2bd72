package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConsumptionRecord captures resource usage for a period and the emissions derived from it.
type ConsumptionRecord struct {
	ID                  uuid.UUID       `json:"id"`
	OwnerType           OwnerType       `json:"owner_type"`
	OwnerID             uuid.UUID       `json:"owner_id"`
	PeriodStart         time.Time       `json:"period_start"`
	PeriodEnd           time.Time       `json:"period_end"`
	EnergyKwh           decimal.Decimal `json:"energy_kwh"`
	FuelLiters          decimal.Decimal `json:"fuel_liters"`
	TransportKm         decimal.Decimal `json:"transport_km"`
	WaterM3             decimal.Decimal `json:"water_m3"`
	WasteKg             decimal.Decimal `json:"waste_kg"`
	EmissionKgCO2       decimal.Decimal `json:"emission_kg_co2"`
	CompensationValueKz decimal.Decimal `json:"compensation_value_kz"`
	CreatedAt           time.Time       `json:"created_at"`
}
