package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SDGInvestment is the money attributed to one SDG.
type SDGInvestment struct {
	SDGID       int             `json:"sdg_id"`
	Name        string          `json:"name"`
	Color       string          `json:"color"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// SectorEmission aggregates company emissions by business sector.
type SectorEmission struct {
	Sector        string          `json:"sector"`
	EmissionKgCO2 decimal.Decimal `json:"emission_kg_co2"`
}

// ProofStatusCounts counts payment proofs per review state.
type ProofStatusCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// EmissionTotals sums consumption records.
type EmissionTotals struct {
	EmissionKgCO2       decimal.Decimal `json:"emission_kg_co2"`
	CompensationValueKz decimal.Decimal `json:"compensation_value_kz"`
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	Emissions        EmissionTotals    `json:"emissions"`
	ApprovedAmountKz decimal.Decimal   `json:"approved_amount_kz"`
	InvestedKz       decimal.Decimal   `json:"invested_kz"`
	Proofs           ProofStatusCounts `json:"proofs"`
	ProjectCount     int64             `json:"project_count"`
	CompanyCount     int64             `json:"company_count"`
	IndividualCount  int64             `json:"individual_count"`
	InvestmentsBySDG []*SDGInvestment  `json:"investments_by_sdg"`
	SectorEmissions  []*SectorEmission `json:"sector_emissions"`
}

// OwnerStats is the overview shown to a company or individual.
type OwnerStats struct {
	Emissions        EmissionTotals    `json:"emissions"`
	ApprovedAmountKz decimal.Decimal   `json:"approved_amount_kz"`
	InvestedKz       decimal.Decimal   `json:"invested_kz"`
	Proofs           ProofStatusCounts `json:"proofs"`
	InvestmentsBySDG []*SDGInvestment  `json:"investments_by_sdg"`
}

// CompanyPeriodTotals are the leaderboard inputs for one company.
type CompanyPeriodTotals struct {
	CompanyID           uuid.UUID
	CompanyName         string
	EmissionKgCO2       decimal.Decimal
	CompensationValueKz decimal.Decimal
	CompensatedKz       decimal.Decimal
}
