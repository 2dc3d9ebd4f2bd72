package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConsumptionRecordModel mirrors the 'consumption_records' table.
type ConsumptionRecordModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerType           string          `gorm:"type:varchar(20);not null;index:idx_consumption_owner"`
	OwnerID             uuid.UUID       `gorm:"type:uuid;not null;index:idx_consumption_owner"`
	PeriodStart         time.Time       `gorm:"not null"`
	PeriodEnd           time.Time       `gorm:"not null"`
	EnergyKwh           decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	FuelLiters          decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	TransportKm         decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	WaterM3             decimal.Decimal `gorm:"column:water_m3;type:numeric(18,2);not null;default:0"`
	WasteKg             decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	EmissionKgCO2       decimal.Decimal `gorm:"column:emission_kg_co2;type:numeric(18,2);not null;default:0"`
	CompensationValueKz decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	CreatedAt           time.Time       `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (ConsumptionRecordModel) TableName() string {
	return "consumption_records"
}

// BeforeCreate assigns the primary key.
func (m *ConsumptionRecordModel) BeforeCreate(_ *gorm.DB) error {
	return assignID(&m.ID)
}

// PaymentProofModel mirrors the 'payment_proofs' table.
type PaymentProofModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerType           string          `gorm:"type:varchar(20);not null;index:idx_proof_owner"`
	OwnerID             uuid.UUID       `gorm:"type:uuid;not null;index:idx_proof_owner"`
	ConsumptionRecordID *uuid.UUID      `gorm:"type:uuid"`
	SDGID               *int            `gorm:"column:sdg_id;index"`
	Amount              decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	FileURL             string          `gorm:"type:varchar(500)"`
	Status              string          `gorm:"type:varchar(20);not null;default:pending;index"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName explicitly sets the table name for GORM.
func (PaymentProofModel) TableName() string {
	return "payment_proofs"
}

// BeforeCreate assigns the primary key.
func (m *PaymentProofModel) BeforeCreate(_ *gorm.DB) error {
	return assignID(&m.ID)
}

// InvestmentModel mirrors the 'investments' table. The unique index on
// payment_proof_id guarantees one investment per proof.
type InvestmentModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerType      string          `gorm:"type:varchar(20);not null;index:idx_investment_owner"`
	OwnerID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_investment_owner"`
	ProjectID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentProofID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_investments_payment_proof_id"`
	Amount         decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CreatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (InvestmentModel) TableName() string {
	return "investments"
}

// BeforeCreate assigns the primary key.
func (m *InvestmentModel) BeforeCreate(_ *gorm.DB) error {
	return assignID(&m.ID)
}

// LeaderboardEntryModel mirrors the 'carbon_leaderboard' table.
type LeaderboardEntryModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID           uuid.UUID       `gorm:"type:uuid;not null"`
	CompanyName         string          `gorm:"type:varchar(200)"`
	Period              string          `gorm:"type:varchar(20);not null;index:idx_leaderboard_period"`
	PeriodStart         time.Time       `gorm:"not null;index:idx_leaderboard_period"`
	EmissionKgCO2       decimal.Decimal `gorm:"column:emission_kg_co2;type:numeric(18,2);not null;default:0"`
	CompensationValueKz decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	CompensatedKz       decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	ReductionPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	Rank                int             `gorm:"not null"`
	CalculatedAt        time.Time       `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (LeaderboardEntryModel) TableName() string {
	return "carbon_leaderboard"
}

// BeforeCreate assigns the primary key.
func (m *LeaderboardEntryModel) BeforeCreate(_ *gorm.DB) error {
	return assignID(&m.ID)
}
