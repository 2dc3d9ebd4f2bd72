package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SDGModel mirrors the seeded 'sdgs' table. The ID is the goal number.
type SDGModel struct {
	ID    int    `gorm:"primaryKey;autoIncrement:false"`
	Name  string `gorm:"type:varchar(100);not null"`
	Color string `gorm:"type:varchar(7);not null"`
}

// TableName explicitly sets the table name for GORM.
func (SDGModel) TableName() string {
	return "sdgs"
}

// ProjectModel mirrors the 'projects' table.
type ProjectModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SDGID         int             `gorm:"column:sdg_id;index;not null"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Location      string          `gorm:"type:varchar(255)"`
	Latitude      *float64        `gorm:"type:double precision"`
	Longitude     *float64        `gorm:"type:double precision"`
	ImageURL      string          `gorm:"type:varchar(500)"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	TotalInvested decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	CreatedAt     time.Time       `gorm:"index"`
	UpdatedAt     time.Time

	Updates []ProjectUpdateModel `gorm:"foreignKey:ProjectID"`
}

// TableName explicitly sets the table name for GORM.
func (ProjectModel) TableName() string {
	return "projects"
}

// BeforeCreate assigns the primary key.
func (m *ProjectModel) BeforeCreate(_ *gorm.DB) error {
	return assignID(&m.ID)
}

// ProjectUpdateModel mirrors the 'project_updates' table.
type ProjectUpdateModel struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID                   `gorm:"type:uuid;index;not null"`
	Title     string                      `gorm:"type:varchar(200);not null"`
	Content   string                      `gorm:"type:text"`
	MediaURLs datatypes.JSONSlice[string] `gorm:"column:media_urls"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProjectUpdateModel) TableName() string {
	return "project_updates"
}

// BeforeCreate assigns the primary key.
func (m *ProjectUpdateModel) BeforeCreate(_ *gorm.DB) error {
	return assignID(&m.ID)
}

// DisplayInvestmentModel mirrors the 'display_investments' table, one row per project at most.
type DisplayInvestmentModel struct {
	ProjectID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Amount    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	UpdatedBy uuid.UUID       `gorm:"type:uuid"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (DisplayInvestmentModel) TableName() string {
	return "display_investments"
}
