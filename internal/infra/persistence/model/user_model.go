package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string    `gorm:"type:varchar(100)"`
	Role         string    `gorm:"type:varchar(20);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Company    *CompanyModel    `gorm:"foreignKey:UserID"`
	Individual *IndividualModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// BeforeCreate assigns the primary key.
func (m *UserModel) BeforeCreate(_ *gorm.DB) error {
	return assignID(&m.ID)
}

// CompanyModel mirrors the 'companies' table. UserID references users.id.
type CompanyModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(200);not null"`
	TaxID     string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Sector    string    `gorm:"type:varchar(100);index"`
	Phone     string    `gorm:"type:varchar(30)"`
	Address   string    `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CompanyModel) TableName() string {
	return "companies"
}

// BeforeCreate assigns the primary key.
func (m *CompanyModel) BeforeCreate(_ *gorm.DB) error {
	return assignID(&m.ID)
}

// IndividualModel mirrors the 'individuals' table. UserID references users.id.
type IndividualModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	FullName  string    `gorm:"type:varchar(200);not null"`
	Phone     string    `gorm:"type:varchar(30)"`
	Province  string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (IndividualModel) TableName() string {
	return "individuals"
}

// BeforeCreate assigns the primary key.
func (m *IndividualModel) BeforeCreate(_ *gorm.DB) error {
	return assignID(&m.ID)
}
