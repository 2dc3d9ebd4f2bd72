package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Project is a sustainability project that receives routed investments.
// TotalInvested is a running sum of its investments and can be rebuilt from them.
type Project struct {
	ID            uuid.UUID        `json:"id"`
	SDGID         int              `json:"sdg_id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Location      string           `json:"location"`
	Latitude      *float64         `json:"latitude,omitempty"`
	Longitude     *float64         `json:"longitude,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
	TargetAmount  decimal.Decimal  `json:"target_amount"`
	TotalInvested decimal.Decimal  `json:"total_invested"`
	Updates       []*ProjectUpdate `json:"updates,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// HasLocation reports whether the project can be placed on a map.
func (p *Project) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// ProjectUpdate is a progress post attached to a project.
type ProjectUpdate struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	MediaURLs []string  `json:"media_urls"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayInvestment is the amount an admin chose to show publicly for a project.
type DisplayInvestment struct {
	ProjectID uuid.UUID       `json:"project_id"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedBy uuid.UUID       `json:"updated_by"`
	UpdatedAt time.Time       `json:"updated_at"`
}
