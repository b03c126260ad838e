package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Route is a registered delivery route that monitors can reference by
// route_id instead of re-sending origin/destination each time.
type Route struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RouteID             string    `gorm:"uniqueIndex;not null" json:"route_id"`
	Origin              string    `gorm:"not null" json:"origin"`
	Destination         string    `gorm:"not null" json:"destination"`
	BaselineTimeMinutes int       `gorm:"not null" json:"baseline_time_minutes"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (r *Route) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
