package court

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultSurface = "grass"

// Court is a bookable resource.
type Court struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CourtName  string    `json:"courtName" gorm:"column:court_name;size:100;not null;uniqueIndex"`
	Surface    string    `json:"surface" gorm:"column:surface;size:50;not null;default:grass"`
	TotalSlots int       `json:"totalSlots" gorm:"column:total_slots;not null"`
	CreatedAt  time.Time `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`
}

func (Court) TableName() string {
	return "courts"
}

func (c *Court) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Surface == "" {
		c.Surface = DefaultSurface
	}
	return nil
}
