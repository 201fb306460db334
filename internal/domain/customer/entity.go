package customer

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is the person a court is booked for, keyed by phone number.
type Customer struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FirstName      string    `json:"firstName" gorm:"column:first_name;size:50"`
	LastName       string    `json:"lastName" gorm:"column:last_name;size:50"`
	PhoneNumber    string    `json:"phoneNumber" gorm:"column:phone_number;size:10;not null;uniqueIndex"`
	WhatsAppNumber string    `json:"whatsAppNumber" gorm:"column:whats_app_number;size:10"`
	Address        string    `json:"address" gorm:"column:address;size:200"`
	CreatedAt      time.Time `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// FullName is "First Last" trimmed, or "Unknown" when both are blank.
func (c *Customer) FullName() string {
	if c == nil {
		return "Unknown"
	}
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name == "" {
		return "Unknown"
	}
	return name
}
