package staff

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
	RoleTrainer      Role = "trainer"
)

// Staff is a person who signs in to run the front desk or the gym.
type Staff struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"column:name;size:50;not null"`
	Email        string    `json:"email" gorm:"column:email;size:255;not null;uniqueIndex"`
	PhoneNumber  string    `json:"phoneNumber" gorm:"column:phone_number;size:10"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         Role      `json:"role" gorm:"column:role;size:20;not null;index"`
	CreatedAt    time.Time `json:"createdAt" gorm:"column:created_at"`
}

func (Staff) TableName() string {
	return "staff"
}

func (s *Staff) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
