package membership

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"courtly/internal/domain/staff"
)

type UserType string

const (
	UserTypeAthlete         UserType = "athlete"
	UserTypeNonAthlete      UserType = "non-athlete"
	UserTypePersonalTrainer UserType = "personal-trainer"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Member is a gym customer with their current subscription.
type Member struct {
	ID                 uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	Name               string       `json:"name" gorm:"column:name;size:50;not null"`
	Address            string       `json:"address" gorm:"column:address;size:200;not null"`
	PhoneNumber        string       `json:"phoneNumber" gorm:"column:phone_number;size:10;not null;uniqueIndex"`
	WhatsAppNumber     string       `json:"whatsAppNumber" gorm:"column:whats_app_number;size:10;not null"`
	Notes              string       `json:"notes,omitempty" gorm:"column:notes;size:300"`
	TrainerID          uuid.UUID    `json:"trainerId" gorm:"column:trainer_id;type:uuid;not null;index"`
	Trainer            *staff.Staff `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
	UserType           UserType     `json:"userType" gorm:"column:user_type;size:20;not null;default:non-athlete"`
	SubscriptionStart  time.Time    `json:"subscriptionStart" gorm:"column:subscription_start;not null"`
	SubscriptionEnd    time.Time    `json:"subscriptionEnd" gorm:"column:subscription_end;not null;index"`
	SubscriptionMonths int          `json:"subscriptionMonths" gorm:"column:subscription_months;not null"`
	SubscriptionStatus Status       `json:"subscriptionStatus" gorm:"column:subscription_status;size:10;not null;default:active"`
	CreatedAt          time.Time    `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt          time.Time    `json:"updatedAt" gorm:"column:updated_at"`
}

func (Member) TableName() string {
	return "gym_members"
}

func (m *Member) BeforeSave(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.SubscriptionStart, m.SubscriptionEnd = m.SubscriptionStart.UTC(), m.SubscriptionEnd.UTC()
	return nil
}

// GymBilling is the payment for one subscription period. Rows are never updated.
type GymBilling struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	MemberID           uuid.UUID `json:"memberId" gorm:"column:member_id;type:uuid;not null;index:idx_gym_billing_member_created,priority:1"`
	Amount             float64   `json:"amount" gorm:"column:amount;not null"`
	IsGST              bool      `json:"isGst" gorm:"column:is_gst;not null;default:false"`
	GST                float64   `json:"gst" gorm:"column:gst;not null;default:0"`
	GSTNumber          string    `json:"gstNumber,omitempty" gorm:"column:gst_number;size:20"`
	SubscriptionMonths int       `json:"subscriptionMonths" gorm:"column:subscription_months;not null"`
	SubscriptionStart  time.Time `json:"subscriptionStart" gorm:"column:subscription_start;not null"`
	SubscriptionEnd    time.Time `json:"subscriptionEnd" gorm:"column:subscription_end;not null"`
	ModeOfPayment      string    `json:"modeOfPayment" gorm:"column:mode_of_payment;size:10;not null"`
	Notes              string    `json:"notes,omitempty" gorm:"column:notes;size:300"`
	CreatedAt          time.Time `json:"createdAt" gorm:"column:created_at;index:idx_gym_billing_member_created,priority:2"`
}

func (GymBilling) TableName() string {
	return "gym_billings"
}

func (b *GymBilling) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.SubscriptionStart, b.SubscriptionEnd = b.SubscriptionStart.UTC(), b.SubscriptionEnd.UTC()
	return nil
}

func Models() []any {
	return []any{&Member{}, &GymBilling{}}
}

// DeriveStatus is the subscription status at now: expired once the end has passed.
func DeriveStatus(end, now time.Time) Status {
	if end.Before(now) {
		return StatusExpired
	}
	return StatusActive
}

// StatusScope selects members whose derived status at now is s.
func StatusScope(s Status, now time.Time) func(*gorm.DB) *gorm.DB {
	now = now.UTC()
	return func(db *gorm.DB) *gorm.DB {
		switch s {
		case StatusExpired:
			return db.Where("gym_members.subscription_end < ?", now)
		case StatusActive:
			return db.Where("gym_members.subscription_end >= ?", now)
		default:
			return db.Where("1 = 0")
		}
	}
}
