package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Billing is the payment record of one booking. Rows are written once and never updated.
type Billing struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BookingID     uuid.UUID `json:"bookingId" gorm:"column:booking_id;type:uuid;not null;index:idx_billing_booking"`
	CourtID       uuid.UUID `json:"courtId" gorm:"column:court_id;type:uuid;not null;index:idx_billing_court_created,priority:1"`
	UserID        uuid.UUID `json:"userId" gorm:"column:user_id;type:uuid;not null;index:idx_billing_user_created,priority:1"`
	Amount        float64   `json:"amount" gorm:"column:amount;not null"`
	IsGST         bool      `json:"isGst" gorm:"column:is_gst;not null;default:false"`
	GST           float64   `json:"gst" gorm:"column:gst;not null;default:0"`
	GSTNumber     string    `json:"gstNumber,omitempty" gorm:"column:gst_number;size:20"`
	ModeOfPayment string    `json:"modeOfPayment" gorm:"column:mode_of_payment;size:10;not null"`
	Notes         string    `json:"notes,omitempty" gorm:"column:notes;size:300"`
	CreatedAt     time.Time `json:"createdAt" gorm:"column:created_at;autoCreateTime;index:idx_billing_court_created,priority:2;index:idx_billing_user_created,priority:2"`
}

func (Billing) TableName() string {
	return "billings"
}

func (b *Billing) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Recorder persists billing rows inside the caller's transaction.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Record(tx *gorm.DB, b *Billing) error {
	return tx.Create(b).Error
}
