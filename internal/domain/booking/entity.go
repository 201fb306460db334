package booking

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"courtly/internal/domain/court"
	"courtly/internal/domain/customer"
)

// Slot is one day's reservation window on a court. Released slots keep their
// row with IsBooked false.
type Slot struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	CourtID    uuid.UUID  `json:"courtId" gorm:"column:court_id;type:uuid;not null;index:idx_slot_court_day,priority:1;uniqueIndex:idx_slot_no_double_booking,priority:1,where:is_booked = true"`
	BookingID  uuid.UUID  `json:"bookingId" gorm:"column:booking_id;type:uuid;not null;index"`
	StartDate  time.Time  `json:"startDate" gorm:"column:start_date;not null;index:idx_slot_court_day,priority:2"`
	EndDate    time.Time  `json:"endDate" gorm:"column:end_date;not null"`
	StartTime  time.Time  `json:"startTime" gorm:"column:start_time;not null;uniqueIndex:idx_slot_no_double_booking,priority:2,where:is_booked = true"`
	EndTime    time.Time  `json:"endTime" gorm:"column:end_time;not null;uniqueIndex:idx_slot_no_double_booking,priority:3,where:is_booked = true"`
	IsMultiDay bool       `json:"isMultiDay" gorm:"column:is_multi_day;not null;default:false"`
	IsBooked   bool       `json:"isBooked" gorm:"column:is_booked;not null;default:false"`
	UserID     *uuid.UUID `json:"userId,omitempty" gorm:"column:user_id;type:uuid"`
	Notes      *string    `json:"notes,omitempty" gorm:"column:notes;size:300"`
	CreatedAt  time.Time  `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`

	Court    *court.Court       `json:"-" gorm:"foreignKey:CourtID"`
	Customer *customer.Customer `json:"-" gorm:"foreignKey:UserID"`
}

func (Slot) TableName() string {
	return "slots"
}

func (s *Slot) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.StartDate, s.EndDate = s.StartDate.UTC(), s.EndDate.UTC()
	s.StartTime, s.EndTime = s.StartTime.UTC(), s.EndTime.UTC()
	return nil
}

// Booking is a reservation of one daily time window across a run of calendar days.
type Booking struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	CourtID         uuid.UUID  `json:"courtId" gorm:"column:court_id;type:uuid;not null;index"`
	UserID          uuid.UUID  `json:"userId" gorm:"column:user_id;type:uuid;not null;index:idx_booking_user_created,priority:1"`
	StartDate       time.Time  `json:"startDate" gorm:"column:start_date;not null"`
	EndDate         time.Time  `json:"endDate" gorm:"column:end_date;not null"`
	StartTime       time.Time  `json:"startTime" gorm:"column:start_time;not null;index:idx_booking_status_window,priority:2"`
	EndTime         time.Time  `json:"endTime" gorm:"column:end_time;not null;index:idx_booking_status_window,priority:3"`
	IsMultiDay      bool       `json:"isMultiDay" gorm:"column:is_multi_day;not null;default:false"`
	Notes           string     `json:"notes,omitempty" gorm:"column:notes;size:300"`
	Amount          float64    `json:"amount" gorm:"column:amount;not null"`
	IsGST           bool       `json:"isGst" gorm:"column:is_gst;not null;default:false"`
	GST             float64    `json:"gst" gorm:"column:gst;not null;default:0"`
	GSTNumber       string     `json:"gstNumber,omitempty" gorm:"column:gst_number;size:20"`
	ModeOfPayment   string     `json:"modeOfPayment" gorm:"column:mode_of_payment;size:10;not null"`
	Status          Status     `json:"status" gorm:"column:status;size:20;not null;default:upcoming;index:idx_booking_status_window,priority:1"`
	IsRenewal       bool       `json:"isRenewal" gorm:"column:is_renewal;not null;default:false"`
	ParentBookingID *uuid.UUID `json:"parentBookingId,omitempty" gorm:"column:parent_booking_id;type:uuid;index"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty" gorm:"column:cancelled_at"`
	CreatedAt       time.Time  `json:"createdAt" gorm:"column:created_at;autoCreateTime;index:idx_booking_user_created,priority:2"`
	UpdatedAt       time.Time  `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`

	Slots    []Slot             `json:"-" gorm:"foreignKey:BookingID"`
	Court    *court.Court       `json:"-" gorm:"foreignKey:CourtID"`
	Customer *customer.Customer `json:"-" gorm:"foreignKey:UserID"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = StatusUpcoming
	}
	b.StartDate, b.EndDate = b.StartDate.UTC(), b.EndDate.UTC()
	b.StartTime, b.EndTime = b.StartTime.UTC(), b.EndTime.UTC()
	return nil
}

// Models lists the tables owned by this package, in migration order.
func Models() []any {
	return []any{&Booking{}, &Slot{}}
}
