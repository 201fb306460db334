package booking

import (
	"time"

	"github.com/google/uuid"

	"courtly/internal/pkg/timefmt"
)

type CustomerView struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	PhoneNumber    string    `json:"phoneNumber"`
	WhatsAppNumber string    `json:"whatsAppNumber"`
}

type SlotView struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	IsBooked  bool      `json:"isBooked"`
}

// View is a booking rendered for the front desk: dates and clock times in
// the business zone and the status derived at render time.
type View struct {
	ID              uuid.UUID     `json:"id"`
	CourtID         uuid.UUID     `json:"courtId"`
	CourtName       string        `json:"courtName,omitempty"`
	UserID          uuid.UUID     `json:"userId"`
	User            *CustomerView `json:"user,omitempty"`
	StartDate       string        `json:"startDate"`
	EndDate         string        `json:"endDate"`
	StartTime       string        `json:"startTime"`
	EndTime         string        `json:"endTime"`
	IsMultiDay      bool          `json:"isMultiDay"`
	Notes           string        `json:"notes"`
	Amount          float64       `json:"amount"`
	IsGST           bool          `json:"isGst"`
	GST             float64       `json:"gst"`
	GSTNumber       string        `json:"gstNumber,omitempty"`
	ModeOfPayment   string        `json:"modeOfPayment"`
	Status          Status        `json:"status"`
	IsRenewal       bool          `json:"isRenewal"`
	ParentBookingID *uuid.UUID    `json:"parentBookingId,omitempty"`
	CancelledAt     *time.Time    `json:"cancelledAt,omitempty"`
	Slots           []SlotView    `json:"slots"`
	CreatedAt       time.Time     `json:"createdAt"`
}

func toView(b *Booking, now time.Time, loc *time.Location) View {
	v := View{
		ID:              b.ID,
		CourtID:         b.CourtID,
		UserID:          b.UserID,
		StartDate:       timefmt.Date(b.StartDate, loc),
		EndDate:         timefmt.Date(b.EndDate, loc),
		StartTime:       timefmt.Clock(b.StartTime, loc),
		EndTime:         timefmt.Clock(b.EndTime, loc),
		IsMultiDay:      b.IsMultiDay,
		Notes:           b.Notes,
		Amount:          b.Amount,
		IsGST:           b.IsGST,
		GST:             b.GST,
		GSTNumber:       b.GSTNumber,
		ModeOfPayment:   b.ModeOfPayment,
		Status:          DeriveStatus(b.Status, b.StartTime, b.EndTime, now),
		IsRenewal:       b.IsRenewal,
		ParentBookingID: b.ParentBookingID,
		CancelledAt:     b.CancelledAt,
		Slots:           make([]SlotView, 0, len(b.Slots)),
		CreatedAt:       b.CreatedAt,
	}
	if b.Court != nil {
		v.CourtName = b.Court.CourtName
	}
	if c := b.Customer; c != nil {
		v.User = &CustomerView{
			ID:             c.ID,
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			PhoneNumber:    c.PhoneNumber,
			WhatsAppNumber: c.WhatsAppNumber,
		}
	}
	for _, s := range b.Slots {
		v.Slots = append(v.Slots, SlotView{
			ID:        s.ID,
			Date:      timefmt.Date(s.StartDate, loc),
			StartTime: timefmt.Clock(s.StartTime, loc),
			EndTime:   timefmt.Clock(s.EndTime, loc),
			IsBooked:  s.IsBooked,
		})
	}
	return v
}

// BookedSlot is one row of the day board.
type BookedSlot struct {
	SlotID      uuid.UUID `json:"slotId"`
	Court       string    `json:"court"`
	BookedBy    string    `json:"bookedBy"`
	PhoneNumber string    `json:"phoneNumber"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Notes       string    `json:"notes"`
}

func toBookedSlot(s *Slot, loc *time.Location) BookedSlot {
	row := BookedSlot{
		SlotID:   s.ID,
		Court:    "Unknown Court",
		BookedBy: s.Customer.FullName(),
		Date:     timefmt.Date(s.StartDate, loc),
		Time:     timefmt.Range(s.StartTime, s.EndTime, loc),
	}
	if s.Court != nil {
		row.Court = s.Court.CourtName
	}
	if s.Customer != nil {
		row.PhoneNumber = s.Customer.PhoneNumber
	}
	if s.Notes != nil {
		row.Notes = *s.Notes
	}
	return row
}

// AvailableSlot is a released slot that can be offered again.
type AvailableSlot struct {
	SlotID    uuid.UUID `json:"slotId"`
	CourtID   uuid.UUID `json:"courtId"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

func toAvailableSlot(s *Slot, loc *time.Location) AvailableSlot {
	return AvailableSlot{
		SlotID:    s.ID,
		CourtID:   s.CourtID,
		Date:      timefmt.Date(s.StartDate, loc),
		Time:      timefmt.Range(s.StartTime, s.EndTime, loc),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
}

// overlapFrom describes the booked slot a request ran into.
func overlapFrom(s *Slot, loc *time.Location) *OverlapError {
	return &OverlapError{
		SlotID:   s.ID,
		Date:     timefmt.Date(s.StartTime, loc),
		Time:     timefmt.Range(s.StartTime, s.EndTime, loc),
		BookedBy: s.Customer.FullName(),
	}
}
