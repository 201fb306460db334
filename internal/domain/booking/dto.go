package booking

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"courtly/internal/domain/customer"
	"courtly/internal/pkg/apperr"
	"courtly/internal/pkg/validator"
)

// ScheduleFields is the court and period part of a booking request.
type ScheduleFields struct {
	CourtID   string `json:"courtId" validate:"required,uuid"`
	StartDate string `json:"startDate" validate:"required,calendardate"`
	EndDate   string `json:"endDate" validate:"required,calendardate"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
}

// PaymentFields is the billing part of a booking request.
type PaymentFields struct {
	Notes         string   `json:"notes" validate:"max=300"`
	Amount        *float64 `json:"amount" validate:"required,gte=0"`
	IsGST         bool     `json:"isGst"`
	GST           *float64 `json:"gst" validate:"omitempty,gte=0"`
	GSTNumber     string   `json:"gstNumber" validate:"max=20"`
	ModeOfPayment string   `json:"modeOfPayment" validate:"required,paymentmode"`
}

// BookSlotRequest is the body of POST /slot/book.
type BookSlotRequest struct {
	ScheduleFields
	PhoneNumber    string `json:"phoneNumber" validate:"required,phone10"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	WhatsAppNumber string `json:"whatsAppNumber"`
	Address        string `json:"address"`
	PaymentFields
}

// RenewSlotRequest is the body of POST /slot/renew/:bookingId. The customer
// comes from the original booking.
type RenewSlotRequest struct {
	ScheduleFields
	PaymentFields
}

var requestMessages = map[string]string{
	"courtId.required":       "Court ID is required",
	"courtId.uuid":           "Invalid Court ID format",
	"startDate.required":     "Start and end date are required",
	"endDate.required":       "Start and end date are required",
	"startDate.calendardate": "Invalid start or end date",
	"endDate.calendardate":   "Invalid start or end date",
	"startTime.required":     "Start and end time are required",
	"endTime.required":       "Start and end time are required",
	"startTime.hhmm":         "Invalid time format, expected HH:mm",
	"endTime.hhmm":           "Invalid time format, expected HH:mm",
	"phoneNumber.required":   "Phone number is required",
	"phoneNumber.phone10":    "Phone number must be 10 digits",
	"notes":                  "Notes too long (max 300 chars)",
	"amount.required":        "Amount is required",
	"amount.gte":             "Amount must be a positive number",
	"gst":                    "GST must be a valid non-negative number",
	"gstNumber":              "GST Number is required and max 20 chars",
	"modeOfPayment.required": "Payment mode is required",
	"modeOfPayment":          "Invalid payment mode, must be card, upi, or cash",
}

// fieldOrder is the order in which request problems are reported.
var fieldOrder = []string{
	"courtId", "startDate", "endDate", "startTime", "endTime",
	"phoneNumber", "notes", "amount", "gst", "gstNumber", "modeOfPayment",
}

func rank(field string) int {
	for i, f := range fieldOrder {
		if f == field {
			return i
		}
	}
	return len(fieldOrder)
}

// Rules are the boundary limits applied when a request becomes a Command.
type Rules struct {
	Location       *time.Location
	MaxBookingDays int
}

// Command is a validated booking or renewal.
type Command struct {
	CourtID   uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Daily     TimeRange
	Customer  customer.Input
	Notes     string
	Amount    float64
	IsGST     bool
	GST       float64
	GSTNumber string
	Payment   string
}

func (r BookSlotRequest) Command(rules Rules) (Command, error) {
	cmd, err := buildCommand(r, r.ScheduleFields, r.PaymentFields, rules)
	if err != nil {
		return Command{}, err
	}
	cmd.Customer = customer.Input{
		PhoneNumber:    r.PhoneNumber,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		WhatsAppNumber: r.WhatsAppNumber,
		Address:        r.Address,
	}
	return cmd, nil
}

func (r RenewSlotRequest) Command(rules Rules) (Command, error) {
	return buildCommand(r, r.ScheduleFields, r.PaymentFields, rules)
}

// buildCommand validates req once and reports the earliest problem in field
// order, whether it came from a tag or a cross-field rule.
func buildCommand(req any, s ScheduleFields, p PaymentFields, rules Rules) (Command, error) {
	first := validator.First(req, requestMessages)

	best, bestRank := first, len(fieldOrder)
	var verr *apperr.ValidationError
	if errors.As(first, &verr) {
		bestRank = rank(verr.Field)
	}
	consider := func(field string, err error) {
		if r := rank(field); r < bestRank {
			best, bestRank = err, r
		}
	}

	var start, end time.Time
	if bestRank > rank("endDate") {
		start, _ = validator.ParseCalendarDate(s.StartDate, rules.Location)
		end, _ = validator.ParseCalendarDate(s.EndDate, rules.Location)
		if start.After(end) {
			consider("endDate", apperr.Validation("endDate", "Start date must be before end date"))
		} else if days := calendarDays(start, end); days > rules.MaxBookingDays {
			consider("endDate", apperr.Validation("endDate", "Booking cannot exceed "+strconv.Itoa(rules.MaxBookingDays)+" days"))
		}
	}
	if p.IsGST {
		if p.GST == nil {
			consider("gst", apperr.Validation("gst", requestMessages["gst"]))
		}
		if strings.TrimSpace(p.GSTNumber) == "" {
			consider("gstNumber", apperr.Validation("gstNumber", requestMessages["gstNumber"]))
		}
	}
	if best != nil {
		return Command{}, best
	}

	courtID, _ := uuid.Parse(s.CourtID)
	sh, sm, _ := validator.ParseClock(s.StartTime)
	eh, em, _ := validator.ParseClock(s.EndTime)

	cmd := Command{
		CourtID:   courtID,
		StartDate: start,
		EndDate:   end,
		Daily:     TimeRange{StartHour: sh, StartMinute: sm, EndHour: eh, EndMinute: em},
		Notes:     strings.TrimSpace(p.Notes),
		Amount:    *p.Amount,
		IsGST:     p.IsGST,
		Payment:   p.ModeOfPayment,
	}
	if p.IsGST {
		cmd.GST = *p.GST
		cmd.GSTNumber = strings.TrimSpace(p.GSTNumber)
	}
	return cmd, nil
}

func calendarDays(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Hours() / 24))
}
