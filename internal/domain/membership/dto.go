package membership

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"courtly/internal/pkg/apperr"
	"courtly/internal/pkg/timefmt"
	"courtly/internal/pkg/validator"
)

// RegisterRequest is the body of POST /gym/user.
type RegisterRequest struct {
	PhoneNumber        string   `json:"phoneNumber" validate:"required,phone10"`
	Name               string   `json:"name"`
	Address            string   `json:"address"`
	WhatsAppNumber     string   `json:"whatsAppNumber"`
	Notes              string   `json:"notes" validate:"max=300"`
	TrainerID          string   `json:"trainerId" validate:"required,uuid"`
	UserType           UserType `json:"userType" validate:"required,oneof=athlete non-athlete personal-trainer"`
	SubscriptionMonths *int     `json:"subscriptionMonths" validate:"omitempty,min=1,max=12"`
	StartDate          string   `json:"startDate" validate:"omitempty,calendardate"`
	Amount             *float64 `json:"amount" validate:"required,gte=0"`
	IsGST              bool     `json:"isGst"`
	GST                *float64 `json:"gst" validate:"omitempty,gte=0"`
	GSTNumber          string   `json:"gstNumber" validate:"max=20"`
	ModeOfPayment      string   `json:"modeOfPayment" validate:"required,paymentmode"`
}

var registerMessages = map[string]string{
	"phoneNumber":            "Valid phone number is required",
	"notes":                  "Notes too long (max 300 chars)",
	"trainerId.required":     "Trainer must be assigned",
	"trainerId":              "Invalid trainer ID",
	"userType":               "Invalid userType. Must be 'athlete' or 'non-athlete' or 'personal-trainer'",
	"subscriptionMonths":     "Subscription months must be between 1 and 12",
	"startDate":              "Invalid start date",
	"amount":                 "Valid amount is required",
	"gst":                    "GST must be a valid non-negative number",
	"gstNumber":              "GST number is required and max 20 chars",
	"modeOfPayment":          "Invalid payment mode",
	"modeOfPayment.required": "Invalid payment mode",
}

// RegisterCommand is a validated registration.
type RegisterCommand struct {
	PhoneNumber    string
	Name           string
	Address        string
	WhatsAppNumber string
	Notes          string
	TrainerID      uuid.UUID
	UserType       UserType
	Months         int
	Start          time.Time
	Amount         float64
	IsGST          bool
	GST            float64
	GSTNumber      string
	Payment        string
}

// Command validates the request. An empty start date means today in loc.
func (r RegisterRequest) Command(loc *time.Location, now time.Time) (RegisterCommand, error) {
	if err := validator.First(r, registerMessages); err != nil {
		return RegisterCommand{}, err
	}
	if r.IsGST {
		if r.GST == nil {
			return RegisterCommand{}, apperr.Validation("gst", registerMessages["gst"])
		}
		if strings.TrimSpace(r.GSTNumber) == "" {
			return RegisterCommand{}, apperr.Validation("gstNumber", registerMessages["gstNumber"])
		}
	}

	cmd := RegisterCommand{
		PhoneNumber:    r.PhoneNumber,
		Name:           strings.TrimSpace(r.Name),
		Address:        strings.TrimSpace(r.Address),
		WhatsAppNumber: strings.TrimSpace(r.WhatsAppNumber),
		Notes:          strings.TrimSpace(r.Notes),
		UserType:       r.UserType,
		Months:         1,
		Start:          timefmt.Midnight(now, loc),
		Amount:         *r.Amount,
		IsGST:          r.IsGST,
		Payment:        r.ModeOfPayment,
	}
	cmd.TrainerID, _ = uuid.Parse(r.TrainerID)
	if r.SubscriptionMonths != nil {
		cmd.Months = *r.SubscriptionMonths
	}
	if r.StartDate != "" {
		cmd.Start, _ = validator.ParseCalendarDate(r.StartDate, loc)
	}
	if r.IsGST {
		cmd.GST = *r.GST
		cmd.GSTNumber = strings.TrimSpace(r.GSTNumber)
	}
	return cmd, nil
}

// End is the last instant of the subscription period.
func (c RegisterCommand) End() time.Time {
	return c.Start.AddDate(0, c.Months, 0)
}
