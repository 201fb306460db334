package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
)

var testRules = Rules{Location: ist, MaxBookingDays: 30}

func TestBookSlotRequest_Command(t *testing.T) {
	courtID := uuid.New()
	req := bookRequest(courtID, "2024-01-10", "2024-01-12", "6:30", "08:00", "9876543210")
	req.Notes = "  coaching  "

	cmd, err := req.Command(testRules)
	require.NoError(t, err)
	assert.Equal(t, courtID, cmd.CourtID)
	assert.True(t, cmd.StartDate.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, ist)))
	assert.True(t, cmd.EndDate.Equal(time.Date(2024, 1, 12, 0, 0, 0, 0, ist)))
	assert.Equal(t, TimeRange{StartHour: 6, StartMinute: 30, EndHour: 8}, cmd.Daily)
	assert.Equal(t, "coaching", cmd.Notes)
	assert.Equal(t, 1200.0, cmd.Amount)
	assert.Equal(t, "upi", cmd.Payment)
	assert.Equal(t, "9876543210", cmd.Customer.PhoneNumber)
	assert.Equal(t, "Asha", cmd.Customer.FirstName)
	assert.Zero(t, cmd.GST)
}

func TestBookSlotRequest_ValidationMessages(t *testing.T) {
	base := func() BookSlotRequest {
		return bookRequest(uuid.New(), "2024-01-10", "2024-01-12", "18:00", "19:00", "9876543210")
	}

	tests := []struct {
		name   string
		mutate func(*BookSlotRequest)
		want   string
	}{
		{"missing court", func(r *BookSlotRequest) { r.CourtID = "" }, "Court ID is required"},
		{"bad court", func(r *BookSlotRequest) { r.CourtID = "court-1" }, "Invalid Court ID format"},
		{"missing date", func(r *BookSlotRequest) { r.EndDate = "" }, "Start and end date are required"},
		{"bad date", func(r *BookSlotRequest) { r.StartDate = "2024-02-30" }, "Invalid start or end date"},
		{"missing time", func(r *BookSlotRequest) { r.StartTime = "" }, "Start and end time are required"},
		{"bad time", func(r *BookSlotRequest) { r.EndTime = "7pm" }, "Invalid time format, expected HH:mm"},
		{"inverted dates", func(r *BookSlotRequest) { r.StartDate = "2024-01-13" }, "Start date must be before end date"},
		{"too long", func(r *BookSlotRequest) { r.EndDate = "2024-02-10" }, "Booking cannot exceed 30 days"},
		{"missing phone", func(r *BookSlotRequest) { r.PhoneNumber = "" }, "Phone number is required"},
		{"short phone", func(r *BookSlotRequest) { r.PhoneNumber = "98765" }, "Phone number must be 10 digits"},
		{"missing amount", func(r *BookSlotRequest) { r.Amount = nil }, "Amount is required"},
		{"negative amount", func(r *BookSlotRequest) { r.Amount = ptr(-1.0) }, "Amount must be a positive number"},
		{"gst without amount", func(r *BookSlotRequest) { r.IsGST = true; r.GSTNumber = "29AB" }, "GST must be a valid non-negative number"},
		{"gst without number", func(r *BookSlotRequest) { r.IsGST = true; r.GST = ptr(18.0) }, "GST Number is required and max 20 chars"},
		{"missing mode", func(r *BookSlotRequest) { r.ModeOfPayment = "" }, "Payment mode is required"},
		{"bad mode", func(r *BookSlotRequest) { r.ModeOfPayment = "cheque" }, "Invalid payment mode, must be card, upi, or cash"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(&req)
			_, err := req.Command(testRules)
			assert.EqualError(t, err, tt.want)
		})
	}
}

// Cross-field rules on the dates outrank tag failures on later fields.
func TestBookSlotRequest_ReportsEarliestField(t *testing.T) {
	req := bookRequest(uuid.New(), "2024-01-13", "2024-01-12", "18:00", "19:00", "123")
	req.ModeOfPayment = "cheque"

	_, err := req.Command(testRules)
	assert.EqualError(t, err, "Start date must be before end date")

	req.StartDate = "2024-01-10"
	_, err = req.Command(testRules)
	assert.EqualError(t, err, "Phone number must be 10 digits")
}

func TestBookSlotRequest_ExactlyMaxDays(t *testing.T) {
	req := bookRequest(uuid.New(), "2024-01-01", "2024-01-31", "18:00", "19:00", "9876543210")
	_, err := req.Command(testRules)
	require.NoError(t, err)
}

func TestRenewSlotRequest_NeedsNoCustomer(t *testing.T) {
	req := RenewSlotRequest{
		ScheduleFields: ScheduleFields{
			CourtID:   uuid.NewString(),
			StartDate: "2024-01-10",
			EndDate:   "2024-01-10",
			StartTime: "18:00",
			EndTime:   "19:00",
		},
		PaymentFields: PaymentFields{Amount: ptr(0.0), ModeOfPayment: "card", IsGST: true, GST: ptr(0.0), GSTNumber: " 29ABCDE1234F1Z5 "},
	}

	cmd, err := req.Command(testRules)
	require.NoError(t, err)
	assert.Empty(t, cmd.Customer.PhoneNumber)
	assert.Equal(t, "29ABCDE1234F1Z5", cmd.GSTNumber)
	assert.True(t, cmd.IsGST)
}
