package validator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtly/internal/pkg/apperr"
)

type sample struct {
	Phone string `json:"phoneNumber" validate:"required,phone10"`
	Start string `json:"startTime" validate:"required,hhmm"`
	Day   string `json:"startDate" validate:"required,calendardate"`
}

func TestValidate_ReportsJSONNames(t *testing.T) {
	errs := Validate(sample{Phone: "123", Start: "25:00", Day: "nope"})
	assert.Equal(t, map[string]string{
		"phoneNumber": "phone10",
		"startTime":   "hhmm",
		"startDate":   "calendardate",
	}, errs)

	assert.Nil(t, Validate(sample{Phone: "9876543210", Start: "6:30", Day: "2024-01-10"}))
}

func TestFirst_UsesMessageTable(t *testing.T) {
	messages := map[string]string{
		"phoneNumber.required": "Phone number is required",
		"phoneNumber.phone10":  "Phone number must be 10 digits",
		"startTime":            "Invalid time format, expected HH:mm",
	}

	err := First(sample{Phone: "12", Start: "18:00", Day: "2024-01-10"}, messages)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Equal(t, "Phone number must be 10 digits", err.Error())

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phoneNumber", verr.Field)

	err = First(sample{Phone: "9876543210", Start: "7pm", Day: "2024-01-10"}, messages)
	assert.EqualError(t, err, "Invalid time format, expected HH:mm")

	err = First(sample{Phone: "9876543210", Start: "18:00", Day: "x"}, messages)
	assert.EqualError(t, err, "startDate is invalid")
}

func TestParseCalendarDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)

	d, err := ParseCalendarDate("2024-01-10", ist)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, ist), d)

	// 20:00 UTC on the 9th is already the 10th in IST.
	d, err = ParseCalendarDate("2024-01-09T20:00:00Z", ist)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, ist), d)

	_, err = ParseCalendarDate("10/01/2024", ist)
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("18:05")
	require.NoError(t, err)
	assert.Equal(t, 18, h)
	assert.Equal(t, 5, m)

	h, m, err = ParseClock("6:30")
	require.NoError(t, err)
	assert.Equal(t, 6, h)
	assert.Equal(t, 30, m)

	_, _, err = ParseClock("24:00")
	assert.Error(t, err)
}

func TestIsPaymentMode(t *testing.T) {
	for _, m := range []string{"card", "upi", "cash"} {
		assert.True(t, IsPaymentMode(m), m)
	}
	assert.False(t, IsPaymentMode("cheque"))
	assert.False(t, IsPaymentMode("CARD"))
}
