package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	start := time.Date(2024, 1, 10, 18, 0, 0, 0, ist)
	end := time.Date(2024, 1, 12, 19, 0, 0, 0, ist)

	tests := []struct {
		name    string
		current Status
		now     time.Time
		want    Status
	}{
		{"before start", StatusUpcoming, start.Add(-time.Minute), StatusUpcoming},
		{"at start", StatusUpcoming, start, StatusActive},
		{"between days", StatusUpcoming, time.Date(2024, 1, 11, 3, 0, 0, 0, ist), StatusActive},
		{"at end", StatusActive, end, StatusActive},
		{"after end", StatusActive, end.Add(time.Second), StatusExpired},
		{"stale stored expired before start", StatusExpired, start.Add(-time.Hour), StatusUpcoming},
		{"empty stored status", "", end.Add(time.Hour), StatusExpired},
		{"cancelled stays cancelled", StatusCancelled, start.Add(-time.Hour), StatusCancelled},
		{"cancelled after end", StatusCancelled, end.Add(time.Hour), StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.current, start, end, tt.now))
		})
	}
}

func TestStatus_ValidAndTerminal(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("pending").Valid())

	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusExpired.Terminal())
	assert.False(t, StatusUpcoming.Terminal())
	assert.False(t, StatusActive.Terminal())
}

// Every stored row must land in exactly the bucket DeriveStatus puts it in.
func TestStatusScope_AgreesWithDeriveStatus(t *testing.T) {
	f := setupFixture(t)

	f.book(t, "2024-01-02", "2024-01-02", "18:00", "19:00", "9876543210")
	f.book(t, "2024-01-05", "2024-01-06", "18:00", "19:00", "9876543210")
	f.book(t, "2024-01-06", "2024-01-06", "07:00", "08:00", "9876543210")
	f.book(t, "2024-01-09", "2024-01-09", "18:00", "19:00", "9876543210")
	cancelled := f.book(t, "2024-01-10", "2024-01-10", "18:00", "19:00", "9876543210")
	_, err := f.svc.Cancel(t.Context(), cancelled.ID)
	require.NoError(t, err)

	var rows []Booking
	require.NoError(t, f.db.Find(&rows).Error)

	for _, now := range []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, ist),
		time.Date(2024, 1, 2, 18, 0, 0, 0, ist),
		time.Date(2024, 1, 2, 19, 0, 0, 0, ist),
		time.Date(2024, 1, 6, 7, 30, 0, 0, ist),
		time.Date(2024, 2, 1, 0, 0, 0, 0, ist),
	} {
		want := map[Status]int{}
		for _, b := range rows {
			want[DeriveStatus(b.Status, b.StartTime, b.EndTime, now)]++
		}
		for _, s := range Statuses {
			var n int64
			require.NoError(t, f.db.Model(&Booking{}).Scopes(StatusScope(s, now)).Count(&n).Error)
			assert.Equal(t, int64(want[s]), n, "%s at %s", s, now)
		}
	}

	var none int64
	require.NoError(t, f.db.Model(&Booking{}).Scopes(StatusScope("bogus", time.Now())).Count(&none).Error)
	assert.Zero(t, none)
}
