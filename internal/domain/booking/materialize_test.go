package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_OneWindowPerDay(t *testing.T) {
	start := time.Date(2024, 2, 27, 0, 0, 0, 0, ist)
	end := time.Date(2024, 3, 2, 0, 0, 0, 0, ist)

	windows, err := Expand(start, end, TimeRange{StartHour: 6, EndHour: 7, EndMinute: 30}, ist)
	require.NoError(t, err)
	require.Len(t, windows, 5)

	assert.Equal(t, 29, windows[2].Day.Day(), "leap day included")
	for i, w := range windows {
		day := start.AddDate(0, 0, i)
		assert.True(t, w.Day.Equal(day), "day %d", i)
		assert.True(t, w.Start.Equal(day.Add(6*time.Hour)), "start %d", i)
		assert.True(t, w.End.Equal(day.Add(7*time.Hour+30*time.Minute)), "end %d", i)
	}
}

func TestExpand_SingleDay(t *testing.T) {
	d := time.Date(2024, 1, 10, 0, 0, 0, 0, ist)

	windows, err := Expand(d, d, TimeRange{StartHour: 23, EndHour: 23, EndMinute: 59}, ist)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, 59*time.Minute, windows[0].End.Sub(windows[0].Start))
}

// Calendar dates resolve in the business zone whatever zone they arrive in.
func TestExpand_NormalizesToBusinessZone(t *testing.T) {
	// 18:30 UTC on the 9th is midnight of the 10th in IST
	d := time.Date(2024, 1, 9, 18, 30, 0, 0, time.UTC)

	windows, err := Expand(d, d, TimeRange{StartHour: 18, EndHour: 19}, ist)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.True(t, windows[0].Start.Equal(time.Date(2024, 1, 10, 18, 0, 0, 0, ist)))
}

func TestExpand_RejectsBadRanges(t *testing.T) {
	d := time.Date(2024, 1, 10, 0, 0, 0, 0, ist)

	_, err := Expand(d, d, TimeRange{StartHour: 19, EndHour: 18}, ist)
	assert.True(t, errors.Is(err, ErrInvalidRange))

	_, err = Expand(d, d, TimeRange{StartHour: 18, EndHour: 18}, ist)
	assert.True(t, errors.Is(err, ErrInvalidRange))

	_, err = Expand(d, d.AddDate(0, 0, -1), TimeRange{StartHour: 6, EndHour: 7}, ist)
	assert.True(t, errors.Is(err, ErrInvalidRange))
}
