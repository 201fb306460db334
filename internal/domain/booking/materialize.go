package booking

import (
	"time"

	"courtly/internal/pkg/timefmt"
)

// TimeRange is the wall-clock window booked on every day of a booking.
type TimeRange struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// SlotWindow is one calendar day of a booking with its absolute start and end.
type SlotWindow struct {
	Day   time.Time
	Start time.Time
	End   time.Time
}

// Expand yields one window per calendar day in [startDate, endDate], both
// inclusive, placing daily on each day in loc.
func Expand(startDate, endDate time.Time, daily TimeRange, loc *time.Location) ([]SlotWindow, error) {
	first := timefmt.Midnight(startDate, loc)
	last := timefmt.Midnight(endDate, loc)

	var out []SlotWindow
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		w := SlotWindow{
			Day:   d,
			Start: timefmt.At(d, daily.StartHour, daily.StartMinute, loc),
			End:   timefmt.At(d, daily.EndHour, daily.EndMinute, loc),
		}
		if err := checkRange(w.Start, w.End); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, &InvalidRangeError{Start: first, End: last}
	}
	return out, nil
}
