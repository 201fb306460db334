// Package timefmt renders timestamps the way the front desk reads them
// (en-IN style, 12-hour clock) in the business time zone.
package timefmt

import "time"

const (
	dateLayout     = "Mon, 2 Jan 2006"
	longDateLayout = "Monday, 2 Jan 2006"
	clockLayout    = "03:04 pm"
)

func Date(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

func LongDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(longDateLayout)
}

func Clock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(clockLayout)
}

// Range renders "06:00 pm - 07:00 pm".
func Range(start, end time.Time, loc *time.Location) string {
	return Clock(start, loc) + " - " + Clock(end, loc)
}

// Midnight returns the start of t's calendar day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayBounds returns the half-open [start, end) of t's calendar day in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := Midnight(t, loc)
	return start, start.AddDate(0, 0, 1)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return Midnight(a, loc).Equal(Midnight(b, loc))
}

// At places hour:minute on d's calendar day in loc.
func At(d time.Time, hour, minute int, loc *time.Location) time.Time {
	d = d.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
}
