package booking

import (
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

var Statuses = []Status{StatusUpcoming, StatusActive, StatusExpired, StatusCancelled}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether a booking in s can no longer be cancelled.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusExpired
}

// DeriveStatus is the status a booking holds at now. Cancelled is sticky;
// otherwise the stored start and end timestamps decide.
func DeriveStatus(current Status, start, end, now time.Time) Status {
	switch {
	case current == StatusCancelled:
		return StatusCancelled
	case now.Before(start):
		return StatusUpcoming
	case !now.After(end):
		return StatusActive
	default:
		return StatusExpired
	}
}

// StatusScope selects bookings whose derived status at now is s. The
// predicates agree with DeriveStatus row for row.
func StatusScope(s Status, now time.Time) func(*gorm.DB) *gorm.DB {
	now = now.UTC()
	return func(db *gorm.DB) *gorm.DB {
		switch s {
		case StatusCancelled:
			return db.Where("bookings.status = ?", StatusCancelled)
		case StatusUpcoming:
			return db.Where("bookings.status <> ? AND bookings.start_time > ?", StatusCancelled, now)
		case StatusActive:
			return db.Where("bookings.status <> ? AND bookings.start_time <= ? AND bookings.end_time >= ?", StatusCancelled, now, now)
		case StatusExpired:
			return db.Where("bookings.status <> ? AND bookings.end_time < ?", StatusCancelled, now)
		default:
			return db.Where("1 = 0")
		}
	}
}
