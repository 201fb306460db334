package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryFilter narrows booking listings. From and To are calendar-day bounds;
// a booking matches when its period intersects [From, To).
type HistoryFilter struct {
	CourtID *uuid.UUID
	Status  Status
	From    *time.Time
	To      *time.Time
	Search  string
	Now     time.Time
	Offset  int
	Limit   int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	BookedSlots(ctx context.Context, courtID uuid.UUID, from, to time.Time) ([]Slot, error)
	AvailableSlots(ctx context.Context, courtID uuid.UUID) ([]Slot, error)
	Latest(ctx context.Context, f HistoryFilter) ([]Booking, int64, error)
	History(ctx context.Context, f HistoryFilter) ([]Booking, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("start_time ASC") }).
		Preload("Court").
		Preload("Customer").
		Where("id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) BookedSlots(ctx context.Context, courtID uuid.UUID, from, to time.Time) ([]Slot, error) {
	var slots []Slot
	err := r.db.WithContext(ctx).
		Preload("Court").
		Preload("Customer").
		Where("court_id = ? AND is_booked = ?", courtID, true).
		Where("start_date >= ? AND start_date < ?", from.UTC(), to.UTC()).
		Order("start_date ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *repository) AvailableSlots(ctx context.Context, courtID uuid.UUID) ([]Slot, error) {
	var slots []Slot
	err := r.db.WithContext(ctx).
		Where("court_id = ? AND is_booked = ?", courtID, false).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *repository) Latest(ctx context.Context, f HistoryFilter) ([]Booking, int64, error) {
	db := r.db.WithContext(ctx)

	// newest booking of each customer among those matching the period
	newest := db.Table("bookings AS nb").
		Select("MAX(nb.created_at)").
		Where("nb.user_id = bookings.user_id")
	if f.From != nil {
		newest = newest.Where("nb.end_date >= ?", f.From.UTC())
	}
	if f.To != nil {
		newest = newest.Where("nb.start_date < ?", f.To.UTC())
	}

	q := r.listQuery(db, f).Where("bookings.created_at = (?)", newest)
	return r.page(q, f, false)
}

func (r *repository) History(ctx context.Context, f HistoryFilter) ([]Booking, int64, error) {
	q := r.listQuery(r.db.WithContext(ctx), f)
	if f.CourtID != nil {
		q = q.Where("bookings.court_id = ?", *f.CourtID)
	}
	if f.Status != "" {
		q = q.Scopes(StatusScope(f.Status, f.Now))
	}
	return r.page(q, f, true)
}

func (r *repository) listQuery(db *gorm.DB, f HistoryFilter) *gorm.DB {
	q := db.Model(&Booking{}).
		Joins("JOIN customers ON customers.id = bookings.user_id").
		Joins("JOIN courts ON courts.id = bookings.court_id")
	if f.From != nil {
		q = q.Where("bookings.end_date >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("bookings.start_date < ?", f.To.UTC())
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where(
			"(LOWER(customers.first_name) LIKE LOWER(?) OR LOWER(customers.last_name) LIKE LOWER(?) OR customers.phone_number LIKE ? OR customers.whats_app_number LIKE ? OR LOWER(courts.court_name) LIKE LOWER(?))",
			like, like, like, like, like,
		)
	}
	return q
}

func (r *repository) page(q *gorm.DB, f HistoryFilter, withSlots bool) ([]Booking, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Select("bookings.*").Preload("Court").Preload("Customer")
	if withSlots {
		q = q.Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("start_time ASC") })
	}

	var out []Booking
	err := q.Order("bookings.created_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&out).Error
	return out, total, err
}

// FindOverlap returns the earliest booked slot of the court intersecting
// [start, end), or nil when the window is free.
func FindOverlap(tx *gorm.DB, courtID uuid.UUID, start, end time.Time) (*Slot, error) {
	var s Slot
	err := tx.Preload("Customer").
		Where("court_id = ? AND is_booked = ?", courtID, true).
		Where("start_time < ? AND end_time > ?", end.UTC(), start.UTC()).
		Order("start_time ASC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func lockBooking(tx *gorm.DB, id uuid.UUID) (*Booking, error) {
	var b Booking
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// releaseSlots frees every slot of the booking for rebooking.
func releaseSlots(tx *gorm.DB, bookingID uuid.UUID) (int64, error) {
	res := tx.Model(&Slot{}).
		Where("booking_id = ?", bookingID).
		Updates(map[string]any{"is_booked": false, "user_id": nil, "notes": nil})
	return res.RowsAffected, res.Error
}
