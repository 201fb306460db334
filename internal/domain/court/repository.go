package court

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines persistence for courts and the booking figures reported per court.
type Repository interface {
	Create(ctx context.Context, c *Court) error
	List(ctx context.Context) ([]Court, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Court, error)
	Update(ctx context.Context, c *Court) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountBookings(ctx context.Context, id uuid.UUID) (int64, error)
	BookingTotals(ctx context.Context) (*Totals, error)
	BookingActivitySince(ctx context.Context, since time.Time) ([]ActivityRow, error)
}

type Totals struct {
	TotalBookings     int64   `gorm:"column:total_bookings"`
	CancelledBookings int64   `gorm:"column:cancelled_bookings"`
	TotalRevenue      float64 `gorm:"column:total_revenue"`
}

// ActivityRow is one booking with the amount billed for it.
type ActivityRow struct {
	CreatedAt time.Time `gorm:"column:created_at"`
	Amount    float64   `gorm:"column:amount"`
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Court) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) List(ctx context.Context) ([]Court, error) {
	var courts []Court
	err := r.db.WithContext(ctx).Order("court_name ASC").Find(&courts).Error
	return courts, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Court, error) {
	var c Court
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) Update(ctx context.Context, c *Court) error {
	return r.db.WithContext(ctx).Model(&Court{}).Where("id = ?", c.ID).Updates(map[string]any{
		"court_name":  c.CourtName,
		"surface":     c.Surface,
		"total_slots": c.TotalSlots,
		"updated_at":  time.Now().UTC(),
	}).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Court{}).Error
}

func (r *repository) CountBookings(ctx context.Context, id uuid.UUID) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Table("bookings").Where("court_id = ?", id).Count(&cnt).Error
	return cnt, err
}

func (r *repository) BookingTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	err := r.db.WithContext(ctx).Raw(`
SELECT
  (SELECT COUNT(1) FROM bookings) AS total_bookings,
  (SELECT COUNT(1) FROM bookings WHERE status = 'cancelled') AS cancelled_bookings,
  (SELECT COALESCE(SUM(bl.amount), 0) FROM billings bl JOIN bookings b ON b.id = bl.booking_id) AS total_revenue
`).Scan(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) BookingActivitySince(ctx context.Context, since time.Time) ([]ActivityRow, error) {
	var rows []ActivityRow
	err := r.db.WithContext(ctx).
		Table("bookings b").
		Select("b.created_at AS created_at, COALESCE(bl.amount, 0) AS amount").
		Joins("LEFT JOIN billings bl ON bl.booking_id = b.id").
		Where("b.created_at >= ?", since.UTC()).
		Order("b.created_at ASC").
		Scan(&rows).Error
	return rows, err
}

// LockForUpdate loads the court inside tx and holds its row lock until the
// transaction ends, serialising concurrent bookings of the same court.
func LockForUpdate(tx *gorm.DB, id uuid.UUID) (*Court, error) {
	var c Court
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}
