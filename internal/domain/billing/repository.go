package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"courtly/internal/domain/customer"
)

// Filter narrows payment history. From and To bound the booking start date, inclusive.
type Filter struct {
	CourtID *uuid.UUID
	Search  string
	From    *time.Time
	To      *time.Time
	Offset  int
	Limit   int
}

// historyRow is a billing joined with its court, customer and booking.
type historyRow struct {
	Billing
	CourtName        string    `gorm:"column:court_name"`
	FirstName        string    `gorm:"column:first_name"`
	LastName         string    `gorm:"column:last_name"`
	PhoneNumber      string    `gorm:"column:phone_number"`
	WhatsAppNumber   string    `gorm:"column:whats_app_number"`
	BookingStartDate time.Time `gorm:"column:booking_start_date"`
	BookingEndDate   time.Time `gorm:"column:booking_end_date"`
	BookingStartTime time.Time `gorm:"column:booking_start_time"`
	BookingEndTime   time.Time `gorm:"column:booking_end_time"`
	BookingStatus    string    `gorm:"column:booking_status"`
	IsRenewal        bool      `gorm:"column:is_renewal"`
}

type Repository interface {
	History(ctx context.Context, f Filter) ([]historyRow, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) History(ctx context.Context, f Filter) ([]historyRow, int64, error) {
	db := r.db.WithContext(ctx)
	q := db.Table("billings bl").
		Joins("JOIN bookings b ON b.id = bl.booking_id").
		Joins("JOIN courts c ON c.id = bl.court_id").
		Joins("JOIN customers u ON u.id = bl.user_id")

	if f.CourtID != nil {
		q = q.Where("bl.court_id = ?", *f.CourtID)
	}
	if f.From != nil {
		q = q.Where("b.start_date >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("b.start_date < ?", f.To.UTC())
	}
	if f.Search != "" {
		q = q.Where("bl.user_id IN (?)", customer.MatchingIDs(db, f.Search))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []historyRow
	err := q.Select(`bl.*,
		c.court_name AS court_name,
		u.first_name AS first_name, u.last_name AS last_name,
		u.phone_number AS phone_number, u.whats_app_number AS whats_app_number,
		b.start_date AS booking_start_date, b.end_date AS booking_end_date,
		b.start_time AS booking_start_time, b.end_time AS booking_end_time,
		b.status AS booking_status, b.is_renewal AS is_renewal`).
		Order("bl.created_at DESC").
		Offset(f.Offset).Limit(f.Limit).
		Scan(&rows).Error
	return rows, total, err
}
