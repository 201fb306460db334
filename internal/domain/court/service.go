package court

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"courtly/internal/database"
	"courtly/internal/pkg/apperr"
	"courtly/internal/pkg/validator"
)

// statisticsMonths is the trailing window of the monthly charts.
const statisticsMonths = 12

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location) *Service {
	return &Service{repo: repo, loc: loc, now: time.Now}
}

// WithClock replaces the wall clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, req CreateCourtRequest) (*Court, error) {
	req.CourtName = strings.TrimSpace(req.CourtName)
	req.Surface = strings.TrimSpace(req.Surface)
	if err := validator.First(req, createMessages); err != nil {
		return nil, err
	}

	c := &Court{CourtName: req.CourtName, Surface: req.Surface, TotalSlots: req.TotalSlots}
	if err := s.repo.Create(ctx, c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Court with this name already exists")
		}
		return nil, apperr.Persistence("create court", err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]Court, error) {
	courts, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Persistence("list courts", err)
	}
	return courts, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Court, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("court", id.String(), "Court not found")
		}
		return nil, apperr.Persistence("get court", err)
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCourtRequest) (*Court, error) {
	if err := validator.First(req, updateMessages); err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CourtName != nil {
		c.CourtName = strings.TrimSpace(*req.CourtName)
	}
	if req.Surface != nil {
		c.Surface = strings.TrimSpace(*req.Surface)
	}
	if req.TotalSlots != nil {
		c.TotalSlots = *req.TotalSlots
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Court with this name already exists")
		}
		return nil, apperr.Persistence("update court", err)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	n, err := s.repo.CountBookings(ctx, id)
	if err != nil {
		return apperr.Persistence("count court bookings", err)
	}
	if n > 0 {
		return apperr.Conflict("Court has bookings and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Persistence("delete court", err)
	}
	return nil
}

// Statistics reports booking totals and the trailing twelve months, oldest first.
// Months without bookings are omitted.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	totals, err := s.repo.BookingTotals(ctx)
	if err != nil {
		return nil, apperr.Persistence("booking totals", err)
	}

	now := s.now().In(s.loc)
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc).AddDate(0, -(statisticsMonths - 1), 0)
	rows, err := s.repo.BookingActivitySince(ctx, since)
	if err != nil {
		return nil, apperr.Persistence("booking activity", err)
	}

	type bucket struct {
		key      time.Time
		bookings float64
		revenue  float64
	}
	var buckets []*bucket
	index := map[time.Time]*bucket{}
	for _, r := range rows {
		t := r.CreatedAt.In(s.loc)
		key := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, s.loc)
		b, ok := index[key]
		if !ok {
			b = &bucket{key: key}
			index[key] = b
			buckets = append(buckets, b)
		}
		b.bookings++
		b.revenue += r.Amount
	}

	stats := &Statistics{
		TotalBookings:     totals.TotalBookings,
		CancelledBookings: totals.CancelledBookings,
		TotalRevenue:      totals.TotalRevenue,
		MonthlyBookings:   make([]MonthlyFigure, 0, len(buckets)),
		MonthlyRevenue:    make([]MonthlyFigure, 0, len(buckets)),
	}
	// rows arrive ordered by created_at, so buckets are already oldest first
	for _, b := range buckets {
		label := b.key.Format("Jan")
		stats.MonthlyBookings = append(stats.MonthlyBookings, MonthlyFigure{Month: label, Value: b.bookings})
		stats.MonthlyRevenue = append(stats.MonthlyRevenue, MonthlyFigure{Month: label, Value: b.revenue})
	}
	return stats, nil
}
