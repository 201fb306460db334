package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"courtly/internal/database"
	"courtly/internal/domain/billing"
	"courtly/internal/domain/court"
	"courtly/internal/domain/customer"
	"courtly/internal/pkg/apperr"
	"courtly/internal/pkg/events"
	"courtly/internal/pkg/logger"
	"courtly/internal/pkg/metrics"
	"courtly/internal/pkg/timefmt"
	"courtly/internal/pkg/validator"
)

// BillingRecorder writes the payment row of a booking inside its transaction.
type BillingRecorder interface {
	Record(tx *gorm.DB, b *billing.Billing) error
}

type Config struct {
	Location           *time.Location
	CancellationCutoff time.Duration
	MaxBookingDays     int
}

type Service struct {
	db        *gorm.DB
	repo      Repository
	billing   BillingRecorder
	publisher events.Publisher
	cfg       Config
	now       func() time.Time
}

func NewService(db *gorm.DB, repo Repository, billing BillingRecorder, publisher events.Publisher, cfg Config) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		db:        db,
		repo:      repo,
		billing:   billing,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// WithClock replaces the wall clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Rules are the limits handlers apply when turning requests into commands.
func (s *Service) Rules() Rules {
	return Rules{Location: s.cfg.Location, MaxBookingDays: s.cfg.MaxBookingDays}
}

// Book reserves the daily window on every day of the command's period for
// the customer, creating or updating the customer by phone number.
func (s *Service) Book(ctx context.Context, cmd Command) (*View, error) {
	b, err := s.place(ctx, cmd, nil)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.BookingCreated, b)
	return s.view(b), nil
}

// Renew books a new period for the customer of parentID. The parent booking
// is left untouched.
func (s *Service) Renew(ctx context.Context, parentID uuid.UUID, cmd Command) (*View, error) {
	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("booking", parentID.String(), "Original booking not found")
		}
		return nil, apperr.Persistence("get booking", err)
	}

	b, err := s.place(ctx, cmd, parent)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.BookingRenewed, b)
	return s.view(b), nil
}

// place runs the whole allocation in one transaction: court lock, customer,
// per-day overlap checks, booking, slots and billing.
func (s *Service) place(ctx context.Context, cmd Command, parent *Booking) (*Booking, error) {
	loc := s.cfg.Location
	now := s.now()

	var (
		booking Booking
		windows []SlotWindow
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := court.LockForUpdate(tx, cmd.CourtID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("court", cmd.CourtID.String(), "Court not found")
			}
			return apperr.Persistence("lock court", err)
		}

		var (
			cust       *customer.Customer
			customerID uuid.UUID
		)
		if parent != nil {
			cust, customerID = parent.Customer, parent.UserID
		} else {
			if cust, err = customer.Upsert(tx, cmd.Customer); err != nil {
				return err
			}
			customerID = cust.ID
		}

		windows, err = Expand(cmd.StartDate, cmd.EndDate, cmd.Daily, loc)
		if err != nil {
			return err
		}
		for _, w := range windows {
			hit, err := FindOverlap(tx, cmd.CourtID, w.Start, w.End)
			if err != nil {
				return apperr.Persistence("find overlap", err)
			}
			if hit != nil {
				return overlapFrom(hit, loc)
			}
		}

		start, end := windows[0].Start, windows[len(windows)-1].End
		booking = Booking{
			ID:            uuid.New(),
			CourtID:       c.ID,
			UserID:        customerID,
			StartDate:     windows[0].Day,
			EndDate:       windows[len(windows)-1].Day,
			StartTime:     start,
			EndTime:       end,
			IsMultiDay:    !timefmt.SameDay(cmd.StartDate, cmd.EndDate, loc),
			Notes:         cmd.Notes,
			Amount:        cmd.Amount,
			IsGST:         cmd.IsGST,
			GST:           cmd.GST,
			GSTNumber:     cmd.GSTNumber,
			ModeOfPayment: cmd.Payment,
			Status:        DeriveStatus("", start, end, now),
		}
		if parent != nil {
			booking.IsRenewal = true
			booking.ParentBookingID = &parent.ID
		}
		if err := tx.Omit(clause.Associations).Create(&booking).Error; err != nil {
			return apperr.Persistence("create booking", err)
		}

		slots := make([]Slot, 0, len(windows))
		for _, w := range windows {
			slot := Slot{
				CourtID:    booking.CourtID,
				BookingID:  booking.ID,
				StartDate:  w.Day,
				EndDate:    w.Day,
				StartTime:  w.Start,
				EndTime:    w.End,
				IsMultiDay: booking.IsMultiDay,
				IsBooked:   true,
				UserID:     &booking.UserID,
			}
			if cmd.Notes != "" {
				notes := cmd.Notes
				slot.Notes = &notes
			}
			slots = append(slots, slot)
		}
		if err := tx.Omit(clause.Associations).Create(&slots).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrOverlap
			}
			return apperr.Persistence("create slots", err)
		}

		if err := s.billing.Record(tx, &billing.Billing{
			BookingID:     booking.ID,
			CourtID:       booking.CourtID,
			UserID:        booking.UserID,
			Amount:        booking.Amount,
			IsGST:         booking.IsGST,
			GST:           booking.GST,
			GSTNumber:     booking.GSTNumber,
			ModeOfPayment: booking.ModeOfPayment,
			Notes:         booking.Notes,
		}); err != nil {
			return apperr.Persistence("record billing", err)
		}

		booking.Slots = slots
		booking.Court = c
		booking.Customer = cust
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOverlap) {
			metrics.OverlapRejections.Inc()
			var oe *OverlapError
			if !errors.As(err, &oe) {
				// lost the race to a concurrent writer on the unique index
				return nil, s.describeOverlap(ctx, cmd.CourtID, windows)
			}
		}
		return nil, err
	}

	kind := "new"
	if parent != nil {
		kind = "renewal"
	}
	metrics.BookingsCreated.WithLabelValues(kind).Inc()
	metrics.SlotsMaterialized.Add(float64(len(booking.Slots)))
	return &booking, nil
}

func (s *Service) describeOverlap(ctx context.Context, courtID uuid.UUID, windows []SlotWindow) error {
	tx := s.db.WithContext(ctx)
	for _, w := range windows {
		hit, err := FindOverlap(tx, courtID, w.Start, w.End)
		if err == nil && hit != nil {
			return overlapFrom(hit, s.cfg.Location)
		}
	}
	return &OverlapError{}
}

// Cancel marks the booking cancelled and frees its slots, refusing terminal
// bookings and those starting within the cancellation cutoff.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*View, error) {
	now := s.now()

	var booking *Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockBooking(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("booking", id.String(), "Booking not found")
			}
			return apperr.Persistence("get booking", err)
		}

		if status := DeriveStatus(b.Status, b.StartTime, b.EndTime, now); status.Terminal() {
			return &TerminalStatusError{Status: status}
		}
		if b.StartTime.Sub(now) <= s.cfg.CancellationCutoff {
			return &CancellationWindowError{Cutoff: s.cfg.CancellationCutoff}
		}

		cancelledAt := now.UTC()
		if err := tx.Model(&Booking{}).Where("id = ?", b.ID).Updates(map[string]any{
			"status":       StatusCancelled,
			"cancelled_at": cancelledAt,
		}).Error; err != nil {
			return apperr.Persistence("cancel booking", err)
		}
		if _, err := releaseSlots(tx, b.ID); err != nil {
			return apperr.Persistence("release slots", err)
		}

		b.Status = StatusCancelled
		b.CancelledAt = &cancelledAt
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsCancelled.Inc()
	full, err := s.repo.GetByID(ctx, booking.ID)
	if err != nil {
		// the cancellation is committed; answer with what we have
		logger.L().Warn("reload cancelled booking", zap.String("booking_id", booking.ID.String()), zap.Error(err))
		full = booking
	}
	s.publish(ctx, events.BookingCancelled, full)
	return s.view(full), nil
}

// DaySlots is the booked-slot board of one court and day.
type DaySlots struct {
	Message string       `json:"message"`
	Count   int          `json:"count"`
	Data    []BookedSlot `json:"data"`
}

// BookedSlots lists the court's booked slots whose day is date (today when
// empty), ordered by start.
func (s *Service) BookedSlots(ctx context.Context, courtID uuid.UUID, date string) (*DaySlots, error) {
	loc := s.cfg.Location

	day := timefmt.Midnight(s.now(), loc)
	if date != "" {
		d, err := validator.ParseCalendarDate(date, loc)
		if err != nil {
			return nil, apperr.Validation("date", "Invalid date")
		}
		day = d
	}
	from, to := timefmt.DayBounds(day, loc)

	slots, err := s.repo.BookedSlots(ctx, courtID, from, to)
	if err != nil {
		return nil, apperr.Persistence("booked slots", err)
	}

	out := &DaySlots{Data: make([]BookedSlot, 0, len(slots))}
	for i := range slots {
		out.Data = append(out.Data, toBookedSlot(&slots[i], loc))
	}
	out.Count = len(out.Data)

	switch {
	case date == "" && out.Count == 0:
		out.Message = "No bookings found for today"
	case date == "":
		out.Message = "Today's booked slots"
	case out.Count == 0:
		out.Message = "No bookings found for " + timefmt.LongDate(day, loc)
	default:
		out.Message = "Bookings for " + timefmt.LongDate(day, loc)
	}
	return out, nil
}

// AvailableSlots lists released slots of the court.
func (s *Service) AvailableSlots(ctx context.Context, courtID uuid.UUID) ([]AvailableSlot, error) {
	slots, err := s.repo.AvailableSlots(ctx, courtID)
	if err != nil {
		return nil, apperr.Persistence("available slots", err)
	}
	out := make([]AvailableSlot, 0, len(slots))
	for i := range slots {
		out = append(out, toAvailableSlot(&slots[i], s.cfg.Location))
	}
	return out, nil
}

func (s *Service) view(b *Booking) *View {
	v := toView(b, s.now(), s.cfg.Location)
	return &v
}

// publish is best effort: the booking is already committed.
func (s *Service) publish(ctx context.Context, eventType string, b *Booking) {
	e := events.New(eventType, b.CourtID.String(), s.view(b))
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.L().Warn("publish booking event",
			zap.String("type", eventType),
			zap.String("booking_id", b.ID.String()),
			zap.Error(err),
		)
	}
}
