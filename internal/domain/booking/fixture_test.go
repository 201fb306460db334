package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"courtly/internal/database/dbtest"
	"courtly/internal/domain/billing"
	"courtly/internal/domain/court"
	"courtly/internal/domain/customer"
	"courtly/internal/pkg/events"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

type fixture struct {
	db     *gorm.DB
	svc    *Service
	court  *court.Court
	events *events.Recorder
	now    time.Time
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t, &court.Court{}, &customer.Customer{}, &Booking{}, &Slot{}, &billing.Billing{})

	c := &court.Court{CourtName: "Court 1", TotalSlots: 10}
	require.NoError(t, db.Create(c).Error)

	f := &fixture{
		db:     db,
		court:  c,
		events: &events.Recorder{},
		now:    time.Date(2024, 1, 1, 9, 0, 0, 0, ist),
	}
	f.svc = newTestService(db, billing.NewRecorder(), f)
	return f
}

func newTestService(db *gorm.DB, rec BillingRecorder, f *fixture) *Service {
	cfg := Config{Location: ist, CancellationCutoff: time.Hour, MaxBookingDays: 365}
	return NewService(db, NewRepository(db), rec, f.events, cfg).
		WithClock(func() time.Time { return f.now })
}

func ptr[T any](v T) *T { return &v }

func bookRequest(courtID uuid.UUID, startDate, endDate, startTime, endTime, phone string) BookSlotRequest {
	return BookSlotRequest{
		ScheduleFields: ScheduleFields{
			CourtID:   courtID.String(),
			StartDate: startDate,
			EndDate:   endDate,
			StartTime: startTime,
			EndTime:   endTime,
		},
		PhoneNumber:    phone,
		FirstName:      "Asha",
		LastName:       "Rao",
		WhatsAppNumber: phone,
		Address:        "12 MG Road",
		PaymentFields: PaymentFields{
			Amount:        ptr(1200.0),
			ModeOfPayment: "upi",
		},
	}
}

func (f *fixture) command(t *testing.T, req BookSlotRequest) Command {
	t.Helper()
	cmd, err := req.Command(f.svc.Rules())
	require.NoError(t, err)
	return cmd
}

func (f *fixture) book(t *testing.T, startDate, endDate, startTime, endTime, phone string) *View {
	t.Helper()
	v, err := f.svc.Book(t.Context(), f.command(t, bookRequest(f.court.ID, startDate, endDate, startTime, endTime, phone)))
	require.NoError(t, err)
	return v
}

func (f *fixture) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
