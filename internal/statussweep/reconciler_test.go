package statussweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"courtly/internal/database/dbtest"
	"courtly/internal/domain/booking"
	"courtly/internal/domain/court"
	"courtly/internal/domain/customer"
	"courtly/internal/domain/membership"
	"courtly/internal/domain/staff"
	"courtly/internal/schema"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

type fixture struct {
	db       *gorm.DB
	court    *court.Court
	customer *customer.Customer
	trainer  *staff.Staff
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t, schema.Models()...)

	f := &fixture{
		db:       db,
		court:    &court.Court{CourtName: "Court 1", TotalSlots: 10},
		customer: &customer.Customer{FirstName: "Asha", PhoneNumber: "9876543210"},
		trainer:  &staff.Staff{Name: "Ravi", Email: "ravi@courtly.in", PasswordHash: "x", Role: staff.RoleTrainer},
	}
	require.NoError(t, db.Create(f.court).Error)
	require.NoError(t, db.Create(f.customer).Error)
	require.NoError(t, db.Create(f.trainer).Error)
	return f
}

func (f *fixture) booking(t *testing.T, start, end time.Time, status booking.Status) uuid.UUID {
	t.Helper()
	b := &booking.Booking{
		CourtID:       f.court.ID,
		UserID:        f.customer.ID,
		StartDate:     start,
		EndDate:       end,
		StartTime:     start,
		EndTime:       end,
		Amount:        1200,
		ModeOfPayment: "cash",
		Status:        status,
	}
	require.NoError(t, f.db.Create(b).Error)
	return b.ID
}

func (f *fixture) member(t *testing.T, phone string, end time.Time, status membership.Status) uuid.UUID {
	t.Helper()
	m := &membership.Member{
		Name:               "Meera",
		Address:            "4 Lake View",
		PhoneNumber:        phone,
		WhatsAppNumber:     phone,
		TrainerID:          f.trainer.ID,
		UserType:           membership.UserTypeAthlete,
		SubscriptionStart:  end.AddDate(0, -1, 0),
		SubscriptionEnd:    end,
		SubscriptionMonths: 1,
		SubscriptionStatus: status,
	}
	require.NoError(t, f.db.Omit("Trainer").Create(m).Error)
	return m.ID
}

func (f *fixture) bookingStatus(t *testing.T, id uuid.UUID) booking.Status {
	t.Helper()
	var b booking.Booking
	require.NoError(t, f.db.First(&b, "id = ?", id).Error)
	return b.Status
}

func (f *fixture) memberStatus(t *testing.T, id uuid.UUID) membership.Status {
	t.Helper()
	var m membership.Member
	require.NoError(t, f.db.First(&m, "id = ?", id).Error)
	return m.SubscriptionStatus
}

func at(day, hour int) time.Time {
	return time.Date(2024, 1, day, hour, 0, 0, 0, ist)
}

func TestRun_BringsStoredStatusInLine(t *testing.T) {
	f := setupFixture(t)
	now := at(10, 18)

	past := f.booking(t, at(8, 7), at(8, 8), booking.StatusUpcoming)
	running := f.booking(t, at(10, 17), at(10, 19), booking.StatusUpcoming)
	future := f.booking(t, at(12, 7), at(12, 8), booking.StatusUpcoming)
	wrongFuture := f.booking(t, at(13, 7), at(13, 8), booking.StatusExpired)
	cancelled := f.booking(t, at(8, 7), at(8, 8), booking.StatusCancelled)

	lapsed := f.member(t, "9000000001", at(9, 0), membership.StatusActive)
	current := f.member(t, "9000000002", at(20, 0), membership.StatusActive)
	revived := f.member(t, "9000000003", at(25, 0), membership.StatusExpired)

	report, err := NewReconciler(f.db).Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, booking.StatusExpired, f.bookingStatus(t, past))
	assert.Equal(t, booking.StatusActive, f.bookingStatus(t, running))
	assert.Equal(t, booking.StatusUpcoming, f.bookingStatus(t, future))
	assert.Equal(t, booking.StatusUpcoming, f.bookingStatus(t, wrongFuture))
	assert.Equal(t, booking.StatusCancelled, f.bookingStatus(t, cancelled))

	assert.Equal(t, membership.StatusExpired, f.memberStatus(t, lapsed))
	assert.Equal(t, membership.StatusActive, f.memberStatus(t, current))
	assert.Equal(t, membership.StatusActive, f.memberStatus(t, revived))

	assert.Equal(t, map[booking.Status]int64{
		booking.StatusExpired:  1,
		booking.StatusActive:   1,
		booking.StatusUpcoming: 1,
	}, report.Bookings)
	assert.Equal(t, map[membership.Status]int64{
		membership.StatusExpired: 1,
		membership.StatusActive:  1,
	}, report.Memberships)
	assert.Equal(t, int64(5), report.Total())
}

func TestRun_IsIdempotent(t *testing.T) {
	f := setupFixture(t)
	now := at(10, 18)
	f.booking(t, at(8, 7), at(8, 8), booking.StatusUpcoming)
	f.member(t, "9000000001", at(9, 0), membership.StatusActive)

	r := NewReconciler(f.db)
	first, err := r.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.Total())

	second, err := r.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, second.Total())
}

func TestRun_BoundaryInstantsMatchDerivedStatus(t *testing.T) {
	f := setupFixture(t)
	start, end := at(10, 7), at(10, 8)
	id := f.booking(t, start, end, booking.StatusUpcoming)
	r := NewReconciler(f.db)

	for _, now := range []time.Time{start.Add(-time.Second), start, end, end.Add(time.Second)} {
		_, err := r.Run(context.Background(), now)
		require.NoError(t, err)
		assert.Equal(t, booking.DeriveStatus(booking.StatusUpcoming, start, end, now), f.bookingStatus(t, id), now)
	}
}

func TestRun_MembershipSweepRunsWhenBookingSweepFails(t *testing.T) {
	f := setupFixture(t)
	lapsed := f.member(t, "9000000001", at(9, 0), membership.StatusActive)
	require.NoError(t, f.db.Migrator().DropTable(&booking.Slot{}, &booking.Booking{}))

	report, err := NewReconciler(f.db).Run(context.Background(), at(10, 18))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mark bookings")
	assert.Empty(t, report.Bookings)
	assert.Equal(t, int64(1), report.Memberships[membership.StatusExpired])
	assert.Equal(t, membership.StatusExpired, f.memberStatus(t, lapsed))
}

func TestSchedule_RunsImmediatelyAndStopsWithContext(t *testing.T) {
	f := setupFixture(t)
	past := f.booking(t, at(8, 7), at(8, 8), booking.StatusUpcoming)

	ctx, cancel := context.WithCancel(context.Background())
	done := NewReconciler(f.db).Schedule(ctx, ScheduleConfig{
		Interval: time.Hour,
		Now:      func() time.Time { return at(10, 18) },
	})

	require.Eventually(t, func() bool {
		var b booking.Booking
		return f.db.First(&b, "id = ?", past).Error == nil && b.Status == booking.StatusExpired
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("schedule did not stop")
	}
}

func TestTaskHandler(t *testing.T) {
	f := setupFixture(t)
	past := f.booking(t, at(8, 7), at(8, 8), booking.StatusUpcoming)

	task := NewReconcileTask()
	assert.Equal(t, TypeReconcile, task.Type())

	handler := NewReconciler(f.db).TaskHandler(func() time.Time { return at(10, 18) })
	require.NoError(t, handler.ProcessTask(context.Background(), task))
	assert.Equal(t, booking.StatusExpired, f.bookingStatus(t, past))

	require.NoError(t, f.db.Migrator().DropTable(&booking.Slot{}, &booking.Booking{}))
	err := handler.ProcessTask(context.Background(), asynq.NewTask(TypeReconcile, nil))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}
