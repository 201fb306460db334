package court

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"courtly/internal/database/dbtest"
	"courtly/internal/pkg/apperr"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	db := dbtest.Open(t, &Court{})
	return NewService(NewRepository(db), ist)
}

func TestCreate_DefaultsSurfaceAndRejectsDuplicateName(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateCourtRequest{CourtName: " Court A ", TotalSlots: 12})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, "Court A", c.CourtName)
	assert.Equal(t, DefaultSurface, c.Surface)

	_, err = svc.Create(ctx, CreateCourtRequest{CourtName: "Court A", TotalSlots: 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestCreate_Validation(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.Create(context.Background(), CreateCourtRequest{TotalSlots: 3})
	assert.EqualError(t, err, "Court name is required")

	_, err = svc.Create(context.Background(), CreateCourtRequest{CourtName: "B", TotalSlots: -1})
	assert.EqualError(t, err, "Total slots must be greater than 0")
}

func TestGet_NotFound(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.EqualError(t, err, "Court not found")
}

func TestUpdate_OnlyProvidedFields(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateCourtRequest{CourtName: "Center", Surface: "clay", TotalSlots: 10})
	require.NoError(t, err)

	slots := 14
	updated, err := svc.Update(ctx, c.ID, UpdateCourtRequest{TotalSlots: &slots})
	require.NoError(t, err)
	assert.Equal(t, "Center", updated.CourtName)
	assert.Equal(t, "clay", updated.Surface)
	assert.Equal(t, 14, updated.TotalSlots)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 14, got.TotalSlots)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, c *Court) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockRepository) List(ctx context.Context) ([]Court, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Court), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Court, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*Court); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, c *Court) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) CountBookings(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) BookingTotals(ctx context.Context) (*Totals, error) {
	args := m.Called(ctx)
	if t, ok := args.Get(0).(*Totals); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) BookingActivitySince(ctx context.Context, since time.Time) ([]ActivityRow, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]ActivityRow), args.Error(1)
}

func TestDelete_RefusedWhileBooked(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, ist)
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id).Return(&Court{ID: id}, nil)
	repo.On("CountBookings", mock.Anything, id).Return(int64(2), nil)

	err := svc.Delete(context.Background(), id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	repo.AssertNotCalled(t, "Delete", mock.Anything, id)
}

func TestDelete_Unreferenced(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, ist)
	id := uuid.New()

	repo.On("GetByID", mock.Anything, id).Return(&Court{ID: id}, nil)
	repo.On("CountBookings", mock.Anything, id).Return(int64(0), nil)
	repo.On("Delete", mock.Anything, id).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), id))
	repo.AssertExpectations(t)
}

func TestStatistics_BucketsByBusinessMonth(t *testing.T) {
	repo := new(MockRepository)
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, ist)
	svc := NewService(repo, ist).WithClock(func() time.Time { return now })

	since := time.Date(2023, 4, 1, 0, 0, 0, 0, ist)
	repo.On("BookingTotals", mock.Anything).Return(&Totals{TotalBookings: 4, CancelledBookings: 1, TotalRevenue: 3500}, nil)
	repo.On("BookingActivitySince", mock.Anything, since).Return([]ActivityRow{
		// 20:00 UTC on 31 Jan is already February in IST.
		{CreatedAt: time.Date(2024, 1, 31, 20, 0, 0, 0, time.UTC), Amount: 1000},
		{CreatedAt: time.Date(2024, 2, 10, 6, 0, 0, 0, time.UTC), Amount: 500},
		{CreatedAt: time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC), Amount: 2000},
		{CreatedAt: time.Date(2024, 3, 2, 6, 0, 0, 0, time.UTC), Amount: 0},
	}, nil)

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.CancelledBookings)
	assert.Equal(t, 3500.0, stats.TotalRevenue)
	assert.Equal(t, []MonthlyFigure{{Month: "Feb", Value: 2}, {Month: "Mar", Value: 2}}, stats.MonthlyBookings)
	assert.Equal(t, []MonthlyFigure{{Month: "Feb", Value: 1500}, {Month: "Mar", Value: 2000}}, stats.MonthlyRevenue)
}
