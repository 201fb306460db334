package billing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"courtly/internal/pkg/apperr"
	"courtly/internal/pkg/utils"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) History(ctx context.Context, f Filter) ([]historyRow, int64, error) {
	args := m.Called(ctx, f)
	rows, _ := args.Get(0).([]historyRow)
	return rows, args.Get(1).(int64), args.Error(2)
}

func TestHistory_BuildsFilter(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, ist)
	courtID := uuid.New()

	repo.On("History", mock.Anything, mock.MatchedBy(func(f Filter) bool {
		return f.CourtID != nil && *f.CourtID == courtID &&
			f.Search == "rao" &&
			f.From.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, ist)) &&
			f.To.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, ist)) &&
			f.Offset == 20 && f.Limit == 10
	})).Return([]historyRow{}, int64(21), nil).Once()

	page, err := svc.History(context.Background(), Query{
		CourtID:   courtID.String(),
		Search:    "  rao ",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
		Page:      utils.Page{Page: 3, Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Empty(t, page.Billings)
	repo.AssertExpectations(t)
}

func TestHistory_FormatsRows(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, ist)

	start := time.Date(2024, 1, 10, 18, 0, 0, 0, ist).UTC()
	repo.On("History", mock.Anything, mock.Anything).Return([]historyRow{{
		Billing:          Billing{ID: uuid.New(), Amount: 1200, ModeOfPayment: "upi"},
		CourtName:        "Court 1",
		FirstName:        "Asha",
		PhoneNumber:      "9876543210",
		BookingStartDate: time.Date(2024, 1, 10, 0, 0, 0, 0, ist).UTC(),
		BookingEndDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, ist).UTC(),
		BookingStartTime: start,
		BookingEndTime:   start.Add(90 * time.Minute),
		BookingStatus:    "upcoming",
	}}, int64(1), nil)

	page, err := svc.ByCourt(context.Background(), uuid.New(), Query{Page: utils.Page{Page: 1, Limit: 10}})
	require.NoError(t, err)
	require.Len(t, page.Billings, 1)

	p := page.Billings[0]
	assert.Equal(t, "Court 1", p.CourtName)
	assert.Equal(t, "Asha", p.Customer.FirstName)
	assert.Equal(t, "Wed, 10 Jan 2024", p.Booking.StartDate)
	assert.Equal(t, "06:00 pm", p.Booking.StartTime)
	assert.Equal(t, "07:30 pm", p.Booking.EndTime)
	assert.Equal(t, 1, page.Count)
}

func TestHistory_Errors(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, ist)

	_, err := svc.History(context.Background(), Query{CourtID: "x"})
	assert.EqualError(t, err, "Invalid courtId")

	_, err = svc.History(context.Background(), Query{EndDate: "31/01/2024"})
	assert.EqualError(t, err, "Invalid start or end date")

	repo.On("History", mock.Anything, mock.Anything).Return(nil, int64(0), errors.New("connection reset"))
	_, err = svc.History(context.Background(), Query{Page: utils.Page{Page: 1, Limit: 10}})
	assert.True(t, errors.Is(err, apperr.ErrPersistence))
	repo.AssertNotCalled(t, "History", mock.Anything, mock.MatchedBy(func(f Filter) bool { return f.CourtID != nil }))
}

func TestCourtPaymentHistoryHandler_RejectsBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewService(new(MockRepository), ist)).RegisterRoutes(r.Group("/api/v1"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/billings/court-payment-history/abc", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Invalid id", body.Error.Message)
}
