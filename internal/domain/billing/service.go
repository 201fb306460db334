package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"courtly/internal/pkg/apperr"
	"courtly/internal/pkg/timefmt"
	"courtly/internal/pkg/utils"
	"courtly/internal/pkg/validator"
)

type Service struct {
	repo Repository
	loc  *time.Location
}

func NewService(repo Repository, loc *time.Location) *Service {
	return &Service{repo: repo, loc: loc}
}

// Query is the raw history request as it arrives from the client.
type Query struct {
	CourtID   string
	Search    string
	StartDate string
	EndDate   string
	Page      utils.Page
}

type CustomerSummary struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	PhoneNumber    string `json:"phoneNumber"`
	WhatsAppNumber string `json:"whatsAppNumber"`
}

type BookingSummary struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
	IsRenewal bool   `json:"isRenewal"`
}

// Payment is a billing row as the payment history screens show it.
type Payment struct {
	Billing
	CourtName string          `json:"courtName"`
	Customer  CustomerSummary `json:"user"`
	Booking   BookingSummary  `json:"booking"`
}

type HistoryPage struct {
	Billings   []Payment `json:"billings"`
	Count      int       `json:"count"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

// ByCourt lists one court's payments, newest first.
func (s *Service) ByCourt(ctx context.Context, courtID uuid.UUID, q Query) (*HistoryPage, error) {
	f, err := s.filter(q)
	if err != nil {
		return nil, err
	}
	f.CourtID = &courtID
	return s.history(ctx, f, q.Page)
}

// History lists every payment, filtered by customer search, court and booking start date.
func (s *Service) History(ctx context.Context, q Query) (*HistoryPage, error) {
	f, err := s.filter(q)
	if err != nil {
		return nil, err
	}
	if q.CourtID != "" {
		id, err := uuid.Parse(q.CourtID)
		if err != nil {
			return nil, apperr.Validation("courtId", "Invalid courtId")
		}
		f.CourtID = &id
	}
	return s.history(ctx, f, q.Page)
}

func (s *Service) filter(q Query) (Filter, error) {
	f := Filter{Search: strings.TrimSpace(q.Search), Offset: q.Page.Offset(), Limit: q.Page.Limit}
	if q.StartDate != "" {
		d, err := validator.ParseCalendarDate(q.StartDate, s.loc)
		if err != nil {
			return f, apperr.Validation("startDate", "Invalid start or end date")
		}
		f.From = &d
	}
	if q.EndDate != "" {
		d, err := validator.ParseCalendarDate(q.EndDate, s.loc)
		if err != nil {
			return f, apperr.Validation("endDate", "Invalid start or end date")
		}
		next := d.AddDate(0, 0, 1)
		f.To = &next
	}
	return f, nil
}

func (s *Service) history(ctx context.Context, f Filter, page utils.Page) (*HistoryPage, error) {
	rows, total, err := s.repo.History(ctx, f)
	if err != nil {
		return nil, apperr.Persistence("payment history", err)
	}

	out := make([]Payment, 0, len(rows))
	for _, r := range rows {
		out = append(out, Payment{
			Billing:   r.Billing,
			CourtName: r.CourtName,
			Customer: CustomerSummary{
				FirstName:      r.FirstName,
				LastName:       r.LastName,
				PhoneNumber:    r.PhoneNumber,
				WhatsAppNumber: r.WhatsAppNumber,
			},
			Booking: BookingSummary{
				StartDate: timefmt.Date(r.BookingStartDate, s.loc),
				EndDate:   timefmt.Date(r.BookingEndDate, s.loc),
				StartTime: timefmt.Clock(r.BookingStartTime, s.loc),
				EndTime:   timefmt.Clock(r.BookingEndTime, s.loc),
				Status:    r.BookingStatus,
				IsRenewal: r.IsRenewal,
			},
		})
	}

	return &HistoryPage{
		Billings:   out,
		Count:      len(out),
		Total:      total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
	}, nil
}
