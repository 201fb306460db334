package booking

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"courtly/internal/pkg/apperr"
	"courtly/internal/pkg/utils"
	"courtly/internal/pkg/validator"
)

// HistoryQuery is a booking listing request as it arrives from the client.
type HistoryQuery struct {
	CourtID   string
	Status    string
	StartDate string
	EndDate   string
	Search    string
	Page      utils.Page
}

type HistoryPage struct {
	Bookings   []View `json:"bookings"`
	TotalCount int64  `json:"totalCount"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
}

// Latest lists the most recent booking of each customer, newest first.
func (s *Service) Latest(ctx context.Context, q HistoryQuery) (*HistoryPage, error) {
	f, err := s.historyFilter(q)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.repo.Latest(ctx, f)
	if err != nil {
		return nil, apperr.Persistence("latest bookings", err)
	}
	return s.historyPage(rows, total, q.Page), nil
}

// History lists every booking with its slots, newest first. Status filters
// on the derived status.
func (s *Service) History(ctx context.Context, q HistoryQuery) (*HistoryPage, error) {
	f, err := s.historyFilter(q)
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
	if q.Status != "" {
		st := Status(strings.ToLower(q.Status))
		if !st.Valid() {
			return nil, apperr.Validation("status", "Invalid status, must be upcoming, active, expired, or cancelled")
		}
		f.Status = st
	}

	rows, total, err := s.repo.History(ctx, f)
	if err != nil {
		return nil, apperr.Persistence("booking history", err)
	}
	return s.historyPage(rows, total, q.Page), nil
}

func (s *Service) historyFilter(q HistoryQuery) (HistoryFilter, error) {
	loc := s.cfg.Location
	f := HistoryFilter{
		Search: strings.TrimSpace(q.Search),
		Now:    s.now(),
		Offset: q.Page.Offset(),
		Limit:  q.Page.Limit,
	}
	if q.StartDate != "" {
		d, err := validator.ParseCalendarDate(q.StartDate, loc)
		if err != nil {
			return f, apperr.Validation("startDate", "Invalid start or end date")
		}
		f.From = &d
	}
	if q.EndDate != "" {
		d, err := validator.ParseCalendarDate(q.EndDate, loc)
		if err != nil {
			return f, apperr.Validation("endDate", "Invalid start or end date")
		}
		next := d.AddDate(0, 0, 1)
		f.To = &next
	}
	return f, nil
}

func (s *Service) historyPage(rows []Booking, total int64, page utils.Page) *HistoryPage {
	now := s.now()
	out := &HistoryPage{
		Bookings:   make([]View, 0, len(rows)),
		TotalCount: total,
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
	}
	for i := range rows {
		out.Bookings = append(out.Bookings, toView(&rows[i], now, s.cfg.Location))
	}
	return out
}
