package customer

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"courtly/internal/database"
	"courtly/internal/pkg/apperr"
	"courtly/internal/pkg/utils"
	"courtly/internal/pkg/validator"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListResult struct {
	Customers  []Customer `json:"data"`
	Count      int        `json:"count"`
	Total      int64      `json:"totalUsers"`
	TotalPages int        `json:"totalPages"`
	Page       int        `json:"currentPage"`
}

func (s *Service) List(ctx context.Context, phone, search string, page utils.Page) (*ListResult, error) {
	customers, total, err := s.repo.List(ctx, ListFilter{
		PhoneNumber: strings.TrimSpace(phone),
		Search:      strings.TrimSpace(search),
		Offset:      page.Offset(),
		Limit:       page.Limit,
	})
	if err != nil {
		return nil, apperr.Persistence("list customers", err)
	}
	return &ListResult{
		Customers:  customers,
		Count:      len(customers),
		Total:      total,
		TotalPages: page.TotalPages(total),
		Page:       page.Page,
	}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("customer", id.String(), "User not found")
		}
		return nil, apperr.Persistence("get customer", err)
	}
	return c, nil
}

// UpdateRequest edits a customer's details. Nil fields are left alone.
type UpdateRequest struct {
	FirstName      *string `json:"firstName" validate:"omitempty,max=50"`
	LastName       *string `json:"lastName" validate:"omitempty,max=50"`
	PhoneNumber    *string `json:"phoneNumber" validate:"omitempty,phone10"`
	WhatsAppNumber *string `json:"whatsAppNumber" validate:"omitempty,phone10"`
	Address        *string `json:"address" validate:"omitempty,max=200"`
}

var updateMessages = map[string]string{
	"firstName":      "First name too long",
	"lastName":       "Last name too long",
	"phoneNumber":    "Invalid phone number format",
	"whatsAppNumber": "Invalid WhatsApp number format",
	"address":        "Address too long",
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Customer, error) {
	if err := validator.First(req, updateMessages); err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.PhoneNumber != nil && *req.PhoneNumber != c.PhoneNumber {
		if _, err := s.repo.GetByPhone(ctx, *req.PhoneNumber); err == nil {
			return nil, apperr.Validation("phoneNumber", "Phone number already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Persistence("find customer", err)
		}
		c.PhoneNumber = *req.PhoneNumber
	}
	if req.FirstName != nil {
		c.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		c.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.WhatsAppNumber != nil {
		c.WhatsAppNumber = *req.WhatsAppNumber
	}
	if req.Address != nil {
		c.Address = strings.TrimSpace(*req.Address)
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Validation("phoneNumber", "Phone number already exists")
		}
		return nil, apperr.Persistence("update customer", err)
	}
	return c, nil
}
