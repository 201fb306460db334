package membership

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"courtly/internal/database"
	"courtly/internal/domain/staff"
	"courtly/internal/pkg/apperr"
	"courtly/internal/pkg/events"
	"courtly/internal/pkg/logger"
	"courtly/internal/pkg/metrics"
	"courtly/internal/pkg/utils"
	"courtly/internal/pkg/validator"
)

type Service struct {
	db        *gorm.DB
	repo      Repository
	publisher events.Publisher
	loc       *time.Location
	now       func() time.Time
}

func NewService(db *gorm.DB, repo Repository, publisher events.Publisher, loc *time.Location) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{db: db, repo: repo, publisher: publisher, loc: loc, now: time.Now}
}

// WithClock replaces the wall clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Location() *time.Location { return s.loc }
func (s *Service) Now() time.Time { return s.now() }

// Register signs a member up for a subscription period and records the
// payment. Existing members, matched by phone, get their details refreshed
// and the new period, unless it overlaps an active one.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*Member, error) {
	now := s.now()
	start, end := cmd.Start, cmd.End()

	var member *Member
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trainer, err := staff.TrainerByID(tx, cmd.TrainerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("trainer", cmd.TrainerID.String(), "Trainer not found")
			}
			return apperr.Persistence("get trainer", err)
		}

		m, err := findByPhone(tx, cmd.PhoneNumber)
		if err != nil {
			return apperr.Persistence("find member", err)
		}

		if m == nil {
			if err := validateNew(cmd); err != nil {
				return err
			}
			m = &Member{
				Name:           cmd.Name,
				Address:        cmd.Address,
				PhoneNumber:    cmd.PhoneNumber,
				WhatsAppNumber: cmd.WhatsAppNumber,
				Notes:          cmd.Notes,
			}
		} else {
			active := DeriveStatus(m.SubscriptionEnd, now) == StatusActive
			if active && !start.After(m.SubscriptionEnd) && !end.Before(m.SubscriptionStart) {
				return apperr.Validation("startDate", "User already has an active subscription in this period")
			}
			if err := validateExisting(cmd); err != nil {
				return err
			}
			if cmd.Name != "" {
				m.Name = cmd.Name
			}
			if cmd.Address != "" {
				m.Address = cmd.Address
			}
			if cmd.WhatsAppNumber != "" {
				m.WhatsAppNumber = cmd.WhatsAppNumber
			}
			if cmd.Notes != "" {
				m.Notes = cmd.Notes
			}
		}
		m.TrainerID = trainer.ID
		m.UserType = cmd.UserType
		m.SubscriptionStart = start
		m.SubscriptionEnd = end
		m.SubscriptionMonths = cmd.Months
		m.SubscriptionStatus = DeriveStatus(end, now)

		if err := tx.Omit("Trainer").Save(m).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return apperr.Conflict("Phone number already exists")
			}
			return apperr.Persistence("save member", err)
		}

		if err := tx.Create(&GymBilling{
			MemberID:           m.ID,
			Amount:             cmd.Amount,
			IsGST:              cmd.IsGST,
			GST:                cmd.GST,
			GSTNumber:          cmd.GSTNumber,
			SubscriptionMonths: cmd.Months,
			SubscriptionStart:  start,
			SubscriptionEnd:    end,
			ModeOfPayment:      cmd.Payment,
			Notes:              cmd.Notes,
		}).Error; err != nil {
			return apperr.Persistence("record gym billing", err)
		}

		m.Trainer = trainer
		member = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MembershipsRegistered.Inc()
	if err := s.publisher.Publish(ctx, events.New(events.MembershipRegistered, "", member)); err != nil {
		logger.L().Warn("publish membership event", zap.String("member_id", member.ID.String()), zap.Error(err))
	}
	return member, nil
}

func validateNew(cmd RegisterCommand) error {
	switch {
	case cmd.Name == "" || len(cmd.Name) > 50:
		return apperr.Validation("name", "Valid name is required")
	case cmd.Address == "" || len(cmd.Address) > 200:
		return apperr.Validation("address", "Valid address is required")
	case !validator.IsPhone(cmd.WhatsAppNumber):
		return apperr.Validation("whatsAppNumber", "Valid WhatsApp number is required")
	}
	return nil
}

func validateExisting(cmd RegisterCommand) error {
	switch {
	case len(cmd.Name) > 50:
		return apperr.Validation("name", "Valid name is required")
	case len(cmd.Address) > 200:
		return apperr.Validation("address", "Valid address is required")
	case cmd.WhatsAppNumber != "" && !validator.IsPhone(cmd.WhatsAppNumber):
		return apperr.Validation("whatsAppNumber", "Valid WhatsApp number is required")
	}
	return nil
}

type ListQuery struct {
	Search      string
	Status      string
	TrainerName string
	UserType    string
	Order       string
	Page        utils.Page
}

type ListPage struct {
	Count       int      `json:"count"`
	TotalUsers  int64    `json:"totalUsers"`
	TotalPages  int      `json:"totalPages"`
	CurrentPage int      `json:"currentPage"`
	Members     []Member `json:"data"`
}

// List pages through members, newest first unless Order is "asc". Unknown
// status and user type values are ignored.
func (s *Service) List(ctx context.Context, q ListQuery) (*ListPage, error) {
	now := s.now()
	f := ListFilter{
		Search:      q.Search,
		TrainerName: q.TrainerName,
		Ascending:   q.Order == "asc",
		Now:         now,
		Offset:      q.Page.Offset(),
		Limit:       q.Page.Limit,
	}
	if st := Status(q.Status); st == StatusActive || st == StatusExpired {
		f.Status = st
	}
	switch ut := UserType(q.UserType); ut {
	case UserTypeAthlete, UserTypeNonAthlete, UserTypePersonalTrainer:
		f.UserType = ut
	}

	members, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Persistence("list members", err)
	}
	for i := range members {
		members[i].SubscriptionStatus = DeriveStatus(members[i].SubscriptionEnd, now)
	}
	return &ListPage{
		Count:       len(members),
		TotalUsers:  total,
		TotalPages:  q.Page.TotalPages(total),
		CurrentPage: q.Page.Page,
		Members:     members,
	}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("member", id.String(), "Gym user not found")
		}
		return nil, apperr.Persistence("get member", err)
	}
	m.SubscriptionStatus = DeriveStatus(m.SubscriptionEnd, s.now())
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("member", id.String(), "Gym user not found")
		}
		return apperr.Persistence("delete member", err)
	}
	return nil
}

type PaymentQuery struct {
	MemberID  string
	Search    string
	StartDate string
	EndDate   string
	Latest    bool
	Status    string
	Page      utils.Page
}

type MemberSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	PhoneNumber    string    `json:"phoneNumber"`
	WhatsAppNumber string    `json:"whatsAppNumber"`
}

type Payment struct {
	GymBilling
	SubscriptionStatus Status        `json:"subscriptionStatus"`
	Member             MemberSummary `json:"user"`
}

type PaymentPage struct {
	Count      int       `json:"count"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
	Payments   []Payment `json:"data"`
}

// PaymentHistory lists gym payments newest first. Latest, or any status
// filter, keeps only each member's newest payment.
func (s *Service) PaymentHistory(ctx context.Context, q PaymentQuery) (*PaymentPage, error) {
	now := s.now()
	f := PaymentFilter{
		Search: q.Search,
		Latest: q.Latest,
		Now:    now,
		Offset: q.Page.Offset(),
		Limit:  q.Page.Limit,
	}
	if q.MemberID != "" {
		id, err := uuid.Parse(q.MemberID)
		if err != nil {
			return nil, apperr.Validation("userId", "Invalid userId")
		}
		f.MemberID = &id
	}
	if q.Status != "" {
		st := Status(q.Status)
		if st != StatusActive && st != StatusExpired {
			return nil, apperr.Validation("status", "Invalid status, must be active or expired")
		}
		f.Status = st
	}
	if q.StartDate != "" {
		d, err := validator.ParseCalendarDate(q.StartDate, s.loc)
		if err != nil {
			return nil, apperr.Validation("startDate", "Invalid start or end date")
		}
		f.From = &d
	}
	if q.EndDate != "" {
		d, err := validator.ParseCalendarDate(q.EndDate, s.loc)
		if err != nil {
			return nil, apperr.Validation("endDate", "Invalid start or end date")
		}
		next := d.AddDate(0, 0, 1)
		f.To = &next
	}

	rows, total, err := s.repo.Payments(ctx, f)
	if err != nil {
		return nil, apperr.Persistence("gym payments", err)
	}

	out := make([]Payment, 0, len(rows))
	for _, r := range rows {
		out = append(out, Payment{
			GymBilling:         r.GymBilling,
			SubscriptionStatus: DeriveStatus(r.SubscriptionEnd, now),
			Member: MemberSummary{
				ID:             r.MemberID,
				Name:           r.MemberName,
				PhoneNumber:    r.MemberPhoneNumber,
				WhatsAppNumber: r.MemberWhatsAppNumber,
			},
		})
	}
	return &PaymentPage{
		Count:      len(out),
		Total:      total,
		Page:       q.Page.Page,
		Limit:      q.Page.Limit,
		TotalPages: q.Page.TotalPages(total),
		Payments:   out,
	}, nil
}
