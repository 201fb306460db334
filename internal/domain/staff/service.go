package staff

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"courtly/internal/database"
	"courtly/internal/pkg/apperr"
	"courtly/internal/pkg/validator"
)

type TokenIssuer interface {
	GenerateToken(staffID uuid.UUID, role string) (string, error)
}

type Service struct {
	repo   Repository
	tokens TokenIssuer
}

func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login checks the password and issues a signed token carrying the staff id and role.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validator.First(req, loginMessages); err != nil {
		return nil, err
	}

	member, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, apperr.Persistence("get staff", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.GenerateToken(member.ID, string(member.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Staff: member}, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Staff, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validator.First(req, createMessages); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	member := &Staff{
		Name:         req.Name,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Email already registered")
		}
		return nil, apperr.Persistence("create staff", err)
	}
	return member, nil
}

func (s *Service) ListTrainers(ctx context.Context) ([]Staff, error) {
	trainers, err := s.repo.ListByRole(ctx, RoleTrainer)
	if err != nil {
		return nil, apperr.Persistence("list trainers", err)
	}
	return trainers, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
