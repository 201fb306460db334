package staff

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"courtly/internal/pkg/apperr"
	"courtly/internal/pkg/jwt"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, s *Staff) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*Staff, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Staff), args.Error(1)
}

func (m *MockRepository) ListByRole(ctx context.Context, role Role) ([]Staff, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Staff), args.Error(1)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_IssuesTokenWithRole(t *testing.T) {
	repo := new(MockRepository)
	tokens := jwt.New("test-secret", time.Hour)
	svc := NewService(repo, tokens)

	id := uuid.New()
	repo.On("GetByEmail", mock.Anything, "desk@courtly.in").
		Return(&Staff{ID: id, Email: "desk@courtly.in", Role: RoleReceptionist, PasswordHash: hashed(t, "s3cret-pass")}, nil)

	res, err := svc.Login(context.Background(), LoginRequest{Email: "  Desk@Courtly.in ", Password: "s3cret-pass"})
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.StaffID)
	assert.Equal(t, "receptionist", claims.Role)
	repo.AssertExpectations(t)
}

func TestLogin_BadCredentials(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, jwt.New("test-secret", time.Hour))

	repo.On("GetByEmail", mock.Anything, "desk@courtly.in").
		Return(&Staff{ID: uuid.New(), PasswordHash: hashed(t, "s3cret-pass")}, nil)
	repo.On("GetByEmail", mock.Anything, "nobody@courtly.in").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "desk@courtly.in", Password: "wrong"})
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@courtly.in", Password: "whatever"})
	assert.EqualError(t, err, "Invalid email or password")

	_, err = svc.Login(context.Background(), LoginRequest{Email: "not-an-email", Password: "x"})
	assert.EqualError(t, err, "Valid email is required")
}

func TestCreate_HashesPassword(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, jwt.New("test-secret", time.Hour))

	var saved *Staff
	repo.On("Create", mock.Anything, mock.AnythingOfType("*staff.Staff")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*Staff) }).
		Return(nil)

	member, err := svc.Create(context.Background(), CreateRequest{
		Name:     " Ravi ",
		Email:    "Ravi@Courtly.in",
		Password: "long-enough",
		Role:     RoleTrainer,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", member.Name)
	assert.Equal(t, "ravi@courtly.in", saved.Email)
	assert.NotEqual(t, "long-enough", saved.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("long-enough")))
}

func TestCreate_Rejections(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, jwt.New("test-secret", time.Hour))

	_, err := svc.Create(context.Background(), CreateRequest{Name: "A", Email: "a@b.in", Password: "short", Role: RoleAdmin})
	assert.EqualError(t, err, "Password must be 8 to 72 characters")

	_, err = svc.Create(context.Background(), CreateRequest{Name: "A", Email: "a@b.in", Password: "long-enough", Role: "owner"})
	assert.EqualError(t, err, "Role must be admin, receptionist, or trainer")

	repo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
	_, err = svc.Create(context.Background(), CreateRequest{Name: "A", Email: "a@b.in", Password: "long-enough", Role: RoleAdmin})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestHandler_LoginAndTrainers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(MockRepository)
	h := NewHandler(NewService(repo, jwt.New("test-secret", time.Hour)))

	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterRoutes(api, api, func(c *gin.Context) { c.Next() })

	repo.On("GetByEmail", mock.Anything, "desk@courtly.in").
		Return(&Staff{ID: uuid.New(), Role: RoleAdmin, PasswordHash: hashed(t, "s3cret-pass")}, nil)
	repo.On("ListByRole", mock.Anything, RoleTrainer).
		Return([]Staff{{ID: uuid.New(), Name: "Ravi", Role: RoleTrainer, PasswordHash: "hidden"}}, nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"desk@courtly.in","password":"s3cret-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.Token)

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"desk@courtly.in","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/staff/trainers", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Ravi"`)
	assert.NotContains(t, rr.Body.String(), "hidden")
}
