package customer

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	PhoneNumber string
	Search      string
	Offset      int
	Limit       int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	GetByPhone(ctx context.Context, phone string) (*Customer, error)
	List(ctx context.Context, f ListFilter) ([]Customer, int64, error)
	Update(ctx context.Context, c *Customer) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	var c Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	var c Customer
	if err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Customer, int64, error) {
	q := r.db.WithContext(ctx).Model(&Customer{})
	if f.PhoneNumber != "" {
		q = q.Where("phone_number LIKE ?", "%"+f.PhoneNumber+"%")
	}
	if f.Search != "" {
		q = SearchScope(f.Search)(q)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []Customer
	err := q.Order("created_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&out).Error
	return out, total, err
}

func (r *repository) Update(ctx context.Context, c *Customer) error {
	return r.db.WithContext(ctx).Model(&Customer{}).Where("id = ?", c.ID).Updates(map[string]any{
		"first_name":       c.FirstName,
		"last_name":        c.LastName,
		"phone_number":     c.PhoneNumber,
		"whats_app_number": c.WhatsAppNumber,
		"address":          c.Address,
	}).Error
}

// SearchScope matches a case-insensitive term against names and phone numbers.
func SearchScope(term string) func(*gorm.DB) *gorm.DB {
	like := "%" + term + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"(LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?) OR phone_number LIKE ?)",
			like, like, like,
		)
	}
}

// MatchingIDs is a subquery of customers matching term, for filtering other tables.
func MatchingIDs(db *gorm.DB, term string) *gorm.DB {
	return db.Model(&Customer{}).Select("id").Scopes(SearchScope(term))
}
