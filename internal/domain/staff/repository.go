package staff

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, s *Staff) error
	GetByEmail(ctx context.Context, email string) (*Staff, error)
	ListByRole(ctx context.Context, role Role) ([]Staff, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Staff) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Staff, error) {
	var s Staff
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListByRole(ctx context.Context, role Role) ([]Staff, error) {
	var out []Staff
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("name ASC").Find(&out).Error
	return out, err
}

// TrainerByID loads a staff member with the trainer role inside tx.
func TrainerByID(tx *gorm.DB, id uuid.UUID) (*Staff, error) {
	var s Staff
	if err := tx.Where("id = ? AND role = ?", id, RoleTrainer).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
