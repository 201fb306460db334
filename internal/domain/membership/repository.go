package membership

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	Search      string
	Status      Status
	TrainerName string
	UserType    UserType
	Ascending   bool
	Now         time.Time
	Offset      int
	Limit       int
}

// PaymentFilter narrows gym payments. From and To bound created_at, [From, To).
type PaymentFilter struct {
	MemberID *uuid.UUID
	Search   string
	From     *time.Time
	To       *time.Time
	Latest   bool
	Status   Status
	Now      time.Time
	Offset   int
	Limit    int
}

// paymentRow is a gym billing joined with its member.
type paymentRow struct {
	GymBilling
	MemberName           string `gorm:"column:member_name"`
	MemberPhoneNumber    string `gorm:"column:member_phone_number"`
	MemberWhatsAppNumber string `gorm:"column:member_whats_app_number"`
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	List(ctx context.Context, f ListFilter) ([]Member, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Payments(ctx context.Context, f PaymentFilter) ([]paymentRow, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	var m Member
	if err := r.db.WithContext(ctx).Preload("Trainer").Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Member, int64, error) {
	q := r.db.WithContext(ctx).Model(&Member{})
	if s := strings.TrimSpace(f.Search); s != "" {
		if isDigits(s) {
			q = q.Where("gym_members.phone_number LIKE ?", "%"+s+"%")
		} else {
			q = q.Where("LOWER(gym_members.name) LIKE LOWER(?)", "%"+s+"%")
		}
	}
	if f.Status != "" {
		q = q.Scopes(StatusScope(f.Status, f.Now))
	}
	if f.UserType != "" {
		q = q.Where("gym_members.user_type = ?", f.UserType)
	}
	if f.TrainerName != "" {
		q = q.Joins("JOIN staff ON staff.id = gym_members.trainer_id").
			Where("LOWER(staff.name) LIKE LOWER(?)", "%"+f.TrainerName+"%")
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "gym_members.created_at DESC"
	if f.Ascending {
		order = "gym_members.created_at ASC"
	}
	var out []Member
	err := q.Select("gym_members.*").Preload("Trainer").
		Order(order).Offset(f.Offset).Limit(f.Limit).
		Find(&out).Error
	return out, total, err
}

// Delete removes the member and their payments.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&Member{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("member_id = ?", id).Delete(&GymBilling{}).Error
	})
}

func (r *repository) Payments(ctx context.Context, f PaymentFilter) ([]paymentRow, int64, error) {
	db := r.db.WithContext(ctx)
	q := db.Table("gym_billings gb").Joins("JOIN gym_members m ON m.id = gb.member_id")

	if f.MemberID != nil {
		q = q.Where("gb.member_id = ?", *f.MemberID)
	}
	if f.From != nil {
		q = q.Where("gb.created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("gb.created_at < ?", f.To.UTC())
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("(LOWER(m.name) LIKE LOWER(?) OR m.phone_number LIKE ?)", like, like)
	}
	if f.Latest || f.Status != "" {
		newest := db.Table("gym_billings nb").Select("MAX(nb.created_at)").Where("nb.member_id = gb.member_id")
		if f.From != nil {
			newest = newest.Where("nb.created_at >= ?", f.From.UTC())
		}
		if f.To != nil {
			newest = newest.Where("nb.created_at < ?", f.To.UTC())
		}
		q = q.Where("gb.created_at = (?)", newest)
	}
	switch f.Status {
	case StatusActive:
		q = q.Where("gb.subscription_end >= ?", f.Now.UTC())
	case StatusExpired:
		q = q.Where("gb.subscription_end < ?", f.Now.UTC())
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []paymentRow
	err := q.Select(`gb.*,
		m.name AS member_name,
		m.phone_number AS member_phone_number,
		m.whats_app_number AS member_whats_app_number`).
		Order("gb.created_at DESC").
		Offset(f.Offset).Limit(f.Limit).
		Scan(&rows).Error
	return rows, total, err
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// findByPhone loads the member with phone inside tx, or nil.
func findByPhone(tx *gorm.DB, phone string) (*Member, error) {
	var m Member
	err := tx.Where("phone_number = ?", phone).Limit(1).Find(&m).Error
	if err != nil {
		return nil, err
	}
	if m.ID == uuid.Nil {
		return nil, nil
	}
	return &m, nil
}
