package company

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/company_repo_mock.go -package=mock . Repository
type Repository interface {
	Create(ctx context.Context, company *Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
	Update(ctx context.Context, company *Company) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, company *Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	var company Company
	if err := r.db.WithContext(ctx).Where("id = ? AND is_active", id).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// Update writes the settings columns, including cleared values.
func (r *repository) Update(ctx context.Context, company *Company) error {
	res := r.db.WithContext(ctx).
		Model(&Company{}).
		Where("id = ?", company.ID).
		Select("name", "currency", "tax_rate", "flat_tax_rate", "recurring_contributions", "payslip_info", "updated_at").
		Updates(company)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Company{}, "id = ?", id).Error
}
