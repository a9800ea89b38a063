package counter

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

const TypeEmployee = "employee"

// CompanyCounter holds the last issued sequence value per company and type.
type CompanyCounter struct {
	CompanyID   string `gorm:"type:uuid;primaryKey"`
	CounterType string `gorm:"type:varchar(50);primaryKey"`
	LastValue   int64  `gorm:"not null;default:0"`
	UpdatedAt   time.Time
}

func (CompanyCounter) TableName() string {
	return "company_counters"
}

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error)
	NextCode(ctx context.Context, companyID, counterType, prefix string) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.GormWithTx(r.db, tx)}
}

func (r *repository) GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error) {
	var nextValue int64

	// Atomic upsert-and-increment per company and type.
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO company_counters (company_id, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, now())
		ON CONFLICT (company_id, counter_type) DO UPDATE
		SET last_value = company_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, companyID, counterType).Scan(&nextValue).Error
	if err != nil {
		return 0, err
	}

	return nextValue, nil
}

// NextCode formats the next value as PREFIX-000001.
func (r *repository) NextCode(ctx context.Context, companyID, counterType, prefix string) (string, error) {
	next, err := r.GetNextValue(ctx, companyID, counterType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", prefix, next), nil
}
