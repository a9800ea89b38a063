package employee

import (
	"time"

	"go-payroll/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EmploymentType string

const (
	EmploymentSalaried  EmploymentType = "salaried"
	EmploymentDailyRate EmploymentType = "daily-rate"
)

func (t EmploymentType) Valid() bool {
	return t == EmploymentSalaried || t == EmploymentDailyRate
}

// Employee ids are chosen per company (EMP-000001), so the key is composite.
// Salary is a monthly amount for salaried staff and a per-day rate otherwise.
type Employee struct {
	CompanyID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ID             string          `gorm:"type:varchar(64);primaryKey"`
	Name           string          `gorm:"type:varchar(255);not null"`
	JobTitle       string          `gorm:"type:varchar(255)"`
	EmploymentType EmploymentType  `gorm:"type:varchar(20);not null;default:'salaried'"`
	Salary         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	BankName       string          `gorm:"type:varchar(255)"`
	AccountNumber  string          `gorm:"type:varchar(64)"`
	Role           domain.Role     `gorm:"type:varchar(20);not null;default:'employee'"`
	Email          string          `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	IdentityID     *string         `gorm:"type:uuid;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Employee) TableName() string {
	return "employees"
}
