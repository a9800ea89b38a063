package employee

import (
	"time"

	"go-payroll/internal/domain"

	"github.com/shopspring/decimal"
)

// CreateEmployeeRequest creates the employee record and its login. A blank
// EmployeeID is generated; a blank CompanyID means the caller's company.
type CreateEmployeeRequest struct {
	EmployeeID     string          `json:"employee_id" binding:"omitempty,max=64"`
	Name           string          `json:"name" binding:"required,max=255"`
	Email          string          `json:"email" binding:"required,email"`
	Password       string          `json:"password" binding:"required,min=8"`
	JobTitle       string          `json:"job_title" binding:"max=255"`
	Role           domain.Role     `json:"role" binding:"omitempty,oneof=employee manager admin"`
	EmploymentType EmploymentType  `json:"employment_type" binding:"required,oneof=salaried daily-rate"`
	Salary         decimal.Decimal `json:"salary"`
	BankName       string          `json:"bank_name" binding:"max=255"`
	AccountNumber  string          `json:"account_number" binding:"max=64"`
	CompanyID      string          `json:"company_id" binding:"omitempty,uuid"`
}

type UpdateEmployeeRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=255"`
	JobTitle       *string          `json:"job_title" binding:"omitempty,max=255"`
	EmploymentType *EmploymentType  `json:"employment_type" binding:"omitempty,oneof=salaried daily-rate"`
	Salary         *decimal.Decimal `json:"salary"`
	BankName       *string          `json:"bank_name" binding:"omitempty,max=255"`
	AccountNumber  *string          `json:"account_number" binding:"omitempty,max=64"`
}

type EmployeeResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	Name           string          `json:"name"`
	JobTitle       string          `json:"job_title"`
	EmploymentType EmploymentType  `json:"employment_type"`
	Salary         decimal.Decimal `json:"salary"`
	BankName       string          `json:"bank_name"`
	AccountNumber  string          `json:"account_number"`
	Role           domain.Role     `json:"role"`
	Email          string          `json:"email"`
	IdentityID     string          `json:"identity_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type CreateEmployeeResponse struct {
	IdentityID string           `json:"identity_id"`
	Employee   EmployeeResponse `json:"employee"`
}

type EmployeeOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
