package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeLoan      Type = "Loan"
	TypeAdvance   Type = "Advance"
	TypeBonus     Type = "Bonus"
	TypeDeduction Type = "Deduction"
)

func (t Type) Valid() bool {
	switch t {
	case TypeLoan, TypeAdvance, TypeBonus, TypeDeduction:
		return true
	}
	return false
}

// IsAllowance reports whether the type adds to pay. Every other type is
// subtracted.
func (t Type) IsAllowance() bool {
	return t == TypeBonus
}

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusPaid     Status = "Paid"
	StatusRejected Status = "Rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusPaid, StatusRejected:
		return true
	}
	return false
}

// Realized reports whether the transaction has taken financial effect.
func (s Status) Realized() bool {
	return s == StatusApproved || s == StatusPaid
}

// Transaction is a payroll-affecting event for one employee. EmployeeName is
// a projection column kept in sync from employee_renamed events; reads
// resolve the live name through a join.
type Transaction struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_transaction_employee,priority:1"`
	EmployeeID   string          `gorm:"type:varchar(64);not null;index:idx_transaction_employee,priority:2"`
	EmployeeName string          `gorm:"type:varchar(255)"`
	Date         time.Time       `gorm:"type:date;not null;index"`
	Type         Type            `gorm:"type:varchar(20);not null"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Description  string          `gorm:"type:varchar(255);not null"`
	Status       Status          `gorm:"type:varchar(20);not null;default:'Pending'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Transaction) TableName() string {
	return "transactions"
}
