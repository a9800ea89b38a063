package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type CreateTransactionRequest struct {
	EmployeeID  string          `json:"employee_id" binding:"required,max=64"`
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Type        Type            `json:"type" binding:"required,oneof=Loan Advance Bonus Deduction"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"required,max=255"`
	Status      Status          `json:"status" binding:"omitempty,oneof=Pending Approved Paid Rejected"`
}

type UpdateTransactionRequest struct {
	Date        *string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Type        *Type            `json:"type" binding:"omitempty,oneof=Loan Advance Bonus Deduction"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description" binding:"omitempty,min=1,max=255"`
	Status      *Status          `json:"status" binding:"omitempty,oneof=Pending Approved Paid Rejected"`
}

// ListFilter narrows GetAll. Zero values mean no restriction.
type ListFilter struct {
	EmployeeID string
	Type       Type
	Status     Status
	From       *time.Time
	To         *time.Time
}

type TransactionResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Date         string          `json:"date"`
	Type         Type            `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
