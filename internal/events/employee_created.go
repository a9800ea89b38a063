package events

import "time"

const (
	EmployeeLifecycleTopic = "payroll.employee.lifecycle.v1"

	EmployeeCreatedType = "employee_created"
	EmployeeRenamedType = "employee_renamed"
	EmployeeDeletedType = "employee_deleted"

	EmployeeAggregate = "employee"
)

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	IdentityID string    `json:"identity_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EmployeeRenamedEvent drives the employee_name projection on transactions.
type EmployeeRenamedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	OldName    string    `json:"old_name"`
	NewName    string    `json:"new_name"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EmployeeDeletedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
