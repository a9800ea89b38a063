package domain

import "strings"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

func ParseRole(v string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(v)))
	return r, r.Valid()
}

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanManage reports whether the role may administer employee and payroll
// records of its own company.
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleManager
}

// Principal is an authenticated identity as seen by the rest of the system.
type Principal struct {
	UID        string `json:"uid"`
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id,omitempty"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
}

func (p Principal) IsZero() bool {
	return p.UID == ""
}
