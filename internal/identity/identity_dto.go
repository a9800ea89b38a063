package identity

import "go-payroll/internal/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// NewPrincipal is the payload for CreatePrincipal.
type NewPrincipal struct {
	CompanyID  string
	EmployeeID string
	Name       string
	Email      string
	Password   string
	Role       domain.Role
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id,omitempty"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}

func toAuthResponse(p domain.Principal) AuthResponse {
	return AuthResponse{
		ID:         p.UID,
		CompanyID:  p.CompanyID,
		EmployeeID: p.EmployeeID,
		Email:      p.Email,
		Name:       p.Name,
		Role:       string(p.Role),
	}
}
