package company

import (
	"github.com/shopspring/decimal"
)

type OnboardRequest struct {
	CompanyName string   `json:"company_name" binding:"required,min=2,max=150"`
	AdminName   string   `json:"admin_name" binding:"required,min=2,max=255"`
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=8"`
	Currency    Currency `json:"currency" binding:"omitempty,oneof=USD RWF"`
}

type OnboardResponse struct {
	Company      *CompanyResponse `json:"company"`
	AdminID      string           `json:"admin_id"`
	AccessToken  string           `json:"access_token,omitempty"`
	RefreshToken string           `json:"refresh_token,omitempty"`
}

type ContributionRequest struct {
	ID         string          `json:"id"`
	Name       string          `json:"name" binding:"required"`
	Percentage decimal.Decimal `json:"percentage" binding:"gte=0,lte=100"`
}

type UpdateSettingsRequest struct {
	Name                   *string                `json:"name" binding:"omitempty,min=2,max=150"`
	Currency               *Currency              `json:"currency" binding:"omitempty,oneof=USD RWF"`
	TaxRate                *decimal.Decimal       `json:"tax_rate"`
	FlatTaxRate            *decimal.Decimal       `json:"flat_tax_rate"`
	ClearFlatTaxRate       bool                   `json:"clear_flat_tax_rate"`
	RecurringContributions *[]ContributionRequest `json:"recurring_contributions" binding:"omitempty,dive"`
	PayslipInfo            *PayslipInfo           `json:"payslip_info"`
}

type CompanyResponse struct {
	ID                     string           `json:"id"`
	Name                   string           `json:"name"`
	Email                  string           `json:"email"`
	Currency               Currency         `json:"currency"`
	CurrencySymbol         string           `json:"currency_symbol"`
	TaxRate                decimal.Decimal  `json:"tax_rate"`
	FlatTaxRate            *decimal.Decimal `json:"flat_tax_rate,omitempty"`
	RecurringContributions []Contribution   `json:"recurring_contributions"`
	PayslipInfo            PayslipInfo      `json:"payslip_info"`
	IsActive               bool             `json:"is_active"`
}

func mapToResponse(c *Company) *CompanyResponse {
	resp := &CompanyResponse{
		ID:                     c.ID.String(),
		Name:                   c.Name,
		Email:                  c.Email,
		Currency:               c.Currency,
		CurrencySymbol:         c.Currency.Symbol(),
		TaxRate:                c.TaxRate,
		RecurringContributions: c.RecurringContributions,
		PayslipInfo:            c.PayslipInfo,
		IsActive:               c.IsActive,
	}
	if resp.RecurringContributions == nil {
		resp.RecurringContributions = []Contribution{}
	}
	if c.FlatTaxRate.Valid {
		flat := c.FlatTaxRate.Decimal
		resp.FlatTaxRate = &flat
	}
	return resp
}
