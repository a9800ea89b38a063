package company

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyRWF Currency = "RWF"
)

func (c Currency) Valid() bool {
	return c == CurrencyUSD || c == CurrencyRWF
}

// Symbol is the prefix used on payslip money values.
func (c Currency) Symbol() string {
	switch c {
	case CurrencyRWF:
		return "RWF "
	default:
		return "$"
	}
}

// Contribution is a percentage-of-gross deduction applied to every payslip.
type Contribution struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
}

// PayslipInfo is the branding printed on the payslip banner and footer.
type PayslipInfo struct {
	CompanyName string `json:"company_name"`
	Tagline     string `json:"tagline"`
	Contact     string `json:"contact"`
}

type Company struct {
	ID                     uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                   string              `gorm:"type:varchar(150);not null"`
	Email                  string              `gorm:"type:varchar(255);index"`
	Currency               Currency            `gorm:"type:varchar(3);not null;default:'USD'"`
	TaxRate                decimal.Decimal     `gorm:"type:numeric(5,2);not null;default:10"`
	FlatTaxRate            decimal.NullDecimal `gorm:"type:numeric(18,2)"`
	RecurringContributions []Contribution      `gorm:"type:jsonb;serializer:json"`
	PayslipInfo            PayslipInfo         `gorm:"type:jsonb;serializer:json"`
	IsActive               bool                `gorm:"not null;default:true"`
	CreatedAt              time.Time           `gorm:"not null;default:now()"`
	UpdatedAt              time.Time           `gorm:"not null;default:now()"`
}

func (Company) TableName() string {
	return "companies"
}

var (
	DefaultCurrency          = CurrencyUSD
	DefaultTaxRate           = decimal.NewFromInt(10)
	DefaultContributionName  = "Pension Fund"
	DefaultContributionShare = decimal.NewFromInt(5)
)

// NewDefaultCompany returns a company with onboarding defaults: USD, the
// default tax rate and one pension contribution.
func NewDefaultCompany(name, email string, currency Currency) *Company {
	if !currency.Valid() {
		currency = DefaultCurrency
	}
	return &Company{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Currency: currency,
		TaxRate:  DefaultTaxRate,
		RecurringContributions: []Contribution{
			{ID: uuid.NewString(), Name: DefaultContributionName, Percentage: DefaultContributionShare},
		},
		PayslipInfo: PayslipInfo{
			CompanyName: name,
			Tagline:     "Payroll Department",
			Contact:     email,
		},
		IsActive: true,
	}
}
