package payroll

import (
	"sort"

	"go-payroll/internal/company"
	"go-payroll/internal/employee"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/transaction"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineItem is one labelled amount on a payslip.
type LineItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Total sums the amounts of items.
func Total(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Amount)
	}
	return sum
}

// AggregateInput is an immutable snapshot of everything a payslip is
// computed from. Transactions may span any dates; only those of Employee
// that fall in Period and are realized are counted.
type AggregateInput struct {
	Employee     *employee.Employee
	Company      *company.Company
	Transactions []transaction.Transaction
	Period       Period
	// DaysWorked multiplies the stored rate of a daily-rate employee. Nil
	// keeps the rate as gross pay. Ignored for salaried employees.
	DaysWorked *int
}

// PayslipInput is the computed, itemized payslip plus everything the
// formatter prints.
type PayslipInput struct {
	Period         Period           `json:"period"`
	PeriodLabel    string           `json:"period_label"`
	EmployeeID     string           `json:"employee_id"`
	EmployeeName   string           `json:"employee_name"`
	JobTitle       string           `json:"job_title"`
	EmploymentType string           `json:"employment_type"`
	DaysWorked     *int             `json:"days_worked,omitempty"`
	BankName       string           `json:"bank_name"`
	AccountNumber  string           `json:"account_number"`
	CompanyName    string           `json:"company_name"`
	Tagline        string           `json:"tagline"`
	Contact        string           `json:"contact"`
	Currency       company.Currency `json:"currency"`
	CurrencySymbol string           `json:"currency_symbol"`
	GrossPay       decimal.Decimal  `json:"gross_pay"`
	Allowances     []LineItem       `json:"allowances"`
	Deductions     []LineItem       `json:"deductions"`
	Contributions  []LineItem       `json:"contributions"`
	Taxes          decimal.Decimal  `json:"taxes"`
	NetPay         decimal.Decimal  `json:"net_pay"`
}

// Aggregate computes a payslip. It has no side effects and fails with an
// invalid-input error when the employee or company is missing or carries
// negative rates.
//
// Taxes and contributions are rounded to cents before net pay is derived,
// so the printed figures always add up.
func Aggregate(in AggregateInput) (PayslipInput, error) {
	if err := validateAggregate(in); err != nil {
		return PayslipInput{}, err
	}
	emp, co := in.Employee, in.Company

	gross := emp.Salary
	var days *int
	if emp.EmploymentType == employee.EmploymentDailyRate && in.DaysWorked != nil {
		d := *in.DaysWorked
		days = &d
		gross = emp.Salary.Mul(decimal.NewFromInt(int64(d)))
	}

	allowances, deductions := itemize(emp.ID, in.Period, in.Transactions)

	var taxes decimal.Decimal
	if co.FlatTaxRate.Valid {
		taxes = co.FlatTaxRate.Decimal.Round(2)
	} else {
		taxes = gross.Mul(co.TaxRate).Div(hundred).Round(2)
	}

	contributions := make([]LineItem, 0, len(co.RecurringContributions))
	for _, c := range co.RecurringContributions {
		contributions = append(contributions, LineItem{
			Label:  c.Name,
			Amount: gross.Mul(c.Percentage).Div(hundred).Round(2),
		})
	}

	net := gross.
		Add(Total(allowances)).
		Sub(Total(deductions)).
		Sub(taxes).
		Sub(Total(contributions))

	info := co.PayslipInfo
	companyName := info.CompanyName
	if companyName == "" {
		companyName = co.Name
	}

	return PayslipInput{
		Period:         in.Period,
		PeriodLabel:    in.Period.Label(),
		EmployeeID:     emp.ID,
		EmployeeName:   emp.Name,
		JobTitle:       emp.JobTitle,
		EmploymentType: string(emp.EmploymentType),
		DaysWorked:     days,
		BankName:       emp.BankName,
		AccountNumber:  emp.AccountNumber,
		CompanyName:    companyName,
		Tagline:        info.Tagline,
		Contact:        info.Contact,
		Currency:       co.Currency,
		CurrencySymbol: co.Currency.Symbol(),
		GrossPay:       gross,
		Allowances:     allowances,
		Deductions:     deductions,
		Contributions:  contributions,
		Taxes:          taxes,
		NetPay:         net,
	}, nil
}

func validateAggregate(in AggregateInput) error {
	if in.Employee == nil {
		return payrollerrors.ErrMissingEmployee
	}
	if in.Company == nil {
		return payrollerrors.ErrMissingCompany
	}
	if !in.Period.Valid() {
		return payrollerrors.ErrInvalidPeriod
	}
	if in.Employee.Salary.IsNegative() {
		return payrollerrors.ErrNegativeSalary
	}
	if in.Company.TaxRate.IsNegative() {
		return payrollerrors.ErrNegativeTaxRate
	}
	if in.Company.FlatTaxRate.Valid && in.Company.FlatTaxRate.Decimal.IsNegative() {
		return payrollerrors.ErrNegativeTaxRate
	}
	for _, c := range in.Company.RecurringContributions {
		if c.Percentage.IsNegative() {
			return payrollerrors.ErrNegativeContribution
		}
	}
	if in.DaysWorked != nil && *in.DaysWorked < 0 {
		return payrollerrors.ErrNegativeDaysWorked
	}
	return nil
}

// itemize splits the employee's realized in-period transactions into
// allowances and deductions. Entries sharing a description are summed and
// keep the position of their earliest transaction by (date, id).
func itemize(employeeID string, period Period, txs []transaction.Transaction) (allowances, deductions []LineItem) {
	selected := make([]transaction.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.EmployeeID != employeeID {
			continue
		}
		if !period.Contains(tx.Date) || !tx.Status.Realized() {
			continue
		}
		selected = append(selected, tx)
	}
	sort.SliceStable(selected, func(i, j int) bool {
		if !selected[i].Date.Equal(selected[j].Date) {
			return selected[i].Date.Before(selected[j].Date)
		}
		return selected[i].ID.String() < selected[j].ID.String()
	})

	allowances = []LineItem{}
	deductions = []LineItem{}
	allowanceIdx := map[string]int{}
	deductionIdx := map[string]int{}
	for _, tx := range selected {
		if tx.Type.IsAllowance() {
			allowances = addItem(allowances, allowanceIdx, tx.Description, tx.Amount)
		} else {
			deductions = addItem(deductions, deductionIdx, tx.Description, tx.Amount)
		}
	}
	return allowances, deductions
}

func addItem(items []LineItem, idx map[string]int, label string, amount decimal.Decimal) []LineItem {
	if i, ok := idx[label]; ok {
		items[i].Amount = items[i].Amount.Add(amount)
		return items
	}
	idx[label] = len(items)
	return append(items, LineItem{Label: label, Amount: amount})
}
