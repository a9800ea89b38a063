package payroll

import (
	"strings"
)

// Separator frames every section of the payslip document.
var Separator = strings.Repeat("=", 40)

// FormatPayslip renders the fixed-layout payslip document. The output is a
// pure function of in: lines are joined with "\n" and there is no trailing
// newline. Item sections are printed only when they hold a positive amount.
func FormatPayslip(in PayslipInput) string {
	var lines []string
	add := func(l ...string) { lines = append(lines, l...) }
	section := func(title string) { add("", Separator, title, Separator) }
	items := func(header string, list []LineItem) {
		var printed []string
		for _, it := range list {
			if !it.Amount.IsPositive() {
				continue
			}
			printed = append(printed, "  "+it.Label+": "+FormatPayslipMoney(in.CurrencySymbol, it.Amount))
		}
		if len(printed) == 0 {
			return
		}
		add(header)
		add(printed...)
	}

	add(Separator, in.CompanyName, in.Tagline, Separator)
	add("", "PAYSLIP FOR: "+in.PeriodLabel, "")
	add(
		"Employee Name: "+in.EmployeeName,
		"Employee ID: "+in.EmployeeID,
		"Job Title: "+in.JobTitle,
	)

	section("INCOME")
	add("Gross Pay: " + FormatPayslipMoney(in.CurrencySymbol, in.GrossPay))
	items("Allowances:", in.Allowances)

	section("DEDUCTIONS")
	items("Deductions:", in.Deductions)
	items("Recurring Contributions:", in.Contributions)
	add("Taxes: " + FormatPayslipMoney(in.CurrencySymbol, in.Taxes))

	section("SUMMARY")
	add("Net Pay: " + FormatPayslipMoney(in.CurrencySymbol, in.NetPay))

	add("", "Payment to:", "Bank Name: "+in.BankName, "Account Number: "+in.AccountNumber)
	add("", Separator, in.Contact, Separator)

	return strings.Join(lines, "\n")
}
