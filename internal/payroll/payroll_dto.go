package payroll

// GenerateRequest selects the employee and period of a payslip.
type GenerateRequest struct {
	EmployeeID string
	Period     Period
	DaysWorked *int
}

// NarrativeRequest is the body of POST /payslips/:employee_id/narrative.
type NarrativeRequest struct {
	Month      int  `json:"month" binding:"omitempty,min=1,max=12"`
	Year       int  `json:"year" binding:"omitempty,min=1000,max=9999"`
	DaysWorked *int `json:"days_worked" binding:"omitempty,min=0,max=31"`
}

// DisplayTotals are the headline figures in on-screen currency format.
type DisplayTotals struct {
	GrossPay string `json:"gross_pay"`
	Taxes    string `json:"taxes"`
	NetPay   string `json:"net_pay"`
}

type PayslipResponse struct {
	Payslip  PayslipInput  `json:"payslip"`
	Document string        `json:"document"`
	Display  DisplayTotals `json:"display"`
}

const (
	NarrativeSourceNarrator  = "narrator"
	NarrativeSourceFormatter = "formatter"
)

// NarrativeResponse carries the prose rendering, or the deterministic
// document when no narrator is available.
type NarrativeResponse struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}
