package payroll

import (
	"fmt"
	"strconv"
	"time"

	payrollerrors "go-payroll/internal/payroll/errors"
)

// Period is a calendar pay period identified by (month, year).
type Period struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

func NewPeriod(month, year int) (Period, error) {
	p := Period{Month: time.Month(month), Year: year}
	if !p.Valid() {
		return Period{}, payrollerrors.ErrInvalidPeriod
	}
	return p, nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Month: t.Month(), Year: t.Year()}
}

// ParsePeriod reads month and year query values. Blank values fall back to
// the period containing now.
func ParsePeriod(month, year string, now time.Time) (Period, error) {
	p := PeriodOf(now)
	if month != "" {
		m, err := strconv.Atoi(month)
		if err != nil {
			return Period{}, payrollerrors.ErrInvalidPeriod
		}
		p.Month = time.Month(m)
	}
	if year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			return Period{}, payrollerrors.ErrInvalidPeriod
		}
		p.Year = y
	}
	if !p.Valid() {
		return Period{}, payrollerrors.ErrInvalidPeriod
	}
	return p, nil
}

func (p Period) Valid() bool {
	return p.Month >= time.January && p.Month <= time.December && p.Year >= 1000 && p.Year <= 9999
}

// Contains compares calendar fields only; the time zone of t is kept.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// Label renders the period as "March 2026".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month.String(), p.Year)
}
