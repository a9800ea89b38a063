package payrollerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

// Computation errors raised by the aggregator.
var (
	ErrMissingEmployee = apperror.New(
		apperror.CodeInvalidInput,
		"employee is required",
		http.StatusBadRequest,
	)
	ErrMissingCompany = apperror.New(
		apperror.CodeInvalidInput,
		"company is required",
		http.StatusBadRequest,
	)
	ErrNegativeSalary = apperror.New(
		apperror.CodeInvalidInput,
		"salary must not be negative",
		http.StatusBadRequest,
	)
	ErrNegativeTaxRate = apperror.New(
		apperror.CodeInvalidInput,
		"tax rate must not be negative",
		http.StatusBadRequest,
	)
	ErrNegativeContribution = apperror.New(
		apperror.CodeInvalidInput,
		"contribution percentage must not be negative",
		http.StatusBadRequest,
	)
	ErrNegativeDaysWorked = apperror.New(
		apperror.CodeInvalidInput,
		"days worked must not be negative",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period, expected month 1-12 and a four digit year",
		http.StatusBadRequest,
	)
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Company not found",
		http.StatusNotFound,
	)
	ErrPayslipForbidden = apperror.New(
		apperror.CodeForbidden,
		"You may only view your own payslip",
		http.StatusForbidden,
	)
	ErrRenderFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to render payslip",
		http.StatusInternalServerError,
	)
)
