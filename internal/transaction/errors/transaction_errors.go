package transactionerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrTransactionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Transaction not found",
		http.StatusNotFound,
	)
	ErrInvalidTransactionID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid transaction ID",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Employee does not exist in this company",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidType = apperror.New(
		apperror.CodeInvalidInput,
		"Type must be Loan, Advance, Bonus or Deduction",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be Pending, Approved, Paid or Rejected",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"from must not be after to",
		http.StatusBadRequest,
	)
	ErrMissingDescription = apperror.New(
		apperror.CodeInvalidInput,
		"Description is required",
		http.StatusBadRequest,
	)
)
