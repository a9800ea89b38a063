package companyerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Company not found",
		http.StatusNotFound,
	)

	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)

	ErrInvalidCurrency = apperror.New(
		apperror.CodeInvalidInput,
		"Currency must be USD or RWF",
		http.StatusBadRequest,
	)

	ErrInvalidTaxRate = apperror.New(
		apperror.CodeInvalidInput,
		"Tax rate must be between 0 and 100",
		http.StatusBadRequest,
	)

	ErrInvalidFlatTaxRate = apperror.New(
		apperror.CodeInvalidInput,
		"Flat tax amount must not be negative",
		http.StatusBadRequest,
	)

	ErrInvalidContribution = apperror.New(
		apperror.CodeInvalidInput,
		"Contribution needs a name and a percentage between 0 and 100",
		http.StatusBadRequest,
	)

	ErrDuplicateContributionID = apperror.New(
		apperror.CodeInvalidInput,
		"Contribution ids must be unique",
		http.StatusBadRequest,
	)

	ErrAdminEmailTaken = apperror.New(
		apperror.CodeConflict,
		"An account with this email already exists",
		http.StatusConflict,
	)

	ErrOnboardingFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to onboard company",
		http.StatusInternalServerError,
	)
)
