package employee

import (
	"errors"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/shared/connection"

	"gorm.io/gorm"
)

var constraintErrors = map[string]error{
	"employees_pkey":    employeeerrors.ErrEmployeeIDAlreadyExists,
	"uq_employee_email": employeeerrors.ErrEmployeeAlreadyExists,
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}
	if constraint, ok := connection.UniqueViolation(err); ok {
		if mapped, known := constraintErrors[constraint]; known {
			return mapped
		}
	}
	return err
}
