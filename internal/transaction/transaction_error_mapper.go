package transaction

import (
	"errors"

	transactionerrors "go-payroll/internal/transaction/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return transactionerrors.ErrTransactionNotFound
	}
	return err
}
