package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-payroll/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		httpErr := apperror.ToHTTP(apperror.ErrConflict)
		assert.Equal(t, http.StatusConflict, httpErr.Status)
		assert.Equal(t, apperror.CodeConflict, httpErr.Code)
	})

	t.Run("wrapped app error is found in chain", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", apperror.ErrForbidden)
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusForbidden, httpErr.Status)
	})

	t.Run("unknown error hides the cause", func(t *testing.T) {
		httpErr := apperror.ToHTTP(errors.New("pq: connection refused on 10.0.0.4"))
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, apperror.CodeInternalError, httpErr.Code)
		assert.NotContains(t, httpErr.Message, "10.0.0.4")
	})
}

func TestWithCause(t *testing.T) {
	cause := errors.New("boom")
	err := apperror.WithCause(apperror.ErrInternal, cause)

	assert.ErrorIs(t, err, apperror.ErrInternal)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperror.CodeInternalError, apperror.CodeOf(err))
}

type sample struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"email"`
}

func TestMapValidationError(t *testing.T) {
	v := validator.New()
	apperror.Configure(v)

	err := v.Struct(sample{Email: "not-an-email"})
	mapped := apperror.MapValidationError(err)

	var appErr *apperror.AppError
	assert.ErrorAs(t, mapped, &appErr)
	assert.Equal(t, "Full Name is required", appErr.Message)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}

type money struct {
	Currency string          `json:"currency" validate:"oneof=USD RWF"`
	Amount   decimal.Decimal `json:"amount" validate:"gte=0"`
	Password string          `json:"password" validate:"min=8"`
}

func TestMapValidationError_Rules(t *testing.T) {
	v := validator.New()
	apperror.Configure(v)

	tests := []struct {
		name  string
		input money
		want  string
	}{
		{"oneof", money{Currency: "EUR", Password: "longenough"}, "Currency must be one of: USD, RWF"},
		{"negative decimal", money{Currency: "USD", Amount: decimal.NewFromInt(-1), Password: "longenough"}, "Amount is out of range"},
		{"short string", money{Currency: "USD", Password: "x"}, "Password has an invalid length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var appErr *apperror.AppError
			assert.ErrorAs(t, apperror.MapValidationError(v.Struct(tt.input)), &appErr)
			assert.Equal(t, tt.want, appErr.Message)
		})
	}

	assert.NoError(t, v.Struct(money{Currency: "RWF", Amount: decimal.RequireFromString("12.50"), Password: "longenough"}))
}

func TestMapValidationError_NonValidatorError(t *testing.T) {
	var appErr *apperror.AppError
	assert.ErrorAs(t, apperror.MapValidationError(errors.New("EOF")), &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}
