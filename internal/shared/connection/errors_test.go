package connection_test

import (
	"errors"
	"fmt"
	"testing"

	"go-payroll/internal/shared/connection"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantConstraint string
		wantOK         bool
	}{
		{"nil", nil, "", false},
		{"pg error", &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"}, "uq_employee_email", true},
		{"wrapped pg error", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "employees_pkey"}), "employees_pkey", true},
		{"other pg code", &pgconn.PgError{Code: "23503", ConstraintName: "fk_company"}, "fk_company", false},
		{"message only", errors.New(`ERROR: duplicate key value violates unique constraint "uq_users_email" (SQLSTATE 23505)`), "uq_users_email", true},
		{"unrelated", errors.New("connection reset"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			constraint, ok := connection.UniqueViolation(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantConstraint, constraint)
		})
	}
}
