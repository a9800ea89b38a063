package connection

import (
	"errors"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var constraintPattern = regexp.MustCompile(`duplicate key value violates unique constraint "([^"]+)"`)

// UniqueViolation reports whether err is a PostgreSQL unique violation and
// names the constraint. Errors that lost their *pgconn.PgError on the way up
// are recognised by message.
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName, pgErr.Code == uniqueViolation
	}

	if m := constraintPattern.FindStringSubmatch(err.Error()); m != nil {
		return m[1], true
	}
	return "", false
}
