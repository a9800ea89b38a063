package counter_test

import (
	"context"
	"regexp"
	"testing"

	"go-payroll/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestRepository_NextCode(t *testing.T) {
	db, mock := newGormMock(t)
	repo := counter.NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO company_counters")).
		WithArgs("c-1", counter.TypeEmployee).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(42))

	code, err := repo.NextCode(context.Background(), "c-1", counter.TypeEmployee, "EMP")
	require.NoError(t, err)
	assert.Equal(t, "EMP-000042", code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_WithTx(t *testing.T) {
	db, mock := newGormMock(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO company_counters")).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(1))
	mock.ExpectRollback()

	tx, err := sqlDB.Begin()
	require.NoError(t, err)

	next, err := counter.NewRepository(db).WithTx(tx).GetNextValue(context.Background(), "c-1", counter.TypeEmployee)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
