package tenant_test

import (
	"testing"

	"go-payroll/internal/tenant"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type row struct {
	ID        string
	CompanyID string
}

func dryRun(t *testing.T) *gorm.DB {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DryRun: true})
	require.NoError(t, err)
	return db
}

func TestScope(t *testing.T) {
	db := dryRun(t)

	stmt := db.Table("rows").Scopes(tenant.Scope("c-1")).Find(&[]row{}).Statement
	assert.Contains(t, stmt.SQL.String(), "WHERE company_id = $1")
	assert.Equal(t, []any{"c-1"}, stmt.Vars)
}

func TestScopeAlias(t *testing.T) {
	db := dryRun(t)

	stmt := db.Table("rows AS r").Scopes(tenant.ScopeAlias("r", "c-2")).Find(&[]row{}).Statement
	assert.Contains(t, stmt.SQL.String(), "WHERE r.company_id = $1")
	assert.Equal(t, []any{"c-2"}, stmt.Vars)
}
