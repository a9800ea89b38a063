package tenant

import "gorm.io/gorm"

// Scope restricts a query to one company's rows.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return ScopeAlias("", companyID)
}

// ScopeAlias is Scope for joined queries where company_id must be qualified
// by the table alias.
func ScopeAlias(alias, companyID string) func(db *gorm.DB) *gorm.DB {
	column := "company_id"
	if alias != "" {
		column = alias + ".company_id"
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", companyID)
	}
}
