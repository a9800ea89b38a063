package connection

import (
	"database/sql"

	"gorm.io/gorm"
)

// GormWithTx returns a session of db that runs every statement on tx, so
// repositories built on gorm can join a transaction opened with
// sql.DB.BeginTx. A nil tx returns db unchanged.
func GormWithTx(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db
	}
	s := db.Session(&gorm.Session{NewDB: true})
	s.Statement.ConnPool = tx
	return s
}
