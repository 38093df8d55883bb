package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// Reader returns a silent session tagged with a query comment, so slow query
// logs on the server side can be traced back to the calling operation.
func Reader(db *gorm.DB, tag string) *gorm.DB {
	return db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Clauses(hints.CommentBefore("select", tag))
}

// UseIndex adds an index hint on MySQL/MariaDB and is a no-op elsewhere
func UseIndex(db *gorm.DB, index string) *gorm.DB {
	if db.Dialector.Name() != "mysql" {
		return db
	}
	return db.Clauses(hints.UseIndex(index))
}

// SupportsTransactions reports whether cascades can run atomically on this dialect
func SupportsTransactions(db *gorm.DB) bool {
	switch db.Dialector.Name() {
	case "mysql", "postgres", "sqlite", "sqlserver":
		return true
	}
	return false
}
