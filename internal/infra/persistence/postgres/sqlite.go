package postgres

import (
	"fmt"

	"carbonledger/internal/errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // registers the pure-Go "sqlite" database/sql driver
)

const sqliteDriverName = "sqlite"

// SQLiteFileDSN returns the DSN of an on-disk database.
func SQLiteFileDSN(path string) string {
	return fmt.Sprintf("file:%s?_time_format=sqlite&_pragma=busy_timeout(5000)", path)
}

// SQLiteMemoryDSN returns the DSN of a named in-memory database shared by every connection of the pool.
func SQLiteMemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_time_format=sqlite", name)
}

// OpenSQLite opens a SQLite database. A single connection serializes writers,
// so callers must not use the root handle inside a transaction callback.
func OpenSQLite(dsn string, gormLogger logger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(&sqlite.Dialector{DriverName: sqliteDriverName, DSN: dsn}, &gorm.Config{
		SkipDefaultTransaction: true,
		NowFunc:                nowUTC,
		Logger:                 gormLogger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sqlite sql.DB")
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}
